package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel carries farm and finance domain events.
const DefaultChannel = "farm-events"

// Event describes a write that happened to a user's data.
type Event struct {
	Name       string `json:"event"`
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
	UserID     string `json:"user_id"`
	At         int64  `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes events as JSON on a Redis Pub/Sub channel.
type RedisPublisher struct {
	Conn    *redis.Client
	Channel string
}

func NewRedisPublisher(conn *redis.Client) *RedisPublisher {
	return &RedisPublisher{Conn: conn, Channel: DefaultChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.Conn.Publish(ctx, p.Channel, data).Err()
}

// Emit publishes e under name and logs instead of failing; events are
// best-effort.
func Emit(ctx context.Context, p Publisher, name string, e Event) {
	e.Name = name
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("[Emit] failed to publish %s %s: %v", name, e.EntityID, err)
		return
	}
	log.Printf("[Emit] published %s entity=%s user=%s", name, e.EntityID, e.UserID)
}

// Listen subscribes to channel and hands every decoded event to fn until ctx
// is done.
func Listen(ctx context.Context, conn *redis.Client, channel string, fn func(Event)) {
	sub := conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Printf("[Listen] listening for events on %s", channel)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("[Listen] failed to parse event: %v", err)
				continue
			}
			fn(e)
		}
	}
}
