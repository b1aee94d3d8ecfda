package rdx

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client to addr and checks it answers PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr})
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	log.Printf("[rdx] connected to redis at %s", addr)
	return conn, nil
}

// Cache is the small slice of Redis the cached store needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DelPrefix(ctx context.Context, prefix string) error
}

// RedisCache implements Cache on a go-redis client.
type RedisCache struct {
	Conn *redis.Client
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Conn.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) DelPrefix(ctx context.Context, prefix string) error {
	iter := c.Conn.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Conn.Del(ctx, keys...).Err()
}
