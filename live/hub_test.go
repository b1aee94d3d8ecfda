package live

import (
	"encoding/json"
	"testing"
	"time"

	"farmhand/controllers"
	"farmhand/models"
	"farmhand/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) Update {
	t.Helper()
	select {
	case got, ok := <-c.Send:
		require.True(t, ok, "client channel closed")
		var u Update
		require.NoError(t, json.Unmarshal(got, &u))
		return u
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return Update{}
}

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10), Room: "u1"}
	other := &Client{Send: make(chan []byte, 10), Room: "u2"}
	hub.Register(client)
	hub.Register(other)

	hub.Send("u1", "ping", "hello")
	u := recv(t, client)
	assert.Equal(t, "ping", u.Kind)
	assert.Equal(t, "hello", u.Data)

	hub.Unregister(client)
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Empty(t, other.Send)
}

func TestOnlineCountsRoomConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 1), Room: "u1"}
	b := &Client{Send: make(chan []byte, 1), Room: "u1"}
	hub.Register(a)
	hub.Register(b)
	assert.Eventually(t, func() bool { return hub.Online("u1") == 2 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.Online("u2"))

	hub.Unregister(a)
	assert.Eventually(t, func() bool { return hub.Online("u1") == 1 }, time.Second, 5*time.Millisecond)
}

func TestRelayRoutesByUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10), Room: "u1"}
	hub.Register(client)

	hub.Relay(mq.Event{Name: "sale-added", UserID: "u1", EntityID: "s1"})
	u := recv(t, client)
	assert.Equal(t, "event", u.Kind)
	data := u.Data.(map[string]any)
	assert.Equal(t, "sale-added", data["event"])
}

func TestWatchShopStreamsCart(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10), Room: "u1"}
	hub.Register(client)

	shop := controllers.NewShop(nil)
	stops := WatchShop(hub, "u1", shop)
	defer func() {
		for _, stop := range stops {
			stop()
		}
	}()

	// initial snapshots of both values
	kinds := map[string]bool{}
	kinds[recv(t, client).Kind] = true
	kinds[recv(t, client).Kind] = true
	assert.Equal(t, map[string]bool{"cart": true, "orderSuccess": true}, kinds)

	shop.AddToCart(models.Product{ID: "p1", PricePerKg: 2.5})
	u := recv(t, client)
	require.Equal(t, "cart", u.Kind)
	view := u.Data.(map[string]any)
	assert.Equal(t, 2.5, view["totalPrice"])
	assert.Equal(t, float64(1), view["count"])
}
