package live

import (
	"encoding/json"
	"log"

	"farmhand/controllers"
	"farmhand/models"
	"farmhand/mq"
	"farmhand/state"
)

// Update is the frame pushed to clients.
type Update struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// Send marshals an update and broadcasts it to room.
func (h *Hub) Send(room, kind string, data any) {
	b, err := json.Marshal(Update{Kind: kind, Data: data})
	if err != nil {
		log.Printf("[live] marshal %s: %v", kind, err)
		return
	}
	h.Broadcast(room, b)
}

// forward relays every value of v to room until the returned stop func runs.
func forward[T any](h *Hub, room, kind string, v *state.Value[T], view func(T) any) func() {
	ch, cancel := v.Subscribe()
	go func() {
		for val := range ch {
			h.Send(room, kind, view(val))
		}
	}()
	return cancel
}

type cartView struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice float64           `json:"totalPrice"`
	Count      int               `json:"count"`
}

func viewCart(items []models.CartItem) any {
	v := cartView{Items: items}
	for _, it := range items {
		v.TotalPrice += it.TotalPrice()
		v.Count += it.Quantity
	}
	return v
}

func same[T any](v T) any { return v }

// WatchShop streams a user's cart and order status.
func WatchShop(h *Hub, userID string, shop *controllers.Shop) []func() {
	return []func(){
		forward(h, userID, "cart", shop.CartItems, viewCart),
		forward(h, userID, "orderSuccess", shop.OrderSuccess, same[bool]),
	}
}

// WatchFinance streams a user's profit summaries.
func WatchFinance(h *Hub, userID string, fin *controllers.Finance) []func() {
	return []func(){
		forward(h, userID, "profit", fin.ProfitSummaries, same[[]models.ProfitSummary]),
	}
}

// Relay forwards a published domain event to its user's room.
func (h *Hub) Relay(e mq.Event) {
	if e.UserID == "" {
		return
	}
	h.Send(e.UserID, "event", e)
}

// Snapshot sends the current cart and profit state to room, for clients that
// connect after the session's watchers started.
func Snapshot(h *Hub, userID string, shop *controllers.Shop, fin *controllers.Finance) {
	h.Send(userID, "cart", viewCart(shop.CartItems.Get()))
	h.Send(userID, "profit", fin.ProfitSummaries.Get())
}
