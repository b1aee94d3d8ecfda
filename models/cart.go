package models

import "time"

// Product is a shop listing, seeded externally under /products.
type Product struct {
	ID             string  `json:"id" bson:"id"`
	Name           string  `json:"name" bson:"name"`
	Category       string  `json:"category" bson:"category"`
	ImageURL       string  `json:"imageUrl" bson:"imageUrl"`
	PricePerKg     float64 `json:"pricePerKg" bson:"pricePerKg"`
	Unit           string  `json:"unit" bson:"unit"`
	StockAvailable int     `json:"stockAvailable" bson:"stockAvailable"`
	Seller         string  `json:"seller" bson:"seller"`
	Description    string  `json:"description" bson:"description"`
	MarketPrice    float64 `json:"marketPrice" bson:"marketPrice"`
	Region         string  `json:"region" bson:"region"`
}

// CartItem is one line in the in-memory cart.
type CartItem struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// TotalPrice is pricePerKg × quantity.
func (c CartItem) TotalPrice() float64 {
	return c.Product.PricePerKg * float64(c.Quantity)
}

// OrderPending is the status of every newly placed order.
const OrderPending = "pending"

// Order is the persisted snapshot of a cart at checkout. Orders are never updated.
type Order struct {
	ID              string     `json:"id" bson:"id"`
	UserID          string     `json:"userId" bson:"userId"`
	Items           []CartItem `json:"items" bson:"items"`
	TotalPrice      float64    `json:"totalPrice" bson:"totalPrice"`
	Date            int64      `json:"date" bson:"date"` // unix millis
	Status          string     `json:"status" bson:"status"`
	DeliveryAddress string     `json:"deliveryAddress" bson:"deliveryAddress"`
}

// NewOrder builds a pending order stamped with the current time.
func NewOrder(userID string, items []CartItem, total float64, address string) Order {
	return Order{
		UserID:          userID,
		Items:           items,
		TotalPrice:      total,
		Date:            time.Now().UnixMilli(),
		Status:          OrderPending,
		DeliveryAddress: address,
	}
}
