package repository

import (
	"context"
	"fmt"
	"log"

	"farmhand/db"
	"farmhand/models"
	"farmhand/mq"
)

func (r *Repository) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	snap, err := r.read(ctx, productsPath)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	products := decodeAll("product", snap, decodeProduct)
	log.Printf("[repository] loaded %d products", len(products))
	return products, nil
}

// SaveOrder writes order under users/{userId}/orders with a generated id.
func (r *Repository) SaveOrder(ctx context.Context, order models.Order) bool {
	id, ok := r.push(ctx, "order", userPath(order.UserID, "orders"), func(id string) any {
		order.ID = id
		return order
	})
	if ok {
		r.emit(ctx, "order-placed", mq.Event{EntityType: "order", Method: "POST", EntityID: id, UserID: order.UserID})
	}
	return ok
}

func (r *Repository) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	snap, err := r.read(ctx, userPath(userID, "orders"))
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return decodeAll("order", snap, decodeOrder), nil
}

// GetOrder returns ok=false when the order does not exist or cannot be parsed.
func (r *Repository) GetOrder(ctx context.Context, userID, orderID string) (models.Order, bool, error) {
	snap, err := r.read(ctx, db.Join(userPath(userID, "orders"), orderID))
	if err != nil {
		return models.Order{}, false, fmt.Errorf("get order: %w", err)
	}
	if !snap.Exists() {
		return models.Order{}, false, nil
	}
	order, err := decodeOrder(snap)
	if err != nil {
		logSkip("order", orderID, err)
		return models.Order{}, false, nil
	}
	return order, true, nil
}
