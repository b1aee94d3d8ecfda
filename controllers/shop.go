package controllers

import (
	"context"
	"log"
	"sync"

	"farmhand/catalog"
	"farmhand/models"
	"farmhand/state"
)

type ShopRepository interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	SaveOrder(ctx context.Context, order models.Order) bool
}

// Shop holds the product listing and a client-side cart that is only
// persisted, as an order, on checkout.
type Shop struct {
	repo ShopRepository
	busy *state.Busy
	cart sync.Mutex

	Products         *state.Value[[]models.Product]
	CartItems        *state.Value[[]models.CartItem]
	SearchQuery      *state.Value[string]
	SelectedCategory *state.Value[string]
	OrderSuccess     *state.Value[bool]
	IsLoading        *state.Value[bool]
	Err              *state.Value[error]
}

func NewShop(repo ShopRepository) *Shop {
	busy := state.NewBusy()
	return &Shop{
		repo:             repo,
		busy:             busy,
		Products:         state.NewValue([]models.Product{}),
		CartItems:        state.NewValue([]models.CartItem{}),
		SearchQuery:      state.NewValue(""),
		SelectedCategory: state.NewValue(""),
		OrderSuccess:     state.NewValue(false),
		IsLoading:        busy.Loading,
		Err:              state.NewValue[error](nil),
	}
}

func (s *Shop) LoadProducts(ctx context.Context) error {
	defer s.busy.Begin()()
	products, err := s.repo.GetAllProducts(ctx)
	if err != nil {
		log.Printf("[shop] load products: %v", err)
		s.Err.Set(err)
		return err
	}
	s.Err.Set(nil)
	s.Products.Set(products)
	return nil
}

func (s *Shop) SetSearchQuery(q string) { s.SearchQuery.Set(q) }

// SetSelectedCategory filters by category; "" shows every category.
func (s *Shop) SetSelectedCategory(c string) { s.SelectedCategory.Set(c) }

func (s *Shop) FilteredProducts() []models.Product {
	return catalog.FilterProducts(s.Products.Get(), s.SearchQuery.Get(), s.SelectedCategory.Get())
}

// Categories lists the distinct product categories alphabetically.
func (s *Shop) Categories() []string {
	return catalog.ProductCategories(s.Products.Get())
}

func (s *Shop) TotalPrice() float64 {
	return cartTotal(s.CartItems.Get())
}

func (s *Shop) CartItemCount() int {
	n := 0
	for _, it := range s.CartItems.Get() {
		n += it.Quantity
	}
	return n
}

func cartTotal(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.TotalPrice()
	}
	return total
}

// AddToCart bumps the quantity of an existing line for the same product id or
// appends a new line with quantity 1.
func (s *Shop) AddToCart(p models.Product) {
	s.cart.Lock()
	defer s.cart.Unlock()

	s.CartItems.Update(func(current []models.CartItem) []models.CartItem {
		items := append([]models.CartItem(nil), current...)
		for i := range items {
			if items[i].Product.ID == p.ID {
				items[i].Quantity++
				return items
			}
		}
		return append(items, models.CartItem{Product: p, Quantity: 1})
	})
}

func (s *Shop) RemoveFromCart(p models.Product) {
	s.cart.Lock()
	defer s.cart.Unlock()
	s.removeLocked(p.ID)
}

func (s *Shop) removeLocked(productID string) {
	s.CartItems.Update(func(current []models.CartItem) []models.CartItem {
		items := make([]models.CartItem, 0, len(current))
		for _, it := range current {
			if it.Product.ID != productID {
				items = append(items, it)
			}
		}
		return items
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
// Products not in the cart are ignored.
func (s *Shop) UpdateQuantity(p models.Product, quantity int) {
	s.cart.Lock()
	defer s.cart.Unlock()

	if quantity <= 0 {
		s.removeLocked(p.ID)
		return
	}
	s.CartItems.Update(func(current []models.CartItem) []models.CartItem {
		for i := range current {
			if current[i].Product.ID == p.ID {
				items := append([]models.CartItem(nil), current...)
				items[i].Quantity = quantity
				return items
			}
		}
		return current
	})
}

func (s *Shop) ClearCart() {
	s.cart.Lock()
	defer s.cart.Unlock()
	s.CartItems.Set([]models.CartItem{})
}

// Checkout saves the current cart as an order. Only a successful save clears
// the cart and raises OrderSuccess.
func (s *Shop) Checkout(ctx context.Context, userID, deliveryAddress string) bool {
	defer s.busy.Begin()()
	s.cart.Lock()
	defer s.cart.Unlock()

	items := s.CartItems.Get()
	order := models.NewOrder(userID, items, cartTotal(items), deliveryAddress)
	if !s.repo.SaveOrder(ctx, order) {
		log.Printf("[shop] checkout for %s failed", userID)
		return false
	}
	s.CartItems.Set([]models.CartItem{})
	s.OrderSuccess.Set(true)
	return true
}

// ResetOrderSuccess marks the order confirmation as consumed.
func (s *Shop) ResetOrderSuccess() { s.OrderSuccess.Set(false) }
