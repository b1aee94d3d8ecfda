// Package cart serves the shop listing, the per-user cart, checkout and
// order history.
package cart

import (
	"context"
	"log"
	"net/http"

	"farmhand/catalog"
	"farmhand/controllers"
	"farmhand/models"
	"farmhand/utils"

	"github.com/julienschmidt/httprouter"
)

type OrderRepository interface {
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (models.Order, bool, error)
}

type Handler struct {
	Sessions *controllers.Sessions
	Orders   OrderRepository
}

func New(sessions *controllers.Sessions, orders OrderRepository) *Handler {
	return &Handler{Sessions: sessions, Orders: orders}
}

// shop returns the caller's controller with products loaded.
func (h *Handler) shop(w http.ResponseWriter, r *http.Request) (*controllers.Shop, string, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}
	shop := h.Sessions.Shop(userID)
	if len(shop.Products.Get()) == 0 {
		if err := shop.LoadProducts(r.Context()); err != nil {
			utils.RespondWithError(w, http.StatusBadGateway, "Failed to load products")
			return nil, "", false
		}
	}
	return shop, userID, true
}

// GetProducts returns products filtered by ?search= and ?category=.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	shop.SetSearchQuery(q.Get("search"))
	shop.SetSelectedCategory(q.Get("category"))

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"products":   shop.FilteredProducts(),
		"categories": shop.Categories(),
	})
}

// GetCart returns the cart. A pending order confirmation is reported once
// and then cleared.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	orderSuccess := shop.OrderSuccess.Get()
	if orderSuccess {
		shop.ResetOrderSuccess()
	}
	respondCart(w, http.StatusOK, shop, utils.M{"orderSuccess": orderSuccess})
}

func respondCart(w http.ResponseWriter, code int, shop *controllers.Shop, extra utils.M) {
	body := utils.M{
		"success":       true,
		"items":         shop.CartItems.Get(),
		"totalPrice":    shop.TotalPrice(),
		"cartItemCount": shop.CartItemCount(),
	}
	for k, v := range extra {
		body[k] = v
	}
	utils.RespondWithJSON(w, code, body)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req addItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	product, found := catalog.FindProduct(shop.Products.Get(), req.ProductID)
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	shop.AddToCart(product)
	respondCart(w, http.StatusCreated, shop, nil)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req quantityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	shop.UpdateQuantity(models.Product{ID: ps.ByName("productId")}, req.Quantity)
	respondCart(w, http.StatusOK, shop, nil)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	shop.RemoveFromCart(models.Product{ID: ps.ByName("productId")})
	respondCart(w, http.StatusOK, shop, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	shop, _, ok := h.shop(w, r)
	if !ok {
		return
	}
	shop.ClearCart()
	respondCart(w, http.StatusOK, shop, nil)
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req checkoutRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.DeliveryAddress == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "deliveryAddress is required")
		return
	}
	shop, userID, ok := h.shop(w, r)
	if !ok {
		return
	}
	if shop.CartItemCount() == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	if !shop.Checkout(r.Context(), userID, req.DeliveryAddress) {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to place order")
		return
	}
	log.Printf("[cart] order placed for %s", userID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true})
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orders, err := h.Orders.GetOrders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": newestFirst(orders)})
}
