package routes

import (
	"fmt"
	"net/http"

	"farmhand/cart"
	"farmhand/farms"
	"farmhand/ledger"
	"farmhand/live"
	"farmhand/ratelim"

	"github.com/julienschmidt/httprouter"
)

type Auth func(httprouter.Handle) httprouter.Handle

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddFarmRoutes(router *httprouter.Router, h *farms.Handler, auth Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/categories", h.GetCategories)
	router.GET("/api/categories/:category/crops/:crop", h.GetCropDetails)
	router.GET("/api/crops/search", h.SearchCrops)
	router.POST("/api/categories/refresh", rl.Limit(auth(h.RefreshCategories)))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, auth Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/products", auth(h.GetProducts))
	router.GET("/api/cart", auth(h.GetCart))
	router.DELETE("/api/cart", auth(h.ClearCart))
	router.POST("/api/cart/items", auth(h.AddToCart))
	router.PUT("/api/cart/items/:productId", auth(h.UpdateQuantity))
	router.DELETE("/api/cart/items/:productId", auth(h.RemoveFromCart))
	router.POST("/api/cart/checkout", rl.Limit(auth(h.Checkout)))
	router.GET("/api/orders", auth(h.GetOrders))
	router.GET("/api/orders/:id/receipt", auth(h.PrintReceipt))
}

func AddFinanceRoutes(router *httprouter.Router, h *ledger.Handler, auth Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/finance", auth(h.GetDashboard))
	router.GET("/api/finance/by-crop", auth(h.GetByCrop))
	router.GET("/api/finance/categories", h.GetExpenseCategories)
	router.GET("/api/finance/profit", auth(h.GetProfit))
	router.POST("/api/finance/expenses", rl.Limit(auth(h.AddExpense)))
	router.DELETE("/api/finance/expenses/:id", rl.Limit(auth(h.DeleteExpense)))
	router.POST("/api/finance/sales", rl.Limit(auth(h.AddSale)))
	router.DELETE("/api/finance/sales/:id", rl.Limit(auth(h.DeleteSale)))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub, auth Auth, onJoin func(userID string)) {
	router.GET("/ws", auth(live.WebSocketHandler(hub, onJoin)))
}

// RoutesWrapper registers every route.
func RoutesWrapper(router *httprouter.Router, d Deps) {
	router.GET("/health", Index)
	AddFarmRoutes(router, d.Farms, d.Auth, d.RateLimiter)
	AddCartRoutes(router, d.Cart, d.Auth, d.RateLimiter)
	AddFinanceRoutes(router, d.Ledger, d.Auth, d.RateLimiter)
	AddLiveRoutes(router, d.Hub, d.Auth, d.OnJoin)
}

type Deps struct {
	Farms       *farms.Handler
	Cart        *cart.Handler
	Ledger      *ledger.Handler
	Hub         *live.Hub
	Auth        Auth
	RateLimiter *ratelim.RateLimiter
	OnJoin      func(userID string)
}
