package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmhand/auth"
	"farmhand/controllers"
	"farmhand/db"
	"farmhand/models"
	"farmhand/repository"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `{"products":{
  "p1":{"id":"p1","name":"Tomato","category":"Vegetables","pricePerKg":30,"description":"Fresh red"},
  "p2":{"id":"p2","name":"Urea","category":"Fertilizer","pricePerKg":12.5}}}`

// asUser marks every request as coming from uid.
func asUser(uid string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		h(w, r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UID: uid})), ps)
	}
}

func newRouter(t *testing.T, uid string) (*httprouter.Router, *repository.Repository) {
	t.Helper()
	mem := db.NewMemory()
	require.NoError(t, mem.LoadJSON(strings.NewReader(seed)))
	repo := repository.New(mem)
	h := New(controllers.NewSessions(repo), repo)

	router := httprouter.New()
	router.GET("/api/products", asUser(uid, h.GetProducts))
	router.GET("/api/cart", asUser(uid, h.GetCart))
	router.DELETE("/api/cart", asUser(uid, h.ClearCart))
	router.POST("/api/cart/items", asUser(uid, h.AddToCart))
	router.PUT("/api/cart/items/:productId", asUser(uid, h.UpdateQuantity))
	router.DELETE("/api/cart/items/:productId", asUser(uid, h.RemoveFromCart))
	router.POST("/api/cart/checkout", asUser(uid, h.Checkout))
	router.GET("/api/orders", asUser(uid, h.GetOrders))
	router.GET("/api/orders/:id/receipt", asUser(uid, h.PrintReceipt))
	return router, repo
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestProductsFiltering(t *testing.T) {
	router, _ := newRouter(t, "u1")

	_, body := do(t, router, http.MethodGet, "/api/products", "")
	assert.Len(t, body["products"], 2)
	assert.Equal(t, []any{"Fertilizer", "Vegetables"}, body["categories"])

	_, body = do(t, router, http.MethodGet, "/api/products?search=red", "")
	assert.Len(t, body["products"], 1)

	_, body = do(t, router, http.MethodGet, "/api/products?category=Fertilizer", "")
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "kg", products[0].(map[string]any)["unit"])
}

func TestCartFlow(t *testing.T) {
	router, repo := newRouter(t, "u1")

	rec, body := do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	_, body = do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"p2"}`)
	assert.Len(t, body["items"], 2)
	assert.Equal(t, 72.5, body["totalPrice"])
	assert.Equal(t, float64(3), body["cartItemCount"])

	rec, _ = do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = do(t, router, http.MethodPut, "/api/cart/items/p2", `{"quantity":0}`)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, 60.0, body["totalPrice"])

	rec, _ = do(t, router, http.MethodPost, "/api/cart/checkout", `{"deliveryAddress":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodPost, "/api/cart/checkout", `{"deliveryAddress":"Farm Road 1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, body = do(t, router, http.MethodGet, "/api/cart", "")
	assert.Empty(t, body["items"])
	assert.Equal(t, true, body["orderSuccess"])
	_, body = do(t, router, http.MethodGet, "/api/cart", "")
	assert.Equal(t, false, body["orderSuccess"], "confirmation is reported once")

	orders, err := repo.GetOrders(t.Context(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 60.0, orders[0].TotalPrice)
	assert.Equal(t, models.OrderPending, orders[0].Status)

	_, body = do(t, router, http.MethodGet, "/api/orders", "")
	assert.Len(t, body["orders"], 1)

	rec, _ = do(t, router, http.MethodGet, "/api/orders/"+orders[0].ID+"/receipt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	router, _ := newRouter(t, "u1")
	rec, body := do(t, router, http.MethodPost, "/api/cart/checkout", `{"deliveryAddress":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", body["message"])
}

func TestRemoveAndClear(t *testing.T) {
	router, _ := newRouter(t, "u1")
	do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"p1"}`)
	do(t, router, http.MethodPost, "/api/cart/items", `{"productId":"p2"}`)

	_, body := do(t, router, http.MethodDelete, "/api/cart/items/p1", "")
	assert.Len(t, body["items"], 1)
	_, body = do(t, router, http.MethodDelete, "/api/cart", "")
	assert.Empty(t, body["items"])
}

func TestReceiptNotFound(t *testing.T) {
	router, _ := newRouter(t, "u1")
	rec, _ := do(t, router, http.MethodGet, "/api/orders/missing/receipt", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnonymousRejected(t *testing.T) {
	mem := db.NewMemory()
	repo := repository.New(mem)
	h := New(controllers.NewSessions(repo), repo)

	rec := httptest.NewRecorder()
	h.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRenderReceipt(t *testing.T) {
	order := models.NewOrder("u1", []models.CartItem{{Product: models.Product{ID: "p1", Name: "Tomato", PricePerKg: 30, Unit: "kg"}, Quantity: 2}}, 60, "Farm Road 1")
	order.ID = "o1"
	pdf, err := RenderReceipt(order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
