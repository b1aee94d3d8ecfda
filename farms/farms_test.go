package farms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmhand/controllers"
	"farmhand/db"
	"farmhand/repository"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `{"categories":[
  {"name":"Cereals","crops":[
    {"name":"Wheat","regions":["Punjab"],"diseases":[{"name":"Rust","solution":["fungicide"]}]},
    {"name":"Rice","regions":["Assam","Punjab"]}]},
  {"name":"Pulses","crops":[{"name":"Gram","regions":["Rajasthan"]}]}]}`

func newRouter(t *testing.T) (*httprouter.Router, *db.Memory) {
	t.Helper()
	mem := db.NewMemory()
	require.NoError(t, mem.LoadJSON(strings.NewReader(seed)))
	repo := repository.New(mem)
	h := New(controllers.NewFarm(repo), repo)

	router := httprouter.New()
	router.GET("/api/categories", h.GetCategories)
	router.POST("/api/categories/refresh", h.RefreshCategories)
	router.GET("/api/categories/:category/crops/:crop", h.GetCropDetails)
	router.GET("/api/crops/search", h.SearchCrops)
	return router, mem
}

func do(t *testing.T, router http.Handler, method, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetCategories(t *testing.T) {
	router, _ := newRouter(t)
	code, body := do(t, router, http.MethodGet, "/api/categories")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["categories"], 2)
}

func TestRefreshPicksUpNewData(t *testing.T) {
	router, mem := newRouter(t)
	do(t, router, http.MethodGet, "/api/categories")

	require.NoError(t, mem.Set(t.Context(), "categories/2", map[string]any{"name": "Oilseeds"}))
	_, body := do(t, router, http.MethodGet, "/api/categories")
	assert.Len(t, body["categories"], 2, "catalogue is cached")

	_, body = do(t, router, http.MethodPost, "/api/categories/refresh")
	assert.Len(t, body["categories"], 3)
}

func TestGetCropDetails(t *testing.T) {
	router, _ := newRouter(t)

	code, body := do(t, router, http.MethodGet, "/api/categories/Cereals/crops/Wheat")
	require.Equal(t, http.StatusOK, code)
	crop := body["crop"].(map[string]any)
	assert.Equal(t, "Wheat", crop["name"])
	assert.Len(t, crop["diseases"], 1)

	code, body = do(t, router, http.MethodGet, "/api/categories/Cereals/crops/Gram")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestSearchCrops(t *testing.T) {
	router, _ := newRouter(t)

	_, body := do(t, router, http.MethodGet, "/api/crops/search?q=punjab")
	assert.Len(t, body["results"], 2)

	_, body = do(t, router, http.MethodGet, "/api/crops/search?region=Punjab&q=ric")
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "Cereals", results[0].(map[string]any)["category"])

	_, body = do(t, router, http.MethodGet, "/api/crops/search?q=cotton")
	assert.Empty(t, body["results"])
}
