package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stoxwatch/internal/stocks"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newTestStockRouter(service StockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStockHandler(service)
	validator := newFakeValidator()
	r.GET("/stocks/search", OptionalAuth(validator), h.Search)
	r.POST("/stocks/search", OptionalAuth(validator), h.Search)
	r.GET("/stocks/:symbol", AuthMiddleware(validator), h.GetStock)
	return r
}

func TestSearch_GetAnonymous(t *testing.T) {
	service := &fakeStockService{results: []stocks.Stock{{Symbol: "AAPL", Name: "Apple Inc", Exchange: "US", Type: "Common Stock"}}}
	r := newTestStockRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/search?q=apple", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apple", service.lastQuery)
	assert.Equal(t, "", service.lastUser)

	var res []stocks.Stock
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "AAPL", res[0].Symbol)
}

func TestSearch_PostWithUser(t *testing.T) {
	service := &fakeStockService{results: []stocks.Stock{}}
	r := newTestStockRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stocks/search", strings.NewReader(`{"q":"msft"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "msft", service.lastQuery)
	assert.Equal(t, "u1", service.lastUser)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSearch_OptionalAuthIgnoresBadToken(t *testing.T) {
	service := &fakeStockService{}
	r := newTestStockRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/search", nil)
	req.Header.Set("Authorization", "Bearer expired")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", service.lastUser)
}

func TestGetStock(t *testing.T) {
	service := &fakeStockService{detail: &stocks.Detail{Symbol: "MSFT", Name: "Microsoft", IsInWatchlist: true}}
	r := newTestStockRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/MSFT", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), `"isInWatchlist":true`))
}

func TestGetStock_NotFound(t *testing.T) {
	r := newTestStockRouter(&fakeStockService{err: stocks.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/NOPE", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
