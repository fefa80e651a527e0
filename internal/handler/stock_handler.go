package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"stoxwatch/internal/stocks"

	"github.com/gin-gonic/gin"
)

type StockService interface {
	Search(ctx context.Context, query, userID string) []stocks.Stock
	Detail(ctx context.Context, symbol, userID string) (*stocks.Detail, error)
}

type StockHandler struct {
	service StockService
}

func NewStockHandler(service StockService) *StockHandler {
	return &StockHandler{service: service}
}

func (h *StockHandler) Search(c *gin.Context) {
	query := c.Query("q")

	if c.Request.Method == http.MethodPost {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		query = req.Query
		if query == "" {
			query = req.Q
		}
	}

	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), query, currentUserID(c)))
}

func (h *StockHandler) GetStock(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("symbol"), currentUserID(c))
	if errors.Is(err, stocks.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching stock", "symbol", c.Param("symbol"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch stock"})
		return
	}

	c.JSON(http.StatusOK, detail)
}
