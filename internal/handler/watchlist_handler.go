package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stoxwatch/internal/model"
	"stoxwatch/internal/watchlist"

	"github.com/gin-gonic/gin"
)

type WatchlistService interface {
	Add(ctx context.Context, userID, symbol, company string) (watchlist.Result, error)
	Remove(ctx context.Context, userID, symbol string) (watchlist.Result, error)
	List(ctx context.Context, userID string) ([]model.WatchlistEntry, error)
}

type WatchlistHandler struct {
	service WatchlistService
}

func NewWatchlistHandler(service WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{service: service}
}

func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := WatchlistResponse{Items: make([]WatchlistItemResponse, 0, len(entries)), Total: len(entries)}
	for _, e := range entries {
		res.Items = append(res.Items, WatchlistItemResponse{
			Symbol:  e.Symbol,
			Company: e.Company,
			AddedAt: e.AddedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, watchlist.Result{Success: false, Message: "Symbol is required"})
		return
	}

	result, err := h.service.Add(c.Request.Context(), currentUserID(c), req.Symbol, req.Company)
	c.JSON(statusFor(err, http.StatusCreated), result)
}

func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	result, err := h.service.Remove(c.Request.Context(), currentUserID(c), c.Param("symbol"))
	c.JSON(statusFor(err, http.StatusOK), result)
}

func statusFor(err error, ok int) int {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, watchlist.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, watchlist.ErrExists):
		return http.StatusConflict
	case errors.Is(err, watchlist.ErrNotInList):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
