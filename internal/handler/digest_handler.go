package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"stoxwatch/internal/model"

	"github.com/gin-gonic/gin"
)

type DigestStore interface {
	GetRuns(ctx context.Context, limit, offset int) ([]model.DigestRun, error)
	GetRunTotal(ctx context.Context) (int, error)
}

type DigestHandler struct {
	repository DigestStore
}

func NewDigestHandler(repository DigestStore) *DigestHandler {
	return &DigestHandler{repository: repository}
}

func toDigestRunResponse(r model.DigestRun) DigestRunResponse {
	return DigestRunResponse{
		ID:         r.ID,
		Job:        r.Job,
		Success:    r.Success,
		Message:    r.Message,
		Users:      r.Users,
		Sent:       r.Sent,
		Skipped:    r.Skipped,
		Failed:     r.Failed,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
		FinishedAt: r.FinishedAt.Format(time.RFC3339),
	}
}

func (h *DigestHandler) GetDigests(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	runs, err := h.repository.GetRuns(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("error fetching digest runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetRunTotal(c.Request.Context())
	if err != nil {
		slog.Error("error fetching digest run total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := DigestRunsResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		History: []DigestRunResponse{},
	}

	if len(runs) > 0 {
		latest := toDigestRunResponse(runs[0])
		res.Latest = &latest
		for _, r := range runs[1:] {
			res.History = append(res.History, toDigestRunResponse(r))
		}
	}

	c.JSON(http.StatusOK, res)
}
