package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"stoxwatch/internal/digest"
	"stoxwatch/internal/queue"

	"github.com/gin-gonic/gin"
)

const jobsTokenHeader = "X-Jobs-Token"

type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

type JobsHandler struct {
	events EventPublisher
	token  string
}

func NewJobsHandler(events EventPublisher, token string) *JobsHandler {
	return &JobsHandler{events: events, token: token}
}

// TriggerJob publishes the job's event for the worker to run.
func (h *JobsHandler) TriggerJob(c *gin.Context) {
	got := c.GetHeader(jobsTokenHeader)
	if h.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid jobs token"})
		return
	}

	job, ok := digest.JobByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job"})
		return
	}

	event, err := queue.NewEvent(job.Event, nil)
	if err == nil {
		err = h.events.Publish(c.Request.Context(), event)
	}
	if err != nil {
		slog.Error("failed to publish job event", "job", job.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger job"})
		return
	}

	slog.Info("job triggered", "job", job.Name, "event", job.Event)
	c.JSON(http.StatusAccepted, gin.H{"job": job.Name, "event": job.Event})
}
