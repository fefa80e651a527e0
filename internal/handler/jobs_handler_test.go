package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stoxwatch/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newTestJobsRouter(events EventPublisher, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/jobs/:name/trigger", NewJobsHandler(events, token).TriggerJob)
	r.GET("/health", NewHealthHandler(&fakePinger{}).GetHealth)
	return r
}

func TestTriggerJob_PublishesEvent(t *testing.T) {
	events := &fakePublisher{}
	r := newTestJobsRouter(events, "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/jobs/daily-watchlist-news/trigger", nil)
	req.Header.Set("X-Jobs-Token", "s3cret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, len(events.events))
	assert.Equal(t, queue.EventSendWatchlistNews, events.events[0].Name)
}

func TestTriggerJob_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		job        string
		code       int
	}{
		{"wrong token", "s3cret", "guess", "daily-news-summary", http.StatusUnauthorized},
		{"no token configured", "", "", "daily-news-summary", http.StatusUnauthorized},
		{"unknown job", "s3cret", "s3cret", "weekly-report", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakePublisher{}
			r := newTestJobsRouter(events, tt.configured)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/jobs/"+tt.job+"/trigger", nil)
			req.Header.Set("X-Jobs-Token", tt.sent)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, 0, len(events.events))
		})
	}
}

func TestTriggerJob_PublishFailure(t *testing.T) {
	r := newTestJobsRouter(&fakePublisher{err: errDBDown}, "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/jobs/daily-news-summary/trigger", nil)
	req.Header.Set("X-Jobs-Token", "s3cret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tt := range []struct {
		err  error
		code int
	}{{nil, http.StatusOK}, {errDBDown, http.StatusServiceUnavailable}} {
		r := gin.New()
		r.GET("/health", NewHealthHandler(&fakePinger{err: tt.err}).GetHealth)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, tt.code, w.Code)
	}
}
