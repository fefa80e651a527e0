package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewGeminiClient("test-key", "")
	c.baseURL = srv.URL
	c.httpClient = srv.Client()
	return c
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req geminiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` + "```html\\n<p>Hello</p>\\n```" + `"}]}}]}`))
	})

	text, err := c.Generate(context.Background(), "summarize this")
	assert.Equal(t, nil, err)
	assert.Equal(t, "<p>Hello</p>", text)
	assert.Equal(t, "/"+DefaultGeminiModel+":generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "summarize this", gotPrompt)
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.Generate(context.Background(), "p")
	assert.Equal(t, true, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiGenerateBlankText(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`))
	})

	_, err := c.Generate(context.Background(), "p")
	assert.Equal(t, true, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiGenerateHTTPError(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Generate(context.Background(), "p")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "429"))
}
