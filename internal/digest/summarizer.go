package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stoxwatch/pkg/llm"
)

// Summarizer applies one retry policy to every generation call: up to
// maxAttempts tries, each bounded by timeout, retrying on error or blank text.
type Summarizer struct {
	generator   llm.Generator
	maxAttempts int
	timeout     time.Duration
}

func NewSummarizer(generator llm.Generator, maxAttempts int, timeout time.Duration) *Summarizer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Summarizer{generator: generator, maxAttempts: maxAttempts, timeout: timeout}
}

func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		text, err := s.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = err
		slog.Warn("summarization attempt failed",
			"generator", s.generator.Name(),
			"attempt", attempt,
			"max_attempts", s.maxAttempts,
			"error", err,
		)

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("summarize after %d attempt(s): %w", s.maxAttempts, lastErr)
}

func (s *Summarizer) attempt(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}
