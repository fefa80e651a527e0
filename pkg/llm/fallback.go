package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Fallback tries each generator in order and returns the first text produced.
type Fallback struct {
	generators []Generator
}

func NewFallback(generators ...Generator) *Fallback {
	return &Fallback{generators: generators}
}

func (f *Fallback) Name() string {
	return "fallback"
}

func (f *Fallback) Generate(ctx context.Context, prompt string) (string, error) {
	if len(f.generators) == 0 {
		return "", errors.New("llm: no generator configured")
	}

	var errs []error
	for _, g := range f.generators {
		text, err := g.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		slog.Warn("generator failed, trying next", "generator", g.Name(), "error", err)
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("llm: all generators failed: %w", errors.Join(errs...))
}
