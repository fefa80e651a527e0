package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("llm: response contained no text")

// Generator turns a single prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
