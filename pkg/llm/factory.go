package llm

import (
	"fmt"
	"strings"
)

type Keys struct {
	Gemini      string
	GeminiModel string
	OpenAI      string
	Anthropic   string
}

// New builds the generator for provider, chained with fallback when set.
func New(provider, fallback string, keys Keys) (Generator, error) {
	primary, err := newProvider(provider, keys)
	if err != nil {
		return nil, err
	}

	if fallback == "" || strings.EqualFold(fallback, provider) {
		return primary, nil
	}

	secondary, err := newProvider(fallback, keys)
	if err != nil {
		return nil, err
	}

	return NewFallback(primary, secondary), nil
}

func newProvider(provider string, keys Keys) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		if keys.Gemini == "" {
			return nil, fmt.Errorf("llm: GEMINI_API_KEY is not set")
		}
		return NewGeminiClient(keys.Gemini, keys.GeminiModel), nil
	case "openai":
		if keys.OpenAI == "" {
			return nil, fmt.Errorf("llm: OPENAI_API_KEY is not set")
		}
		return NewOpenAIClient(keys.OpenAI), nil
	case "anthropic":
		if keys.Anthropic == "" {
			return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY is not set")
		}
		return NewAnthropicClient(keys.Anthropic), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
