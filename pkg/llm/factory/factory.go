package factory

import (
	"context"
	"fmt"
	"time"

	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/llm/gemini"
	"cubie-assistant/pkg/llm/ollama"
)

type Settings struct {
	Provider       string
	Model          string
	FallbackModels []string
	BaseURL        string
	APIKey         string
	// Timeout bounds each call. Zero leaves the provider's own limits.
	Timeout time.Duration
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	p, err := newProvider(ctx, s)
	if err != nil || s.Timeout <= 0 {
		return p, err
	}
	return &boundedProvider{next: p, timeout: s.Timeout}, nil
}

func newProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini":
		if s.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(ctx, s.APIKey, s.Model, s.FallbackModels)
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
