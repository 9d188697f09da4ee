package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (EmbeddingProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	result, err := p.client.Models.EmbedContent(ctx, p.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini returned no embeddings")
	}
	return normalizeVector(result.Embeddings[0].Values), nil
}

// NewProvider picks the embedding backend named in configuration. A positive
// dims rejects vectors of any other length.
func NewProvider(ctx context.Context, provider, model, apiKey, ollamaURL string, dims int) (EmbeddingProvider, error) {
	var (
		p   EmbeddingProvider
		err error
	)
	switch provider {
	case "gemini":
		p, err = NewGeminiProvider(ctx, apiKey, model)
	case "ollama":
		p = NewOllamaProvider(ollamaURL, model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
	if err != nil || dims <= 0 {
		return p, err
	}
	return &dimensionGuard{next: p, dims: dims}, nil
}

type dimensionGuard struct {
	next EmbeddingProvider
	dims int
}

func (g *dimensionGuard) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	vec, err := g.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if len(vec) != g.dims {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(vec), g.dims)
	}
	return vec, nil
}
