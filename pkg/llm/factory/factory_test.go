package factory

import (
	"context"
	"testing"
	"time"

	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(context.Background(), Settings{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider(context.Background(), Settings{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(context.Background(), Settings{Provider: "openai"})
	assert.Error(t, err)
}

type slowProvider struct{}

func (slowProvider) Chat(ctx context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (p slowProvider) Generate(ctx context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.Chat(ctx, nil)
}

func (slowProvider) Complete(ctx context.Context, _ []llm.Message, _ ...llm.Option) (*llm.Completion, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBoundedProvider_AppliesDeadline(t *testing.T) {
	p := &boundedProvider{next: slowProvider{}, timeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := p.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	_, err = p.Complete(context.Background(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewLLMProvider_WrapsWhenTimeoutSet(t *testing.T) {
	p, err := NewLLMProvider(context.Background(), Settings{Provider: "ollama", Model: "llama3", Timeout: time.Second})
	require.NoError(t, err)
	_, ok := p.(*boundedProvider)
	assert.True(t, ok)
}
