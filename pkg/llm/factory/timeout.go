package factory

import (
	"context"
	"time"

	"cubie-assistant/pkg/llm"
)

// boundedProvider gives every provider call its own deadline.
type boundedProvider struct {
	next    llm.LLMProvider
	timeout time.Duration
}

func (p *boundedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Chat(ctx, history, options...)
}

func (p *boundedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Generate(ctx, prompt, options...)
}

func (p *boundedProvider) Complete(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Complete(ctx, history, options...)
}
