package llm

import (
	"context"
	"errors"
)

// ErrRateLimited is returned when every configured model reported overload.
var ErrRateLimited = errors.New("llm: rate limited")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	System      string
	Tools       []Tool
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithSystem sets the system instruction sent ahead of the history.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithTools exposes function-calling tools for this call.
func WithTools(tools ...Tool) Option {
	return func(o *Options) {
		o.Tools = append(o.Tools, tools...)
	}
}

// BuildOptions applies opts over the defaults shared by all providers.
func BuildOptions(opts ...Option) *Options {
	options := &Options{Temperature: 0.3}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Tool is a callable function declaration.
type Tool struct {
	Name        string
	Description string
	Parameters  *Schema
}

// ToolCall is a structured function call returned by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// Completion is either free text, one or more tool calls, or both.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Complete is Chat with function calling enabled through WithTools.
	Complete(ctx context.Context, history []Message, options ...Option) (*Completion, error)
}
