package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cubie-assistant/pkg/llm"

	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API through the genai SDK. When a model
// reports overload the next fallback model is tried.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	fallbacks []string
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, model string, fallbacks []string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{client: client, model: model, fallbacks: fallbacks}, nil
}

func (g *GeminiProvider) Complete(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := llm.BuildOptions(opts...)
	contents, system := toContents(history, options.System)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(options.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(options.Tools))
		for i, t := range options.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toGenaiSchema(t.Parameters),
			}
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	models := []string{g.model}
	if options.Model != "" {
		models[0] = options.Model
	}
	models = append(models, g.fallbacks...)

	var lastErr error
	for _, model := range models {
		resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			if isOverloaded(err) {
				lastErr = fmt.Errorf("model %s: %w", model, llm.ErrRateLimited)
				continue
			}
			return nil, fmt.Errorf("gemini generate: %w", err)
		}
		return toCompletion(resp), nil
	}
	return nil, lastErr
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	c, err := g.Complete(ctx, history, opts...)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// toContents maps history onto genai roles. System messages in the history are
// folded into the system instruction because Gemini only accepts user/model turns.
func toContents(history []llm.Message, system string) ([]*genai.Content, string) {
	var sys []string
	if system != "" {
		sys = append(sys, system)
	}
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			sys = append(sys, msg.Content)
		case "assistant", "model":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(sys, "\n\n")
}

func toCompletion(resp *genai.GenerateContentResponse) *llm.Completion {
	out := &llm.Completion{}
	if resp == nil {
		return out
	}
	for _, fc := range resp.FunctionCalls() {
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
	}
	if len(out.ToolCalls) == 0 {
		out.Text = resp.Text()
	}
	return out
}

var schemaTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		MinLength:   s.MinLength,
		MaxLength:   s.MaxLength,
		MinItems:    s.MinItems,
		MaxItems:    s.MaxItems,
		Format:      s.Format,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func isOverloaded(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code == 503
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
