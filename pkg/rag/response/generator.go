package response

import (
	"context"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/rag/prompt"
	"cubie-assistant/pkg/rag/search"
	"cubie-assistant/pkg/retry"
)

// Generator creates help answers grounded in retrieved chunks
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// GenerateFromResults asks the model for an explanation limited to results.
// The call is retried once on transient failure.
func (g *Generator) GenerateFromResults(
	ctx context.Context,
	query string,
	results []search.Result,
	prefs prompt.Preferences,
	history []llm.Message,
) (string, error) {
	promptText := prompt.NewGroundedBuilder(query, results, prefs).Build()

	fullHistory := make([]llm.Message, 0, len(history)+1)
	fullHistory = append(fullHistory, history...)
	fullHistory = append(fullHistory, llm.Message{Role: "user", Content: promptText})

	policy := retry.OneRetry
	policy.ShouldRetry = llm.Transient

	var answer string
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		answer, err = g.llmProvider.Chat(ctx, fullHistory, llm.WithTemperature(0.2))
		return err
	})
	if err != nil {
		g.logger.Error("HELP", "LLM generation failed", map[string]interface{}{"error": err})
		return "", llm.TransportError("help.generate", err)
	}

	g.logger.Info("HELP", "Answer generated", map[string]interface{}{"chunks": len(results)})
	return answer, nil
}
