// Package help answers "how does the application work" questions from the
// help corpus. It only ever produces explanatory text.
package help

import (
	"context"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/metrics"
	"cubie-assistant/pkg/rag/prompt"
	"cubie-assistant/pkg/rag/response"
	"cubie-assistant/pkg/rag/search"
)

type Answer struct {
	Text    string
	Sources []string
	// Empty is set when nothing cleared the similarity floor.
	Empty bool
}

type Config struct {
	Search      search.Config
	HelpBaseURL string
}

type Engine struct {
	search    *search.Orchestrator
	generator *response.Generator
	links     response.LinkPolicy
	config    Config
	logger    logger.ILogger
}

func NewEngine(
	searcher *search.Orchestrator,
	generator *response.Generator,
	links response.LinkPolicy,
	config Config,
	log logger.ILogger,
) *Engine {
	return &Engine{
		search:    searcher,
		generator: generator,
		links:     links,
		config:    config,
		logger:    log,
	}
}

// Answer retrieves grounding chunks for query and asks the model to explain.
// Below the similarity floor it returns a fixed message without calling the
// model.
func (e *Engine) Answer(ctx context.Context, query string, history []llm.Message, prefs prompt.Preferences) (*Answer, error) {
	results, err := e.search.Execute(ctx, query, e.config.Search)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		metrics.RetrievalTotal.WithLabelValues("empty").Inc()
		e.logger.Info("HELP", "No chunk cleared the similarity floor", map[string]interface{}{
			"query": logger.Preview(query, 80),
			"floor": e.config.Search.Floor,
		})
		return &Answer{Text: errs.MsgRetrievalEmpty, Empty: true}, nil
	}

	metrics.RetrievalTotal.WithLabelValues("hit").Inc()

	text, err := e.generator.GenerateFromResults(ctx, query, results, prefs, history)
	if err != nil {
		return nil, err
	}

	answer := &Answer{Text: response.Clean(text, e.config.HelpBaseURL, e.links)}
	seen := map[string]bool{}
	for _, r := range results {
		if !seen[r.Chunk.SourceTitle] {
			seen[r.Chunk.SourceTitle] = true
			answer.Sources = append(answer.Sources, r.Chunk.SourceTitle)
		}
	}
	if answer.Text == "" {
		answer.Text = errs.MsgRetrievalEmpty
	}
	return answer, nil
}
