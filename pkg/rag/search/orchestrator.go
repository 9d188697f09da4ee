package search

import (
	"context"
	"sort"
	"strings"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/embedding"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/rag/index"
)

// Orchestrator handles vector search over the help corpus
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	index             *index.Index
	logger            logger.ILogger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, idx *index.Index, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		index:             idx,
		logger:            log,
	}
}

// Config encapsulates search parameters
type Config struct {
	// Floor is the minimum raw cosine similarity for a chunk to count.
	Floor float64
	TopK  int
	// Boost is added per BoostTerms entry present in both query and chunk.
	Boost      float64
	BoostTerms []string
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		Floor:      0.55,
		TopK:       5,
		Boost:      0.02,
		BoostTerms: []string{"kpi", "dashboard", "visualization", "metrics", "summary", "trend", "table", "shipment"},
	}
}

// Result is one retrieved chunk. Score includes boosts; Similarity does not.
type Result struct {
	Chunk      index.Chunk
	Similarity float64
	Score      float64
}

// Execute embeds query and returns at most TopK chunks above the floor,
// best first, ties in corpus order. An empty result is not an error.
func (o *Orchestrator) Execute(ctx context.Context, query string, config Config) ([]Result, error) {
	vec, err := o.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, errs.New(errs.KindClassification, "search.embed", err)
	}

	snapshot := o.index.Snapshot()
	scored := snapshot.Score(vec)
	lowerQuery := strings.ToLower(query)

	results := make([]Result, 0, len(scored))
	order := make([]int, 0, len(scored))
	for _, s := range scored {
		if s.Chunk.UnderConstruction || s.Score < config.Floor {
			continue
		}
		results = append(results, Result{
			Chunk:      s.Chunk,
			Similarity: s.Score,
			Score:      s.Score + boost(lowerQuery, strings.ToLower(s.Chunk.Text), config),
		})
		order = append(order, s.Order)
	}

	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := results[idx[a]], results[idx[b]]
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		return order[idx[a]] < order[idx[b]]
	})

	topK := config.TopK
	if topK <= 0 || topK > len(idx) {
		topK = len(idx)
	}
	ranked := make([]Result, topK)
	for i := 0; i < topK; i++ {
		ranked[i] = results[idx[i]]
	}

	o.logger.Debug("HELP", "Retrieval finished", map[string]interface{}{
		"corpus":  snapshot.Len(),
		"matched": len(results),
		"kept":    len(ranked),
	})
	return ranked, nil
}

func boost(query, text string, config Config) float64 {
	var total float64
	for _, term := range config.BoostTerms {
		if strings.Contains(query, term) && strings.Contains(text, term) {
			total += config.Boost
		}
	}
	return total
}
