package search

import (
	"context"
	"errors"
	"testing"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/rag/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) Generate(context.Context, string, string) ([]float32, error) {
	return f.vec, f.err
}

func newOrchestrator(t *testing.T, query []float32, chunks ...index.Chunk) *Orchestrator {
	t.Helper()
	idx := index.New()
	snap, err := index.NewSnapshot(chunks)
	require.NoError(t, err)
	idx.Swap(snap)
	return NewOrchestrator(fakeEmbedder{vec: query}, idx, logger.NewNopLogger())
}

func ids(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Chunk.ID
	}
	return out
}

func TestExecute_FloorTopKAndTies(t *testing.T) {
	o := newOrchestrator(t, []float32{1, 0},
		index.Chunk{ID: "low", Embedding: []float32{0, 1}},
		index.Chunk{ID: "tie-first", Embedding: []float32{1, 1}},
		index.Chunk{ID: "best", Embedding: []float32{1, 0}},
		index.Chunk{ID: "tie-second", Embedding: []float32{2, 2}},
		index.Chunk{ID: "wip", Embedding: []float32{1, 0}, UnderConstruction: true},
	)

	cfg := DefaultConfig()
	got, err := o.Execute(context.Background(), "anything", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "tie-first", "tie-second"}, ids(got))

	cfg.TopK = 2
	got, err = o.Execute(context.Background(), "anything", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "tie-first"}, ids(got))
}

func TestExecute_BelowFloorIsEmpty(t *testing.T) {
	o := newOrchestrator(t, []float32{1, 0},
		index.Chunk{ID: "a", Embedding: []float32{0, 1}},
		index.Chunk{ID: "b", Embedding: []float32{1, 4}},
	)

	got, err := o.Execute(context.Background(), "q", DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExecute_BoostReordersMatchingTerms(t *testing.T) {
	o := newOrchestrator(t, []float32{1, 0},
		index.Chunk{ID: "plain", Text: "Invoices list", Embedding: []float32{1, 0.1}},
		index.Chunk{ID: "kpi", Text: "The KPI dashboard shows totals", Embedding: []float32{1, 0.2}},
	)

	got, err := o.Execute(context.Background(), "where are the kpi dashboard numbers", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "kpi", got[0].Chunk.ID)
	assert.InDelta(t, got[0].Similarity+0.04, got[0].Score, 1e-9)
}

func TestExecute_EmbeddingFailureIsClassificationFailure(t *testing.T) {
	idx := index.New()
	o := NewOrchestrator(fakeEmbedder{err: errors.New("down")}, idx, logger.NewNopLogger())

	_, err := o.Execute(context.Background(), "q", DefaultConfig())
	assert.ErrorIs(t, err, errs.ErrClassification)
}
