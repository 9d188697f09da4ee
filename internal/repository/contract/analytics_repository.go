package contract

import (
	"context"
	"errors"

	"cubie-assistant/internal/entity"
)

var ErrUnsupportedQuery = errors.New("unsupported analytics query")

// AnalyticsRepository runs the catalog's read operations. Queries are built
// from fixed column maps; unknown entities, metrics or columns are rejected
// with ErrUnsupportedQuery before any SQL is issued.
type AnalyticsRepository interface {
	Aggregate(ctx context.Context, q entity.MetricQuery) (*entity.AggregateResult, error)
	Ranking(ctx context.Context, q entity.MetricQuery) ([]entity.MetricRow, error)
	TimeSeries(ctx context.Context, q entity.MetricQuery) ([]entity.MetricRow, error)
}
