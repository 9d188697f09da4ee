package entity

import "time"

// MetricQuery is a fully validated, catalog-bound analytics request. Every
// string field here is an enum value, never free text from the user, except
// Filters values which are always bound as query parameters.
type MetricQuery struct {
	Entity   string
	Metric   string
	GroupBy  string
	Interval string
	Limit    int
	Desc     bool
	Filters  map[string]string
	DateFrom *time.Time
	DateTo   *time.Time
}

type MetricRow struct {
	Label string
	Value float64
}

type AggregateResult struct {
	Value    float64
	RowCount int64
}
