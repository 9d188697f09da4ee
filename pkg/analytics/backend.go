package analytics

import (
	"context"
	"errors"
	"time"
)

// ErrDisputeNotFound is returned by Backend mutations for unknown ids.
var ErrDisputeNotFound = errors.New("dispute not found")

// Query is a catalog-bound read. Entity, Metric, GroupBy and Interval are
// enum values; Filters values are bound as parameters.
type Query struct {
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

type Row struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DisputeUpdate struct {
	DisputeID int64
	Action    string // close, open, reopen or toggle
	ChangedBy string
}

type DisputeOutcome struct {
	DisputeID      int64
	PreviousStatus string
	NewStatus      string
}

type DisputeComment struct {
	DisputeID  int64
	Comment    string
	Processor  string
	AssignedTo string
}

// Action is the audit record of one executed operation.
type Action struct {
	SessionID string
	UserID    string
	Operation string
	Params    map[string]interface{}
	Outcome   string
}

// Backend executes catalog operations against the business database. Each
// mutation is atomic: it fully applies or returns an error.
type Backend interface {
	Aggregate(ctx context.Context, q Query) (value float64, rows int64, err error)
	Ranking(ctx context.Context, q Query) ([]Row, error)
	TimeSeries(ctx context.Context, q Query) ([]Row, error)
	UpdateDisputeStatus(ctx context.Context, u DisputeUpdate) (*DisputeOutcome, error)
	AddDisputeComment(ctx context.Context, c DisputeComment) error
	// ResolveUserEmails maps lowercased user names to email addresses.
	// Names without a profile are absent from the result.
	ResolveUserEmails(ctx context.Context, names []string) (map[string]string, error)
	RecordAction(ctx context.Context, a Action) error
}
