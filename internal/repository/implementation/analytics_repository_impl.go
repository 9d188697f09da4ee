package implementation

import (
	"context"
	"fmt"
	"sort"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/repository/contract"
	"cubie-assistant/internal/repository/specification"

	"gorm.io/gorm"
)

// analyticsTable describes one queryable fact table. Every identifier that
// reaches SQL comes from one of these maps.
type analyticsTable struct {
	name       string
	dateColumn string
	metrics    map[string]string
	columns    map[string]string
}

var analyticsTables = map[string]analyticsTable{
	"shipments": {
		name:       "shipments",
		dateColumn: "ship_date",
		metrics: map[string]string{
			"count":                  "COUNT(*)",
			"total_invoice_amount":   "COALESCE(SUM(invoice_amount), 0)",
			"total_audited_amount":   "COALESCE(SUM(audited_amount), 0)",
			"savings":                "COALESCE(SUM(invoice_amount - audited_amount), 0)",
			"average_invoice_amount": "COALESCE(AVG(invoice_amount), 0)",
		},
		columns: map[string]string{
			"carrier":     "carrier",
			"mode":        "mode",
			"origin":      "origin",
			"destination": "destination",
			"status":      "status",
		},
	},
	"disputes": {
		name:       "disputes",
		dateColumn: "changed_on",
		metrics: map[string]string{
			"count":                 "COUNT(*)",
			"total_disputed_amount": "COALESCE(SUM(amount), 0)",
		},
		columns: map[string]string{
			"carrier": "carrier",
			"status":  "status",
			"reason":  "reason",
		},
	},
}

var truncUnits = map[string]string{
	"day":     "day",
	"week":    "week",
	"month":   "month",
	"quarter": "quarter",
	"year":    "year",
}

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) contract.AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func (r *AnalyticsRepositoryImpl) resolve(q entity.MetricQuery) (analyticsTable, string, error) {
	table, ok := analyticsTables[q.Entity]
	if !ok {
		return analyticsTable{}, "", fmt.Errorf("%w: entity %q", contract.ErrUnsupportedQuery, q.Entity)
	}
	expr, ok := table.metrics[q.Metric]
	if !ok {
		return analyticsTable{}, "", fmt.Errorf("%w: metric %q", contract.ErrUnsupportedQuery, q.Metric)
	}
	return table, expr, nil
}

// filtered applies the equality filters and date range. Filter keys are sorted
// so the generated statement is stable.
func (r *AnalyticsRepositoryImpl) filtered(ctx context.Context, table analyticsTable, q entity.MetricQuery) (*gorm.DB, error) {
	specs := []specification.Specification{
		specification.DateBetween{Column: table.dateColumn, From: q.DateFrom, To: q.DateTo},
	}

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, ok := table.columns[k]
		if !ok {
			return nil, fmt.Errorf("%w: filter %q", contract.ErrUnsupportedQuery, k)
		}
		specs = append(specs, specification.ColumnEqualsFold{Column: col, Value: q.Filters[k]})
	}

	db := r.db.WithContext(ctx).Table(table.name)
	for _, s := range specs {
		db = s.Apply(db)
	}
	return db, nil
}

func (r *AnalyticsRepositoryImpl) Aggregate(ctx context.Context, q entity.MetricQuery) (*entity.AggregateResult, error) {
	table, expr, err := r.resolve(q)
	if err != nil {
		return nil, err
	}
	db, err := r.filtered(ctx, table, q)
	if err != nil {
		return nil, err
	}

	var out struct {
		Value    float64
		RowCount int64
	}
	if err := db.Select(fmt.Sprintf("%s AS value, COUNT(*) AS row_count", expr)).Scan(&out).Error; err != nil {
		return nil, err
	}
	return &entity.AggregateResult{Value: out.Value, RowCount: out.RowCount}, nil
}

func (r *AnalyticsRepositoryImpl) Ranking(ctx context.Context, q entity.MetricQuery) ([]entity.MetricRow, error) {
	table, expr, err := r.resolve(q)
	if err != nil {
		return nil, err
	}
	col, ok := table.columns[q.GroupBy]
	if !ok {
		return nil, fmt.Errorf("%w: group_by %q", contract.ErrUnsupportedQuery, q.GroupBy)
	}
	db, err := r.filtered(ctx, table, q)
	if err != nil {
		return nil, err
	}

	var rows []entity.MetricRow
	err = specification.Limit{N: q.Limit}.Apply(
		db.Select(fmt.Sprintf("COALESCE(%s, 'Unknown') AS label, %s AS value", col, expr)).
			Group(col).
			Order(orderClause("value", q.Desc)),
	).Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepositoryImpl) TimeSeries(ctx context.Context, q entity.MetricQuery) ([]entity.MetricRow, error) {
	table, expr, err := r.resolve(q)
	if err != nil {
		return nil, err
	}
	unit, ok := truncUnits[q.Interval]
	if !ok {
		return nil, fmt.Errorf("%w: interval %q", contract.ErrUnsupportedQuery, q.Interval)
	}
	db, err := r.filtered(ctx, table, q)
	if err != nil {
		return nil, err
	}

	bucket := fmt.Sprintf("date_trunc('%s', %s)", unit, table.dateColumn)
	var rows []entity.MetricRow
	err = db.Select(fmt.Sprintf("to_char(%s, 'YYYY-MM-DD') AS label, %s AS value", bucket, expr)).
		Where(fmt.Sprintf("%s IS NOT NULL", table.dateColumn)).
		Group(bucket).
		Order(bucket + " ASC").
		Scan(&rows).Error
	return rows, err
}

func orderClause(field string, desc bool) string {
	if desc {
		return field + " DESC"
	}
	return field + " ASC"
}
