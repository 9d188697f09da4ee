package implementation

import (
	"context"
	"testing"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestAnalyticsRepository_RejectsUnknownIdentifiers(t *testing.T) {
	repo := NewAnalyticsRepository(dryRunDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
	}{
		{"entity", func() error {
			_, err := repo.Aggregate(ctx, entity.MetricQuery{Entity: "users", Metric: "count"})
			return err
		}},
		{"metric", func() error {
			_, err := repo.Aggregate(ctx, entity.MetricQuery{Entity: "shipments", Metric: "pg_sleep(10)"})
			return err
		}},
		{"group column", func() error {
			_, err := repo.Ranking(ctx, entity.MetricQuery{Entity: "shipments", Metric: "count", GroupBy: "password"})
			return err
		}},
		{"filter column", func() error {
			_, err := repo.Ranking(ctx, entity.MetricQuery{Entity: "disputes", Metric: "count", GroupBy: "status", Filters: map[string]string{"mode": "LTL"}})
			return err
		}},
		{"interval", func() error {
			_, err := repo.TimeSeries(ctx, entity.MetricQuery{Entity: "shipments", Metric: "count", Interval: "fortnight"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), contract.ErrUnsupportedQuery)
		})
	}
}

func TestAnalyticsTables_ColumnsAreIdentifiers(t *testing.T) {
	for name, table := range analyticsTables {
		assert.NotEmpty(t, table.dateColumn, name)
		assert.Contains(t, table.metrics, "count", name)
		for key, col := range table.columns {
			assert.Regexp(t, `^[a-z_]+$`, col, "%s.%s", name, key)
		}
	}
}
