package analytics

import (
	"testing"

	"cubie-assistant/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Validate(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	tests := []struct {
		name string
		op   string
		args map[string]interface{}
		ok   bool
	}{
		{"valid ranking", OpGroupedRanking, map[string]interface{}{"entity": "shipments", "metric": "count", "group_by": "carrier", "limit": 5}, true},
		{"valid dates", OpAggregateCount, map[string]interface{}{"entity": "shipments", "metric": "savings", "date_from": "2024-01-01", "date_to": "2024-03-31"}, true},
		{"dispute int64 id", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": int64(1001), "action": "close"}, true},
		{"unknown operation", "drop_tables", map[string]interface{}{}, false},
		{"unknown metric", OpAggregateCount, map[string]interface{}{"entity": "shipments", "metric": "profit"}, false},
		{"extra parameter", OpAggregateCount, map[string]interface{}{"entity": "shipments", "metric": "count", "sql": "1=1"}, false},
		{"missing required", OpTimeSeries, map[string]interface{}{"entity": "shipments", "metric": "count"}, false},
		{"limit below range", OpGroupedRanking, map[string]interface{}{"entity": "shipments", "metric": "count", "group_by": "carrier", "limit": 0}, false},
		{"fractional id", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": 10.5, "action": "close"}, false},
		{"bad action", OpUpdateDisputeStatus, map[string]interface{}{"dispute_id": 1, "action": "delete"}, false},
		{"bad date", OpAggregateCount, map[string]interface{}{"entity": "shipments", "metric": "count", "date_from": "last month"}, false},
		{"empty recipients", OpSendEmail, map[string]interface{}{"recipients": []interface{}{}, "content": "latest_chart"}, false},
		{"unknown chart type", OpBuildChart, map[string]interface{}{"chart_type": "radar", "entity": "shipments", "metric": "count"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := catalog.Validate(tt.op, tt.args)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.op, spec.Operation)
				return
			}
			assert.ErrorIs(t, err, errs.ErrQueryValidation)
		})
	}
}

func TestCatalog_ToolsAreClosedObjects(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	assert.Equal(t, "v1", catalog.Version())
	for _, tool := range catalog.Tools() {
		require.NotNil(t, tool.Parameters.AdditionalProperties, tool.Name)
		assert.False(t, *tool.Parameters.AdditionalProperties, tool.Name)
		if metric, ok := tool.Parameters.Properties["metric"]; ok {
			assert.Equal(t, metricNames, metric.Enum, tool.Name)
		}
	}
	assert.Len(t, ChartTypes, 12)
}
