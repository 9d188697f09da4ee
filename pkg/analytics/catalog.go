package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/llm"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CatalogVersion is bumped whenever an operation or parameter changes.
const CatalogVersion = "v1"

const (
	OpAggregateCount      = "aggregate_count"
	OpGroupedRanking      = "grouped_ranking"
	OpTimeSeries          = "time_series"
	OpBuildChart          = "build_chart"
	OpUpdateDisputeStatus = "update_dispute_status"
	OpAddDisputeComment   = "add_dispute_comment"
	OpSendEmail           = "send_email"
)

var (
	entities    = []string{"shipments", "disputes"}
	metricNames = []string{"count", "total_invoice_amount", "total_audited_amount", "savings", "average_invoice_amount", "total_disputed_amount"}
	columns     = []string{"carrier", "mode", "origin", "destination", "status", "reason"}
	intervals   = []string{"day", "week", "month", "quarter", "year"}

	ChartTypes = []string{"line", "bar", "stacked_bar", "grouped_bar", "pie", "donut", "area", "scatter", "histogram", "heatmap", "treemap", "funnel"}

	disputeActions = []string{"close", "open", "reopen", "toggle"}
	emailContents  = []string{"latest_chart", "latest_table", "message"}
)

const (
	DefaultRankingLimit = 3
	MaxRankingLimit     = 50
	maxDisputeID        = 2147483647
)

func filterProps(props map[string]*llm.Schema) map[string]*llm.Schema {
	props["carrier"] = llm.String("Only rows for this carrier name").WithLength(1, 100)
	props["mode"] = llm.String("Only shipments with this transport mode").WithLength(1, 50)
	props["origin"] = llm.String("Only shipments from this origin").WithLength(1, 100)
	props["destination"] = llm.String("Only shipments to this destination").WithLength(1, 100)
	props["status"] = llm.String("Only rows with this status").WithLength(1, 50)
	props["reason"] = llm.String("Only disputes with this reason").WithLength(1, 100)
	props["date_from"] = llm.Date("Inclusive start date, YYYY-MM-DD")
	props["date_to"] = llm.Date("Inclusive end date, YYYY-MM-DD")
	return props
}

func metricProps() map[string]*llm.Schema {
	return filterProps(map[string]*llm.Schema{
		"entity": llm.Enum("Fact table to query", entities...),
		"metric": llm.Enum("Measure to compute", metricNames...),
	})
}

func operations() []llm.Tool {
	ranking := metricProps()
	ranking["group_by"] = llm.Enum("Column to group by", columns...)
	ranking["limit"] = llm.Integer("Number of groups to return, default 3", 1, MaxRankingLimit)
	ranking["order"] = llm.Enum("desc for top, asc for bottom", "desc", "asc")

	series := metricProps()
	series["interval"] = llm.Enum("Time bucket", intervals...)

	chart := metricProps()
	chart["chart_type"] = llm.Enum("Chart type", ChartTypes...)
	chart["title"] = llm.String("Chart title").WithLength(1, 120)
	chart["group_by"] = llm.Enum("Column for categories; use either group_by or interval", columns...)
	chart["interval"] = llm.Enum("Time bucket for the x axis; use either group_by or interval", intervals...)
	chart["limit"] = llm.Integer("Number of categories when grouping", 1, MaxRankingLimit)

	return []llm.Tool{
		{
			Name:        OpAggregateCount,
			Description: "Compute one number (count, total, average) over shipments or disputes",
			Parameters:  llm.Object([]string{"entity", "metric"}, metricProps()),
		},
		{
			Name:        OpGroupedRanking,
			Description: "Rank groups (carriers, modes, lanes, statuses) by a metric",
			Parameters:  llm.Object([]string{"entity", "metric", "group_by"}, ranking),
		},
		{
			Name:        OpTimeSeries,
			Description: "A metric bucketed over time",
			Parameters:  llm.Object([]string{"entity", "metric", "interval"}, series),
		},
		{
			Name:        OpBuildChart,
			Description: "Build a chart; only when the user asks for a chart, graph or plot",
			Parameters:  llm.Object([]string{"chart_type", "entity", "metric"}, chart),
		},
		{
			Name:        OpUpdateDisputeStatus,
			Description: "Close, open, reopen or toggle one dispute",
			Parameters: llm.Object([]string{"dispute_id", "action"}, map[string]*llm.Schema{
				"dispute_id": llm.Integer("Dispute id", 1, maxDisputeID),
				"action":     llm.Enum("Status change", disputeActions...),
			}),
		},
		{
			Name:        OpAddDisputeComment,
			Description: "Append a comment to a dispute's audit trail",
			Parameters: llm.Object([]string{"dispute_id", "comment"}, map[string]*llm.Schema{
				"dispute_id":  llm.Integer("Dispute id", 1, maxDisputeID),
				"comment":     llm.String("Comment text").WithLength(1, 1000),
				"assigned_to": llm.String("Person the dispute is assigned to").WithLength(1, 100),
			}),
		},
		{
			Name:        OpSendEmail,
			Description: "Email the latest chart, the latest table or a short message",
			Parameters: llm.Object([]string{"recipients", "content"}, map[string]*llm.Schema{
				"recipients": llm.ArrayOf("Email addresses, user names, or \"me\"", llm.String("Recipient").WithLength(1, 254), 1),
				"content":    llm.Enum("What to send", emailContents...),
				"subject":    llm.String("Subject line").WithLength(1, 150),
				"message":    llm.String("Message body when content is message").WithLength(1, 4000),
			}),
		},
	}
}

// Spec is a validated catalog call.
type Spec struct {
	Operation string
	Params    map[string]interface{}
}

// Decode copies the validated parameters into dst.
func (s *Spec) Decode(dst interface{}) error {
	raw, err := json.Marshal(s.Params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// Catalog is the closed set of operations exposed to the model. Schemas are
// compiled once.
type Catalog struct {
	tools   []llm.Tool
	schemas map[string]*jsonschema.Schema
}

func NewCatalog() (*Catalog, error) {
	c := &Catalog{tools: operations(), schemas: map[string]*jsonschema.Schema{}}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	for _, tool := range c.tools {
		raw, err := json.Marshal(tool.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %s: %w", tool.Name, err)
		}
		url := fmt.Sprintf("catalog://%s/%s.json", CatalogVersion, tool.Name)
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", tool.Name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", tool.Name, err)
		}
		c.schemas[tool.Name] = schema
	}
	return c, nil
}

func (c *Catalog) Tools() []llm.Tool { return c.tools }

func (c *Catalog) Version() string { return CatalogVersion }

// Validate rejects unknown operations and parameters that do not match the
// operation's schema.
func (c *Catalog) Validate(name string, args map[string]interface{}) (*Spec, error) {
	schema, ok := c.schemas[name]
	if !ok {
		return nil, errs.Validation("catalog.validate", "unknown operation %q", name)
	}

	// Normalize to plain JSON values; tool call arguments may carry Go ints.
	if args == nil {
		args = map[string]interface{}{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, errs.Validation("catalog.validate", "arguments for %s are not JSON: %v", name, err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Validation("catalog.validate", "arguments for %s are not JSON: %v", name, err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, errs.Validation("catalog.validate", "%s: %v", name, err)
	}
	return &Spec{Operation: name, Params: doc.(map[string]interface{})}, nil
}
