package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChartStore persists chart specs under opaque handles. Rendering is left to
// the client, which fetches the spec by handle.
type ChartStore interface {
	Put(ctx context.Context, handle string, spec []byte) error
	Get(ctx context.Context, handle string) ([]byte, error)
	URL(handle string) string
}

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartSpec is a renderer-neutral description of a chart.
type ChartSpec struct {
	Handle    string    `json:"handle"`
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	XLabel    string    `json:"x_label"`
	YLabel    string    `json:"y_label"`
	Labels    []string  `json:"labels"`
	Series    []Series  `json:"series"`
	CreatedAt time.Time `json:"created_at"`
}

func newChartSpec(chartType, title, xLabel, metric string, rows []Row) *ChartSpec {
	spec := &ChartSpec{
		Handle:    uuid.NewString(),
		Version:   CatalogVersion,
		Type:      chartType,
		Title:     title,
		XLabel:    xLabel,
		YLabel:    humanize(metric),
		Labels:    make([]string, len(rows)),
		Series:    []Series{{Name: humanize(metric), Values: make([]float64, len(rows))}},
		CreatedAt: time.Now().UTC(),
	}
	for i, r := range rows {
		spec.Labels[i] = r.Label
		spec.Series[0].Values[i] = r.Value
	}
	return spec
}

func (c *ChartSpec) JSON() ([]byte, error) {
	return json.Marshal(c)
}
