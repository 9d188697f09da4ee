// Package metrics holds the assistant's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Subsystem: "router",
		Name:      "turns_total",
		Help:      "Turns handled by resolved mode and classification rule",
	}, []string{"mode", "rule"})

	TurnLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assistant",
		Subsystem: "router",
		Name:      "turn_latency_seconds",
		Help:      "End to end latency of one turn",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"mode"})

	ToolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Subsystem: "analytics",
		Name:      "tool_executions_total",
		Help:      "Catalog operations executed by operation and outcome",
	}, []string{"operation", "outcome"})

	RetrievalTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Subsystem: "help",
		Name:      "retrieval_total",
		Help:      "Help retrievals by result: hit or empty",
	}, []string{"result"})

	IndexChunks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "assistant",
		Subsystem: "help",
		Name:      "index_chunks",
		Help:      "Chunks in the live retrieval snapshot",
	})
)
