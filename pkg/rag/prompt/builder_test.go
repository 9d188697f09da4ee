package prompt

import (
	"testing"
	"time"

	"cubie-assistant/pkg/rag/index"
	"cubie-assistant/pkg/rag/search"

	"github.com/stretchr/testify/assert"
)

func TestGroundedBuilder_Build(t *testing.T) {
	results := []search.Result{
		{Chunk: index.Chunk{SourceTitle: "Rate Calculator", Text: "Enter origin and destination."}},
		{Chunk: index.Chunk{SourceTitle: "Rate Dashboard", Text: "Shows current rates."}},
	}

	out := NewGroundedBuilder("how do I check a rate", results, Preferences{}).Build()

	assert.Contains(t, out, "[1] Rate Calculator\nEnter origin and destination.")
	assert.Contains(t, out, "[2] Rate Dashboard")
	assert.Contains(t, out, "<user_question>\nhow do I check a rate\n</user_question>")
	assert.NotContains(t, out, "<style>")
}

func TestGroundedBuilder_Preferences(t *testing.T) {
	prefs := Preferences{Name: "Dana", Length: "short", Traits: []string{"friendly", "concise"}}

	out := NewGroundedBuilder("q", nil, prefs).Build()

	assert.Contains(t, out, "Address the user as Dana.")
	assert.Contains(t, out, "two or three sentences")
	assert.Contains(t, out, "Personality: friendly, concise.")
}

func TestAnalyticsSystem(t *testing.T) {
	out := AnalyticsSystem(Preferences{}, "v1", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, out, "Tool catalog version: v1. Today is 2025-03-04.")
	assert.Contains(t, out, "top 3")
}
