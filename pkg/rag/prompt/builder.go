package prompt

import (
	"fmt"
	"strings"
	"time"

	"cubie-assistant/pkg/rag/search"
)

// Preferences shape tone and length only. They never affect routing.
type Preferences struct {
	Name   string   `json:"name,omitempty"`
	Length string   `json:"length,omitempty" validate:"omitempty,oneof=short medium long"`
	Traits []string `json:"traits,omitempty" validate:"omitempty,max=8,dive,max=40"`
}

// GroundedBuilder builds the help prompt from retrieved chunks
type GroundedBuilder struct {
	query   string
	results []search.Result
	prefs   Preferences
}

func NewGroundedBuilder(query string, results []search.Result, prefs Preferences) *GroundedBuilder {
	return &GroundedBuilder{query: query, results: results, prefs: prefs}
}

// Build creates a prompt that restricts the answer to the reference material
func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	writeStyle(&prompt, b.prefs)
	b.writeUserQuery(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	for i, r := range b.results {
		fmt.Fprintf(prompt, "[%d] %s\n%s\n\n", i+1, r.Chunk.SourceTitle, r.Chunk.Text)
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are Cubie, the in-app assistant of the TCube360 freight audit application.\n")
	prompt.WriteString("Explain how the application works using only the reference material.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. If the material doesn't cover the question, say so honestly\n")
	prompt.WriteString("3. Do not run queries, quote data or open pages; only explain\n")
	prompt.WriteString("4. Only use links that appear in the reference material\n")
	prompt.WriteString("5. Use short paragraphs or numbered steps\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundedBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your answer based on the reference material:")
}

var lengthGuide = map[string]string{
	"short":  "Keep the answer to two or three sentences.",
	"medium": "Keep the answer under two short paragraphs.",
	"long":   "A detailed answer is welcome.",
}

func writeStyle(prompt *strings.Builder, prefs Preferences) {
	if prefs.Name == "" && prefs.Length == "" && len(prefs.Traits) == 0 {
		return
	}
	prompt.WriteString("<style>\n")
	if prefs.Name != "" {
		fmt.Fprintf(prompt, "Address the user as %s.\n", prefs.Name)
	}
	if g, ok := lengthGuide[prefs.Length]; ok {
		prompt.WriteString(g + "\n")
	}
	if len(prefs.Traits) > 0 {
		fmt.Fprintf(prompt, "Personality: %s.\n", strings.Join(prefs.Traits, ", "))
	}
	prompt.WriteString("</style>\n\n")
}

// AnalyticsSystem is the system instruction for function-calling turns.
func AnalyticsSystem(prefs Preferences, catalogVersion string, now time.Time) string {
	var prompt strings.Builder
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are Cubie, the analytics assistant of the TCube360 freight audit application.\n")
	prompt.WriteString("Answer data requests by calling exactly one of the provided tools.\n")
	fmt.Fprintf(&prompt, "Tool catalog version: %s. Today is %s.\n", catalogVersion, now.Format("2006-01-02"))
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Never write SQL and never invent tool names or parameters\n")
	prompt.WriteString("2. Resolve relative dates (last month, this year) into date_from and date_to\n")
	prompt.WriteString("3. Rankings default to the top 3 unless a number is given\n")
	prompt.WriteString("4. Only call build_chart when the user asks for a chart, graph or plot\n")
	prompt.WriteString("5. If the request is unclear, ask one short clarifying question instead of calling a tool\n")
	prompt.WriteString("</guidelines>\n\n")

	writeStyle(&prompt, prefs)
	return prompt.String()
}
