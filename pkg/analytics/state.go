package analytics

import (
	"fmt"
	"strings"
	"time"
)

const maxRememberedCharts = 5

// State is the analytics part of a session: what can be emailed and what is
// waiting for confirmation.
type State struct {
	Charts       []ChartRef  `json:"charts,omitempty"`
	LastTable    *Table      `json:"last_table,omitempty"`
	PendingEmail *EmailDraft `json:"pending_email,omitempty"`
}

type ChartRef struct {
	Handle    string    `json:"handle"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Table is the last tabular result shown to the user.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type EmailDraft struct {
	Recipients  []string `json:"recipients"`
	Subject     string   `json:"subject"`
	Markdown    string   `json:"markdown"`
	ChartHandle string   `json:"chart_handle,omitempty"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{}
	if s.Charts != nil {
		out.Charts = append([]ChartRef(nil), s.Charts...)
	}
	if s.LastTable != nil {
		t := *s.LastTable
		t.Columns = append([]string(nil), s.LastTable.Columns...)
		t.Rows = make([][]string, len(s.LastTable.Rows))
		for i, row := range s.LastTable.Rows {
			t.Rows[i] = append([]string(nil), row...)
		}
		out.LastTable = &t
	}
	if s.PendingEmail != nil {
		d := *s.PendingEmail
		d.Recipients = append([]string(nil), s.PendingEmail.Recipients...)
		out.PendingEmail = &d
	}
	return out
}

func (s *State) rememberChart(c ChartRef) {
	s.Charts = append(s.Charts, c)
	if len(s.Charts) > maxRememberedCharts {
		s.Charts = s.Charts[len(s.Charts)-maxRememberedCharts:]
	}
}

func (s *State) LatestChart() *ChartRef {
	if len(s.Charts) == 0 {
		return nil
	}
	c := s.Charts[len(s.Charts)-1]
	return &c
}

// HasContent reports whether anything exists that an email could carry.
func (s *State) HasContent() bool {
	return len(s.Charts) > 0 || s.LastTable != nil
}

// Markdown renders the table as a GitHub-style pipe table.
func (t *Table) Markdown() string {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", escapeCell(t.Title))
	}
	b.WriteString("| " + joinCells(t.Columns) + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
	for _, row := range t.Rows {
		b.WriteString("| " + joinCells(row) + " |\n")
	}
	return b.String()
}

func joinCells(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return strings.Join(out, " | ")
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
