package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type knownURLs map[string]bool

func (k knownURLs) KnownURL(url string) bool { return k[url] }

func TestClean(t *testing.T) {
	const helpBase = "https://help.tcube360.com"
	links := knownURLs{"/rates/calculator": true}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "help site link kept",
			in:   "See [Rates](https://help.tcube360.com/rates) for details.",
			want: "See [Rates](https://help.tcube360.com/rates) for details.",
		},
		{
			name: "help site prefix ignores case",
			in:   "[Guide](HTTPS://HELP.TCUBE360.COM/guide)",
			want: "[Guide](HTTPS://HELP.TCUBE360.COM/guide)",
		},
		{
			name: "navigation table link kept",
			in:   "Open the [Rate Calculator](/rates/calculator).",
			want: "Open the [Rate Calculator](/rates/calculator).",
		},
		{
			name: "unknown markdown link keeps only its text",
			in:   "See [the docs](https://example.com/docs).",
			want: "See the docs.",
		},
		{
			name: "unknown anchor keeps only its text",
			in:   `Click <a href="https://example.com">here</a>.`,
			want: "Click here.",
		},
		{
			name: "help site anchor kept",
			in:   `Read <a href="https://help.tcube360.com/faq">the FAQ</a>.`,
			want: `Read <a href="https://help.tcube360.com/faq">the FAQ</a>.`,
		},
		{
			name: "navigation marker removed",
			in:   "Use the calculator.\n<!-- NAVIGATE_TO:/rates/calculator -->",
			want: "Use the calculator.",
		},
		{
			name: "prompt tags removed",
			in:   "<task>Rates</task> are priced per lane.",
			want: "Rates are priced per lane.",
		},
		{
			name: "answer prefix removed",
			in:   "Answer: The calculator prices lanes.",
			want: "The calculator prices lanes.",
		},
		{
			name: "echoed instruction line removed",
			in:   "Now provide your answer below.\nThe calculator prices lanes.",
			want: "The calculator prices lanes.",
		},
		{
			name: "blank line runs collapsed",
			in:   "First step.\n\n\n\nSecond step.",
			want: "First step.\n\nSecond step.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in, helpBase, links))
		})
	}
}

func TestClean_NoPolicyStripsEveryLink(t *testing.T) {
	got := Clean("Try [the calculator](/rates/calculator) or [help](https://help.tcube360.com).", "", nil)
	assert.Equal(t, "Try the calculator or help.", got)
}
