package router

import (
	"strings"
)

// Mode is the intent category that decides which engine handles a turn.
type Mode string

const (
	ModeNone          Mode = ""
	ModeHelp          Mode = "help"
	ModeAnalytics     Mode = "analytics"
	ModeNavigation    Mode = "navigation"
	ModeEmail         Mode = "email"
	ModeDisputeAction Mode = "dispute_action"
)

// Modes lists every valid mode in a stable order.
var Modes = []Mode{ModeHelp, ModeAnalytics, ModeNavigation, ModeEmail, ModeDisputeAction}

func (m Mode) Valid() bool {
	for _, v := range Modes {
		if m == v {
			return true
		}
	}
	return false
}

// ParseMode accepts the wire form of a mode. "auto" and "" mean no mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == ModeNone || m == "auto" {
		return ModeNone, true
	}
	if m == "nav" {
		return ModeNavigation, true
	}
	return m, m.Valid()
}

// Prefix directives. ORDER MATTERS: longer prefixes are checked first.
var prefixes = []struct {
	prefix string
	mode   Mode
}{
	{"/navigate", ModeNavigation},
	{"/analytics", ModeAnalytics},
	{"/dispute", ModeDisputeAction},
	{"/email", ModeEmail},
	{"/help", ModeHelp},
	{"/nav", ModeNavigation},
}

// ParsedPrompt carries the routing hint extracted from a prompt prefix.
type ParsedPrompt struct {
	OriginalPrompt string
	CleanPrompt    string
	Hint           Mode // ModeNone when no directive was given
}

// Parse extracts an explicit mode directive from the start of a prompt.
// Supports:
//   - /help <prompt>      → help for this turn
//   - /analytics <prompt> → analytics for this turn
//   - /nav <prompt>, /navigate <prompt> → navigation
//   - /email <prompt>, /dispute <prompt>
//   - <prompt>            → no hint, heuristic classification
func Parse(prompt string) *ParsedPrompt {
	trimmed := strings.TrimSpace(prompt)
	lower := strings.ToLower(trimmed)

	for _, p := range prefixes {
		if !strings.HasPrefix(lower, p.prefix) {
			continue
		}
		rest := trimmed[len(p.prefix):]
		// "/navigation" must not be read as "/nav" + "igation".
		if rest != "" && rest[0] != ' ' && rest[0] != ':' {
			continue
		}
		return &ParsedPrompt{
			OriginalPrompt: prompt,
			CleanPrompt:    strings.TrimSpace(strings.TrimPrefix(rest, ":")),
			Hint:           p.mode,
		}
	}

	return &ParsedPrompt{
		OriginalPrompt: prompt,
		CleanPrompt:    trimmed,
		Hint:           ModeNone,
	}
}

// IsEmpty returns true if the clean prompt is empty
func (p *ParsedPrompt) IsEmpty() bool {
	return strings.TrimSpace(p.CleanPrompt) == ""
}
