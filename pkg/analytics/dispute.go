package analytics

import (
	"regexp"
	"strconv"
	"strings"
)

const idPart = `dispute\s*(?:id|#|no\.?|number)?\s*:?\s*#?(\d+)`

// Commands must open the instruction. A verb buried later in the sentence
// is not an instruction.
var (
	statusCommand  = regexp.MustCompile(`(?i)^(close|reopen|re-open|open|toggle|resolve)\s+(?:the\s+)?(?:status\s+of\s+)?` + idPart + `\b`)
	markCommand    = regexp.MustCompile(`(?i)^mark\s+(?:the\s+)?` + idPart + `\s+as\s+(open|closed|resolved)\b`)
	commentCommand = regexp.MustCompile(`(?is)^(?:(?:add|leave|post|write)\s+(?:a\s+)?(?:new\s+)?)?comment\s+(?:on|to|for)\s+(?:the\s+)?` + idPart + `\s*[:,-]\s*(.+)$`)

	politeLead  = regexp.MustCompile(`(?i)^(?:(?:please|pls|kindly|hey cubie|hi cubie|cubie)[\s,!]*)+`)
	requestLead = regexp.MustCompile(`(?i)^(?:can|could|would|will)\s+you\s+`)

	disputeChange = regexp.MustCompile(`(?i)\b(?:close|reopen|re-open|open|toggle|resolve|mark|comment)\b[^.?!]{0,40}?` + idPart)
	negation      = regexp.MustCompile(`(?i)\b(?:don'?t|do\s+not|does\s+not|doesn'?t|never|not|shouldn'?t|won'?t|no\s+need\s+to)\b`)
	hedge         = regexp.MustCompile(`(?i)\b(?:how|why|should|shall|whether|can\s+i|could\s+i|may\s+i|do\s+i|do\s+we|can\s+we|should\s+we)\b`)
)

// imperative strips courtesy openers and reports whether the rest is a
// question. A trailing question mark after "can you" or "could you" is
// still a request.
func imperative(text string) (cmd string, question bool) {
	cmd = strings.TrimSpace(politeLead.ReplaceAllString(strings.TrimSpace(text), ""))
	request := false
	if loc := requestLead.FindStringIndex(cmd); loc != nil {
		request = true
		cmd = strings.TrimSpace(politeLead.ReplaceAllString(cmd[loc[1]:], ""))
	}
	return cmd, !request && strings.HasSuffix(cmd, "?")
}

// hesitantDisputeChange finds a dispute the text talks about changing
// without instructing it: "don't close dispute 1001", "how to close dispute
// 1001", "should I close dispute 1001?".
func hesitantDisputeChange(text string) (int64, bool) {
	if _, _, ok := parseDisputeCommand(text); ok {
		return 0, false
	}
	loc := disputeChange.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(text[loc[2]:loc[3]], 10, 64)
	if err != nil {
		return 0, false
	}
	lead := text[:loc[0]]
	if negation.MatchString(lead) || hedge.MatchString(lead) {
		return id, true
	}
	if _, question := imperative(text); question {
		return id, true
	}
	return 0, false
}

var actionWords = map[string]string{
	"close":    "close",
	"resolve":  "close",
	"resolved": "close",
	"closed":   "close",
	"open":     "open",
	"reopen":   "reopen",
	"re-open":  "reopen",
	"toggle":   "toggle",
}

// parseDisputeCommand recognizes explicit dispute commands without the
// model. The returned arguments still go through catalog validation.
func parseDisputeCommand(text string) (string, map[string]interface{}, bool) {
	text, question := imperative(text)
	if m := commentCommand.FindStringSubmatch(text); m != nil {
		id, err := strconv.ParseInt(m[1], 10, 64)
		comment := strings.TrimSpace(m[2])
		if err == nil && comment != "" {
			return OpAddDisputeComment, map[string]interface{}{"dispute_id": id, "comment": comment}, true
		}
	}
	if question {
		return "", nil, false
	}
	if m := statusCommand.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			return OpUpdateDisputeStatus, map[string]interface{}{
				"dispute_id": id,
				"action":     actionWords[strings.ToLower(m[1])],
			}, true
		}
	}
	if m := markCommand.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return OpUpdateDisputeStatus, map[string]interface{}{
				"dispute_id": id,
				"action":     actionWords[strings.ToLower(m[2])],
			}, true
		}
	}
	return "", nil, false
}
