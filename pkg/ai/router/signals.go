package router

import (
	"regexp"
	"strconv"
	"strings"
)

func words(list ...string) *regexp.Regexp {
	quoted := make([]string, len(list))
	for i, w := range list {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

var (
	politeLead = regexp.MustCompile(`^(?:(?:please|pls|kindly|hey cubie|hi cubie|cubie|can you|could you|would you)[\s,!]*)+`)

	helpPhrases = words("how do i", "how to", "how can i", "what is", "what's", "what are", "explain",
		"where is", "where can i find", "tell me about", "describe", "what does", "how does",
		"guide", "tutorial", "steps to", "help me", "help with", "definition", "meaning of")

	navVerbs = words("take me to", "go to", "goto", "navigate to", "navigate", "open", "launch",
		"bring me to", "switch to", "redirect me to", "redirect to", "jump to", "show me the page", "show me")

	// Aggregations ask for a number, so they outweigh help phrasing
	// ("what is the total spend").
	aggregationWords = words("how many", "number of", "count", "total", "sum", "average", "avg",
		"top", "bottom", "ranking", "rank", "compare", "comparison", "trend", "trends", "breakdown",
		"volume", "spend", "spending", "most", "least", "highest", "lowest")

	metricWords = words("kpi", "kpis", "metric", "metrics", "stats", "statistics", "cost", "costs", "savings")

	entityWords = words("shipment", "shipments", "dispute", "disputes", "carrier", "carriers",
		"invoice", "invoices", "freight", "lane", "lanes")

	timeRangeWords = regexp.MustCompile(`\b(?:(?:this|last|past|previous)\s+(?:\d+\s+)?(?:days?|weeks?|months?|quarters?|years?)|ytd|year\s+to\s+date|today|yesterday|january|february|march|april|june|july|august|september|october|november|december|(?:19|20)\d{2})\b`)

	visualizationWords = words("chart", "charts", "graph", "plot", "visualize", "visualise",
		"visualization", "pie", "heatmap", "heat map", "scatter", "histogram", "donut", "treemap",
		"funnel", "diagram")

	emailWords = words("email", "e-mail", "mail me", "send me", "send this", "send that", "forward",
		"share via email")

	disputeVerbs = words("close", "reopen", "re-open", "open", "resolve", "toggle", "comment", "update", "mark")
	disputeID    = regexp.MustCompile(`\bdispute\s*(?:id|#|no\.?|number)?\s*:?\s*#?(\d+)`)

	multiSpace = regexp.MustCompile(`\s+`)
)

// turnSignals are the lexical facts about one user message.
type turnSignals struct {
	text   string // lowercased, whitespace-collapsed
	masked string // text with recognized navigation targets removed

	helpLead bool // help phrasing at the start of the request
	help     bool
	navVerb  bool
	targets  []string

	aggregation     bool
	metric          bool
	entity          bool
	timeRange       bool
	visualization   bool
	email           bool
	disputeMutation bool
	disputeID       int

	reply Reply
}

// strongAnalytics reports signals that ask for live data regardless of how
// the question is phrased.
func (s *turnSignals) strongAnalytics() bool {
	return s.aggregation || s.visualization || s.timeRange || s.disputeMutation || s.email
}

func (s *turnSignals) anyAnalytics() bool {
	return s.strongAnalytics() || s.metric || s.entity
}

func extractSignals(text string, targets TargetMatcher) *turnSignals {
	lower := strings.TrimSpace(multiSpace.ReplaceAllString(strings.ToLower(text), " "))
	s := &turnSignals{text: lower, masked: lower}

	stripped := strings.TrimSpace(politeLead.ReplaceAllString(lower, ""))
	if loc := helpPhrases.FindStringIndex(stripped); loc != nil {
		s.help = true
		s.helpLead = loc[0] == 0
	}
	s.navVerb = navVerbs.MatchString(lower)

	if targets != nil {
		s.targets = targets.MentionedTargets(lower)
		for _, t := range s.targets {
			s.masked = strings.ReplaceAll(s.masked, t, " ")
		}
	}

	m := s.masked
	s.aggregation = aggregationWords.MatchString(m)
	s.metric = metricWords.MatchString(m)
	s.entity = entityWords.MatchString(m)
	s.timeRange = timeRangeWords.MatchString(m)
	s.visualization = visualizationWords.MatchString(m)
	s.email = emailWords.MatchString(m)

	if id := disputeID.FindStringSubmatch(m); id != nil && disputeVerbs.MatchString(m) {
		s.disputeMutation = true
		s.disputeID, _ = strconv.Atoi(id[1])
	}

	s.reply = ReplyIntent(lower)
	return s
}

// Reply classifies a short answer to an assistant question.
type Reply int

const (
	ReplyNone Reply = iota
	ReplyConfirm
	ReplyReject
)

const maxReplyWords = 6

var (
	confirmTokens = map[string]bool{
		"approve": true, "approved": true, "yes": true, "yep": true, "yeah": true, "y": true,
		"send": true, "proceed": true, "sure": true, "ok": true, "okay": true, "confirm": true,
		"confirmed": true, "go": true, "ahead": true, "do": true,
	}
	rejectTokens = map[string]bool{
		"no": true, "nope": true, "cancel": true, "stop": true, "don't": true, "dont": true, "not": true,
	}
	fillerTokens = map[string]bool{
		"it": true, "please": true, "thanks": true, "thank": true, "you": true, "now": true,
		"that": true, "this": true, "the": true, "email": true,
	}
	replyTrim = regexp.MustCompile(`[^a-z' ]+`)
)

// ReplyIntent reports whether text is nothing but a confirmation or a
// rejection. Any word outside the lexicon means the user raised a new topic.
// Rejection wins over confirmation ("don't send").
func ReplyIntent(text string) Reply {
	tokens := strings.Fields(replyTrim.ReplaceAllString(strings.ToLower(text), " "))
	if len(tokens) == 0 || len(tokens) > maxReplyWords {
		return ReplyNone
	}
	confirm, reject := false, false
	for _, tok := range tokens {
		switch {
		case rejectTokens[tok]:
			reject = true
		case confirmTokens[tok]:
			confirm = true
		case fillerTokens[tok]:
		default:
			return ReplyNone
		}
	}
	switch {
	case reject:
		return ReplyReject
	case confirm:
		return ReplyConfirm
	}
	return ReplyNone
}

// DisputeReference extracts the dispute id named in text, if any.
func DisputeReference(text string) (int, bool) {
	m := disputeID.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	return id, err == nil
}
