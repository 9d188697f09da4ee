package router

import (
	"context"
	"fmt"
	"strings"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/llm"
)

// TargetMatcher finds known navigation targets mentioned in a message.
type TargetMatcher interface {
	MentionedTargets(text string) []string
}

// ModelClassifier is the optional model-backed fallback consulted only when
// no lexical rule fired.
type ModelClassifier interface {
	ClassifyMode(ctx context.Context, text string, history []llm.Message) (Mode, error)
}

// Input is everything the classifier may look at for one turn.
type Input struct {
	Text         string
	History      []llm.Message
	Hint         Mode // sticky or explicit per-turn hint
	ReplyContext bool
	CurrentMode  Mode
}

// Classification is the resolved mode plus which rule produced it.
type Classification struct {
	Mode       Mode
	Rule       string
	Explicit   bool
	Confidence float64
	DisputeID  int
}

type rule struct {
	name       string
	confidence float64
	match      func(in *Input, s *turnSignals) (Mode, bool)
}

// rules run in order and the first match wins. Navigation needs both an
// action verb and a known target, and is never taken when the request
// opens with help phrasing ("what is the Rate Calculator"). Help phrasing
// at the start also outweighs analytics words unless the question asks for
// a figure about an entity ("what is the total spend on shipments").
var rules = []rule{
	{"sticky", 1.0, func(in *Input, _ *turnSignals) (Mode, bool) {
		return in.Hint, in.Hint.Valid()
	}},
	{"confirmation", 0.9, func(in *Input, s *turnSignals) (Mode, bool) {
		return ModeAnalytics, in.ReplyContext && s.reply != ReplyNone
	}},
	{"navigation", 0.9, func(_ *Input, s *turnSignals) (Mode, bool) {
		return ModeNavigation, s.navVerb && len(s.targets) > 0 && !s.helpLead
	}},
	{"analytics", 0.8, func(_ *Input, s *turnSignals) (Mode, bool) {
		if s.helpLead && !(s.aggregation && s.entity) {
			return ModeNone, false
		}
		if !s.strongAnalytics() && !(s.anyAnalytics() && !s.help) {
			return ModeNone, false
		}
		switch {
		case s.disputeMutation:
			return ModeDisputeAction, true
		case s.email:
			return ModeEmail, true
		}
		return ModeAnalytics, true
	}},
	{"help", 0.8, func(_ *Input, s *turnSignals) (Mode, bool) {
		return ModeHelp, s.help
	}},
	{"persistence", 0.6, func(in *Input, s *turnSignals) (Mode, bool) {
		switch in.CurrentMode {
		case ModeAnalytics, ModeEmail, ModeDisputeAction:
			return ModeAnalytics, !s.help && !(s.navVerb && len(s.targets) > 0)
		}
		return ModeNone, false
	}},
}

type Classifier struct {
	targets TargetMatcher
	model   ModelClassifier
	logger  logger.ILogger
}

type Option func(*Classifier)

// WithModel enables the model fallback between persistence and the default.
func WithModel(m ModelClassifier) Option {
	return func(c *Classifier) { c.model = m }
}

func NewClassifier(targets TargetMatcher, log logger.ILogger, opts ...Option) *Classifier {
	c := &Classifier{targets: targets, logger: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify never fails: anything unclassifiable becomes help.
func (c *Classifier) Classify(ctx context.Context, in Input) Classification {
	s := extractSignals(in.Text, c.targets)

	for _, r := range rules {
		mode, ok := r.match(&in, s)
		if !ok {
			continue
		}
		res := Classification{
			Mode:       mode,
			Rule:       r.name,
			Explicit:   r.name == "sticky",
			Confidence: r.confidence,
			DisputeID:  s.disputeID,
		}
		c.logger.Debug("ROUTER", "Rule matched", map[string]interface{}{
			"rule": r.name, "mode": string(mode), "targets": s.targets,
		})
		return res
	}

	if c.model != nil {
		mode, err := c.model.ClassifyMode(ctx, in.Text, in.History)
		if err != nil {
			c.logger.Warn("ROUTER", "Model classification failed, defaulting to help", map[string]interface{}{
				"error": err,
			})
			return Classification{Mode: ModeHelp, Rule: "classification_failure", Confidence: 0.3}
		}
		// The model may only pick between the two non-acting modes.
		if mode == ModeAnalytics || mode == ModeHelp {
			return Classification{Mode: mode, Rule: "model", Confidence: 0.5}
		}
	}

	return Classification{Mode: ModeHelp, Rule: "default", Confidence: 0.3}
}

const modePrompt = `You route questions for a freight audit application assistant.
Answer with exactly one word:
- "analytics" if the user wants numbers, lists, charts or changes from live business data
- "help" if the user wants an explanation of how the application works

Recent conversation:
%s
Question: %s`

// LLMModeClassifier asks a completion model to pick help or analytics.
type LLMModeClassifier struct {
	llm llm.LLMProvider
}

func NewLLMModeClassifier(provider llm.LLMProvider) *LLMModeClassifier {
	return &LLMModeClassifier{llm: provider}
}

func (m *LLMModeClassifier) ClassifyMode(ctx context.Context, text string, history []llm.Message) (Mode, error) {
	var recent strings.Builder
	start := 0
	if len(history) > 4 {
		start = len(history) - 4
	}
	for _, msg := range history[start:] {
		recent.WriteString(msg.Role + ": " + logger.Preview(msg.Content, 200) + "\n")
	}

	out, err := m.llm.Generate(ctx, fmt.Sprintf(modePrompt, recent.String(), text),
		llm.WithTemperature(0), llm.WithMaxTokens(5))
	if err != nil {
		return ModeNone, err
	}
	answer := strings.ToLower(out)
	if strings.Contains(answer, "analytics") {
		return ModeAnalytics, nil
	}
	return ModeHelp, nil
}
