package service

import (
	"context"
	"errors"
	"hash/fnv"
	"html"
	"regexp"
	"strings"
	"sync"
	"time"

	"cubie-assistant/internal/dto"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/metrics"
	"cubie-assistant/pkg/navigation"
	"cubie-assistant/pkg/rag/help"
	"cubie-assistant/pkg/rag/prompt"
	"cubie-assistant/pkg/store"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrSessionNotOwned = errors.New("session belongs to another user")

const (
	msgGreeting = "Hi, I'm Cubie. I can explain how TCube360 works, run analytics on your shipments and disputes, open application pages for you, and email results to your team. What would you like to do?"
	msgEmpty    = "What would you like to know?"
)

var greeting = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|hiya|good (morning|afternoon|evening))( there| cubie)?\s*[!.]*\s*$`)

func IsGreeting(text string) bool {
	return greeting.MatchString(text)
}

// HelpAnswerer and AnalyticsRunner are the engines the service dispatches to.
type HelpAnswerer interface {
	Answer(ctx context.Context, query string, history []llm.Message, prefs prompt.Preferences) (*help.Answer, error)
}

type AnalyticsRunner interface {
	Run(ctx context.Context, req analytics.Request, state *analytics.State) (*analytics.Result, error)
}

type IAssistantService interface {
	Query(ctx context.Context, user analytics.Identity, request *dto.AssistantQueryRequest) (*dto.AssistantQueryResponse, error)
	SetSticky(ctx context.Context, user analytics.Identity, request *dto.SetStickyRequest) error
	ResetSession(ctx context.Context, user analytics.Identity, sessionId string) error
	Routes() []dto.NavigationRouteResponse
}

type AssistantServiceConfig struct {
	StickyTurns int
}

type assistantService struct {
	sessions   store.SessionStore
	classifier *router.Classifier
	help       HelpAnswerer
	analytics  AnalyticsRunner
	navigation *navigation.Resolver
	table      *navigation.Table
	config     AssistantServiceConfig
	logger     logger.ILogger
	locks      [64]sync.Mutex
}

func NewAssistantService(
	sessions store.SessionStore,
	classifier *router.Classifier,
	helpEngine HelpAnswerer,
	analyticsRunner AnalyticsRunner,
	resolver *navigation.Resolver,
	table *navigation.Table,
	config AssistantServiceConfig,
	log logger.ILogger,
) IAssistantService {
	if config.StickyTurns <= 0 {
		config.StickyTurns = 3
	}
	return &assistantService{
		sessions:   sessions,
		classifier: classifier,
		help:       helpEngine,
		analytics:  analyticsRunner,
		navigation: resolver,
		table:      table,
		config:     config,
		logger:     log,
	}
}

// lock serializes turns of one session. Different sessions only contend
// when their ids hash to the same stripe.
func (s *assistantService) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%uint32(len(s.locks))]
	mu.Lock()
	return mu.Unlock
}

func (s *assistantService) loadSession(ctx context.Context, user analytics.Identity, sessionID string) (*store.Session, error) {
	sess, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return store.NewSession(sessionID, user.UserID), nil
	}
	if sess.UserID != user.UserID {
		return nil, ErrSessionNotOwned
	}
	return sess, nil
}

func toHistory(in []dto.HistoryMessageDTO) []llm.Message {
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func toPreferences(p *dto.PreferencesDTO) prompt.Preferences {
	if p == nil {
		return prompt.Preferences{}
	}
	return prompt.Preferences{Name: p.Name, Length: p.Length, Traits: p.Traits}
}

type turnResult struct {
	reply         string
	navigationURL string
	chartHandle   string
	chartURL      string
}

func (s *assistantService) Query(ctx context.Context, user analytics.Identity, request *dto.AssistantQueryRequest) (*dto.AssistantQueryResponse, error) {
	start := time.Now()
	ctx, span := otel.Tracer("assistant").Start(ctx, "assistant.turn")
	defer span.End()

	sessionID := request.SessionId
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.loadSession(ctx, user, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	mode, rule, result := s.turn(ctx, user, request, sess)

	reply := neutralize(result.reply)
	if result.navigationURL != "" {
		reply = reply + "\n" + navigation.Marker(result.navigationURL)
	}
	sess.Context.Complete(mode, reply)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("ROUTER", "Failed to save session", map[string]interface{}{"session_id": sessionID, "error": err})
	}

	span.SetAttributes(
		attribute.String("assistant.mode", string(mode)),
		attribute.String("assistant.rule", rule),
	)
	metrics.TurnsTotal.WithLabelValues(string(mode), rule).Inc()
	metrics.TurnLatency.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	return &dto.AssistantQueryResponse{
		SessionId:     sessionID,
		Reply:         reply,
		Mode:          string(mode),
		NavigationURL: result.navigationURL,
		ChartHandle:   result.chartHandle,
		ChartURL:      result.chartURL,
	}, nil
}

// turn classifies and dispatches one message. Failures are already
// converted to user text when it returns.
func (s *assistantService) turn(ctx context.Context, user analytics.Identity, request *dto.AssistantQueryRequest, sess *store.Session) (router.Mode, string, turnResult) {
	text := strings.TrimSpace(request.Question)
	if IsGreeting(text) {
		return router.ModeHelp, "greeting", turnResult{reply: msgGreeting}
	}

	parsed := router.Parse(text)
	sticky := sess.Context.ConsumeTurn()
	hint := parsed.Hint
	if hint == router.ModeNone {
		if m, ok := router.ParseMode(request.ModeHint); ok {
			hint = m
		}
	}
	if hint == router.ModeNone {
		hint = sticky
	}
	if parsed.IsEmpty() {
		return router.ModeHelp, "empty", turnResult{reply: msgEmpty}
	}

	history := toHistory(request.History)
	replyContext := sess.Context.IsReplyContext()
	cls := s.classifier.Classify(ctx, router.Input{
		Text:         parsed.CleanPrompt,
		History:      history,
		Hint:         hint,
		ReplyContext: replyContext,
		CurrentMode:  sess.Context.CurrentMode,
	})

	s.logger.Info("ROUTER", "Turn classified", map[string]interface{}{
		"session_id": sess.ID,
		"mode":       cls.Mode,
		"rule":       cls.Rule,
		"query":      logger.Preview(parsed.CleanPrompt, 80),
	})

	var (
		result turnResult
		err    error
	)
	switch cls.Mode {
	case router.ModeNavigation:
		result = s.navigate(parsed.CleanPrompt)
	case router.ModeAnalytics, router.ModeEmail, router.ModeDisputeAction:
		reply := router.ReplyNone
		if replyContext {
			reply = router.ReplyIntent(parsed.CleanPrompt)
		}
		result, err = s.runAnalytics(ctx, analytics.Request{
			SessionID: sess.ID,
			Text:      parsed.CleanPrompt,
			History:   history,
			Mode:      cls.Mode,
			Reply:     reply,
			User:      user,
			Prefs:     toPreferences(request.Prefs),
			Checkpoint: func(ctx context.Context) error {
				return s.sessions.Save(ctx, sess)
			},
		}, &sess.Analytics)
	default:
		result, err = s.answerHelp(ctx, parsed.CleanPrompt, history, toPreferences(request.Prefs))
	}

	if err != nil {
		s.logger.Warn("ROUTER", "Turn failed", map[string]interface{}{
			"session_id": sess.ID,
			"mode":       cls.Mode,
			"error":      err.Error(),
		})
		result = turnResult{reply: errs.UserMessage(err)}
	}
	return cls.Mode, cls.Rule, result
}

func (s *assistantService) navigate(query string) turnResult {
	res := s.navigation.Resolve(query)
	if !res.Found {
		return turnResult{reply: res.Message}
	}
	return turnResult{reply: res.Message, navigationURL: res.Target.URL}
}

func (s *assistantService) answerHelp(ctx context.Context, query string, history []llm.Message, prefs prompt.Preferences) (turnResult, error) {
	answer, err := s.help.Answer(ctx, query, history, prefs)
	if err != nil {
		return turnResult{}, err
	}
	// Help never navigates, whatever the model wrote.
	text, _ := navigation.StripMarker(answer.Text)
	return turnResult{reply: text}, nil
}

func (s *assistantService) runAnalytics(ctx context.Context, req analytics.Request, state *analytics.State) (turnResult, error) {
	res, err := s.analytics.Run(ctx, req, state)
	if err != nil {
		return turnResult{}, err
	}
	text, _ := navigation.StripMarker(res.Text)
	return turnResult{reply: text, chartHandle: res.ChartHandle, chartURL: res.ChartURL}, nil
}

func (s *assistantService) SetSticky(ctx context.Context, user analytics.Identity, request *dto.SetStickyRequest) error {
	mode, ok := router.ParseMode(request.Mode)
	if !ok {
		return errs.Validation("sticky", "unknown mode %q", request.Mode)
	}
	turns := request.Turns
	if turns == 0 {
		turns = s.config.StickyTurns
	}

	unlock := s.lock(request.SessionId)
	defer unlock()
	sess, err := s.loadSession(ctx, user, request.SessionId)
	if err != nil {
		return err
	}
	sess.Context.SetSticky(mode, turns)
	return s.sessions.Save(ctx, sess)
}

func (s *assistantService) ResetSession(ctx context.Context, user analytics.Identity, sessionId string) error {
	unlock := s.lock(sessionId)
	defer unlock()
	if _, err := s.loadSession(ctx, user, sessionId); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionId)
}

func (s *assistantService) Routes() []dto.NavigationRouteResponse {
	targets := s.table.Targets()
	out := make([]dto.NavigationRouteResponse, len(targets))
	for i, t := range targets {
		out[i] = dto.NavigationRouteResponse{
			Id:          t.ID,
			Name:        t.Name,
			URL:         t.URL,
			Aliases:     t.Aliases,
			Description: t.Description,
		}
	}
	return out
}

var stripTags = bluemonday.StrictPolicy()

// neutralize removes markup from text shown to the user. Entities are
// decoded again so apostrophes and ampersands survive; the loop catches
// tags that were themselves entity-encoded.
func neutralize(text string) string {
	for i := 0; i < 3; i++ {
		clean := html.UnescapeString(stripTags.Sanitize(text))
		if clean == text {
			break
		}
		text = clean
	}
	return strings.TrimSpace(text)
}
