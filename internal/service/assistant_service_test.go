package service

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"cubie-assistant/internal/dto"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/repository/memory"
	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/navigation"
	"cubie-assistant/pkg/rag/help"
	"cubie-assistant/pkg/rag/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHelp struct {
	text    string
	err     error
	queries []string
}

func (s *stubHelp) Answer(_ context.Context, query string, _ []llm.Message, _ prompt.Preferences) (*help.Answer, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return &help.Answer{Text: s.text}, nil
}

type stubAnalytics struct {
	requests []analytics.Request
	result   analytics.Result
}

func (s *stubAnalytics) Run(_ context.Context, req analytics.Request, _ *analytics.State) (*analytics.Result, error) {
	s.requests = append(s.requests, req)
	res := s.result
	return &res, nil
}

type serviceHarness struct {
	svc       IAssistantService
	help      *stubHelp
	analytics *stubAnalytics
	user      analytics.Identity
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	table, err := navigation.LoadTable(filepath.Join(filepath.Dir(file), "..", "..", "config", "navigation_routes.yaml"))
	require.NoError(t, err)

	resolver := navigation.NewResolver(table, 0.5)
	log := logger.NewNopLogger()
	h := &serviceHarness{
		help:      &stubHelp{text: "Use the **Rate Calculator** to price a lane."},
		analytics: &stubAnalytics{result: analytics.Result{Text: "Here are the numbers."}},
		user:      analytics.Identity{UserID: "u-1", UserName: "dana", Email: "dana@tcube360.com"},
	}
	h.svc = NewAssistantService(
		memory.NewSessionRepository(time.Minute),
		router.NewClassifier(resolver, log),
		h.help,
		h.analytics,
		resolver,
		table,
		AssistantServiceConfig{StickyTurns: 3},
		log,
	)
	return h
}

func (h *serviceHarness) ask(t *testing.T, session, question string) *dto.AssistantQueryResponse {
	t.Helper()
	res, err := h.svc.Query(context.Background(), h.user, &dto.AssistantQueryRequest{SessionId: session, Question: question})
	require.NoError(t, err)
	return res
}

func TestQuery_Greeting(t *testing.T) {
	h := newServiceHarness(t)
	res := h.ask(t, "", "Hello!")

	assert.Equal(t, msgGreeting, res.Reply)
	assert.NotEmpty(t, res.SessionId)
	assert.Empty(t, h.help.queries)
	assert.Empty(t, h.analytics.requests)
}

func TestQuery_Navigation(t *testing.T) {
	h := newServiceHarness(t)
	res := h.ask(t, "s-nav", "take me to Rate Calculator")

	assert.Equal(t, string(router.ModeNavigation), res.Mode)
	assert.Equal(t, "http://dev.tcube360.com/#/rate-calculator", res.NavigationURL)
	assert.Contains(t, res.Reply, "Opening Rate Calculator...")
	assert.Contains(t, res.Reply, "<!-- NAVIGATE_TO:http://dev.tcube360.com/#/rate-calculator -->")
}

func TestQuery_ExplainTargetIsHelp(t *testing.T) {
	h := newServiceHarness(t)
	res := h.ask(t, "s-help", "what is the Rate Calculator?")

	assert.Equal(t, string(router.ModeHelp), res.Mode)
	assert.Empty(t, res.NavigationURL)
	assert.Equal(t, "Use the **Rate Calculator** to price a lane.", res.Reply)
	assert.Equal(t, []string{"what is the Rate Calculator?"}, h.help.queries)
}

func TestQuery_HelpNeverNavigatesAndMarkupIsRemoved(t *testing.T) {
	h := newServiceHarness(t)
	h.help.text = "<script>alert(1)</script>Don't panic. <!-- NAVIGATE_TO:http://evil -->"
	res := h.ask(t, "s-x", "how do I file a claim?")

	assert.Empty(t, res.NavigationURL)
	assert.NotContains(t, res.Reply, "<script>")
	assert.NotContains(t, res.Reply, "NAVIGATE_TO")
	assert.Contains(t, res.Reply, "Don't panic.")
}

func TestQuery_DisputeMutationGoesToAnalytics(t *testing.T) {
	h := newServiceHarness(t)
	h.ask(t, "s-d", "Close dispute 1001")

	require.Len(t, h.analytics.requests, 1)
	assert.Equal(t, router.ModeDisputeAction, h.analytics.requests[0].Mode)
	assert.Equal(t, "u-1", h.analytics.requests[0].User.UserID)
}

func TestQuery_ExplicitPrefix(t *testing.T) {
	h := newServiceHarness(t)
	res := h.ask(t, "s-p", "/analytics what is going on with FedEx")

	assert.Equal(t, string(router.ModeAnalytics), res.Mode)
	require.Len(t, h.analytics.requests, 1)
	assert.Equal(t, "what is going on with FedEx", h.analytics.requests[0].Text)
}

func TestSetSticky_ForcesThreeTurns(t *testing.T) {
	h := newServiceHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.SetSticky(ctx, h.user, &dto.SetStickyRequest{SessionId: "s-st", Mode: "analytics", Turns: 3}))

	for i := 0; i < 3; i++ {
		res := h.ask(t, "s-st", "tell me about rates")
		assert.Equal(t, string(router.ModeAnalytics), res.Mode, "turn %d", i+1)
	}
	res := h.ask(t, "s-st", "tell me about rates")
	assert.Equal(t, string(router.ModeHelp), res.Mode)
	assert.Len(t, h.analytics.requests, 3)
}

func TestQuery_ReplyConfirmationIsPassedThrough(t *testing.T) {
	h := newServiceHarness(t)
	h.analytics.result = analytics.Result{Text: "Shall I send it to dana@tcube360.com?", AwaitingReply: true}
	h.ask(t, "s-c", "email the chart to me")

	h.analytics.result = analytics.Result{Text: "Sent."}
	res := h.ask(t, "s-c", "yes")

	assert.Equal(t, string(router.ModeAnalytics), res.Mode)
	require.Len(t, h.analytics.requests, 2)
	assert.Equal(t, router.ReplyConfirm, h.analytics.requests[1].Reply)
	require.NotNil(t, h.analytics.requests[1].Checkpoint)
	assert.NoError(t, h.analytics.requests[1].Checkpoint(context.Background()))
}

func TestQuery_TransportFailureBecomesUserText(t *testing.T) {
	h := newServiceHarness(t)
	h.help.err = errs.Transport("help.generate", assert.AnError)
	res := h.ask(t, "s-t", "how do I file a claim?")

	assert.Equal(t, errs.MsgTransport, res.Reply)
}

func TestSession_Ownership(t *testing.T) {
	h := newServiceHarness(t)
	h.ask(t, "s-own", "how do I file a claim?")

	other := analytics.Identity{UserID: "u-2"}
	_, err := h.svc.Query(context.Background(), other, &dto.AssistantQueryRequest{SessionId: "s-own", Question: "hi there"})
	assert.ErrorIs(t, err, ErrSessionNotOwned)

	assert.ErrorIs(t, h.svc.ResetSession(context.Background(), other, "s-own"), ErrSessionNotOwned)
	assert.NoError(t, h.svc.ResetSession(context.Background(), h.user, "s-own"))
}

func TestRoutes(t *testing.T) {
	h := newServiceHarness(t)
	routes := h.svc.Routes()
	require.NotEmpty(t, routes)
	assert.Equal(t, "rate-calculator", routes[0].Id)
}

func TestNeutralize(t *testing.T) {
	assert.Equal(t, "a < b & c", neutralize("a < b & c"))
	assert.Equal(t, "bold", neutralize("<b>bold</b>"))
	assert.Equal(t, "x", neutralize("&lt;img src=y&gt;x"))
}
