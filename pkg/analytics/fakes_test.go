package analytics

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/pkg/mailer"
	"cubie-assistant/pkg/events"
	"cubie-assistant/pkg/llm"
)

type fakeBackend struct {
	mu        sync.Mutex
	aggregate struct {
		value float64
		rows  int64
	}
	rows     []Row
	disputes map[int64]string
	users    map[string]string
	queries  []Query
	updates  []DisputeUpdate
	comments []DisputeComment
	actions  []Action
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		disputes: map[int64]string{1001: "Open", 7: "Closed"},
		users:    map[string]string{"bob": "bob@tcube360.com"},
	}
}

func (f *fakeBackend) Aggregate(_ context.Context, q Query) (float64, int64, error) {
	f.queries = append(f.queries, q)
	return f.aggregate.value, f.aggregate.rows, nil
}

func (f *fakeBackend) Ranking(_ context.Context, q Query) ([]Row, error) {
	f.queries = append(f.queries, q)
	return f.rows, nil
}

func (f *fakeBackend) TimeSeries(_ context.Context, q Query) ([]Row, error) {
	f.queries = append(f.queries, q)
	return f.rows, nil
}

func (f *fakeBackend) UpdateDisputeStatus(_ context.Context, u DisputeUpdate) (*DisputeOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	prev, ok := f.disputes[u.DisputeID]
	if !ok {
		return nil, ErrDisputeNotFound
	}
	next := prev
	switch u.Action {
	case "close":
		next = "Closed"
	case "open", "reopen":
		next = "Open"
	case "toggle":
		if prev == "Open" {
			next = "Closed"
		} else {
			next = "Open"
		}
	}
	f.disputes[u.DisputeID] = next
	return &DisputeOutcome{DisputeID: u.DisputeID, PreviousStatus: prev, NewStatus: next}, nil
}

func (f *fakeBackend) AddDisputeComment(_ context.Context, c DisputeComment) error {
	if _, ok := f.disputes[c.DisputeID]; !ok {
		return ErrDisputeNotFound
	}
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeBackend) ResolveUserEmails(_ context.Context, names []string) (map[string]string, error) {
	out := map[string]string{}
	for _, n := range names {
		if e, ok := f.users[n]; ok {
			out[n] = e
		}
	}
	return out, nil
}

func (f *fakeBackend) RecordAction(_ context.Context, a Action) error {
	f.actions = append(f.actions, a)
	return nil
}

type scriptedLLM struct {
	completions []*llm.Completion
	calls       int
	lastOptions *llm.Options
}

func (s *scriptedLLM) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedLLM) Generate(context.Context, string, ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedLLM) Complete(_ context.Context, _ []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	s.calls++
	s.lastOptions = llm.BuildOptions(opts...)
	if len(s.completions) == 0 {
		return &llm.Completion{Text: "Could you tell me more?"}, nil
	}
	c := s.completions[0]
	s.completions = s.completions[1:]
	return c, nil
}

func toolCall(name string, args map[string]interface{}) *llm.Completion {
	return &llm.Completion{ToolCalls: []llm.ToolCall{{ID: "1", Name: name, Args: args}}}
}

type memoryCharts struct {
	specs map[string][]byte
}

func (m *memoryCharts) Put(_ context.Context, handle string, spec []byte) error {
	if m.specs == nil {
		m.specs = map[string][]byte{}
	}
	m.specs[handle] = spec
	return nil
}

func (m *memoryCharts) Get(_ context.Context, handle string) ([]byte, error) {
	spec, ok := m.specs[handle]
	if !ok {
		return nil, errors.New("missing")
	}
	return spec, nil
}

func (m *memoryCharts) URL(handle string) string {
	return "/api/assistant/v1/charts/" + handle
}

type recordingMailer struct {
	sent []mailer.Mail
	err  error
}

func (r *recordingMailer) Send(_ context.Context, m mailer.Mail) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

type harness struct {
	orch    *Orchestrator
	backend *fakeBackend
	llm     *scriptedLLM
	charts  *memoryCharts
	mail    *recordingMailer
	events  *recordingPublisher
}

func newHarness(completions ...*llm.Completion) *harness {
	catalog, err := NewCatalog()
	if err != nil {
		panic(err)
	}
	h := &harness{
		backend: newFakeBackend(),
		llm:     &scriptedLLM{completions: completions},
		charts:  &memoryCharts{},
		mail:    &recordingMailer{},
		events:  &recordingPublisher{},
	}
	h.orch = NewOrchestrator(catalog, h.llm, h.backend, h.charts, h.mail, h.events, DefaultConfig(), logger.NewNopLogger())
	return h
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
