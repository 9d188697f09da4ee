// Package analytics turns data requests into validated catalog operations
// and executes them. Free text never reaches the database: the model picks
// an operation and parameters, the catalog validates them, and the backend
// runs fixed, parameterized queries.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/pkg/mailer"
	"cubie-assistant/pkg/ai/router"
	"cubie-assistant/pkg/errs"
	"cubie-assistant/pkg/events"
	"cubie-assistant/pkg/llm"
	"cubie-assistant/pkg/metrics"
	"cubie-assistant/pkg/rag/prompt"
	"cubie-assistant/pkg/retry"

	"github.com/microcosm-cc/bluemonday"
)

type Config struct {
	DBTimeout   time.Duration
	MailTimeout time.Duration
	// Processor is recorded as the author of audit trail comments.
	Processor string
}

func DefaultConfig() Config {
	return Config{DBTimeout: 15 * time.Second, MailTimeout: 30 * time.Second, Processor: "Cubie"}
}

// Request is one analytics turn.
type Request struct {
	SessionID string
	Text      string
	History   []llm.Message
	Mode      router.Mode
	// Reply is set when the turn answers an assistant question.
	Reply router.Reply
	User  Identity
	Prefs prompt.Preferences
	// Checkpoint saves the caller's state. A confirmed draft is cleared and
	// checkpointed before the mail goes out, so a lost save cannot send twice.
	Checkpoint func(ctx context.Context) error
}

type Result struct {
	Text        string
	ChartHandle string
	ChartURL    string
	Operation   string
	Outcome     string
	// AwaitingReply is true when Text asks the user something.
	AwaitingReply bool
}

const (
	OutcomeOK        = "ok"
	OutcomeNoData    = "no_data"
	OutcomeNotFound  = "not_found"
	OutcomeClarify   = "clarify"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

const (
	msgEmailWhat      = "What would you like me to email? Ask me for a table or chart first, then tell me who should receive it."
	msgEmailCancelled = "Okay, I won't send it."

	msgDisputeUnchanged = "I haven't changed dispute %d. If you want me to update it, ask directly, for example \"close dispute %d\"."
)

var (
	plainText  = bluemonday.StrictPolicy()
	sqlPattern = regexp.MustCompile(`(?is)\b(select\s.+\sfrom|insert\s+into|update\s+\w+\s+set|delete\s+from|drop\s+table)\b`)
)

type Orchestrator struct {
	catalog *Catalog
	llm     llm.LLMProvider
	backend Backend
	charts  ChartStore
	mail    mailer.IEmailService
	events  events.Publisher
	config  Config
	logger  logger.ILogger
	now     func() time.Time
}

func NewOrchestrator(
	catalog *Catalog,
	provider llm.LLMProvider,
	backend Backend,
	charts ChartStore,
	mail mailer.IEmailService,
	publisher events.Publisher,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orchestrator{
		catalog: catalog,
		llm:     provider,
		backend: backend,
		charts:  charts,
		mail:    mail,
		events:  publisher,
		config:  config,
		logger:  log,
		now:     time.Now,
	}
}

// Run handles one turn. state is the caller's session state and is updated
// in place. Expected outcomes (no data, unknown dispute, clarifying
// questions) come back as text with a nil error; validation and transport
// failures come back as typed errors.
func (o *Orchestrator) Run(ctx context.Context, req Request, state *State) (*Result, error) {
	if state.PendingEmail != nil {
		switch req.Reply {
		case router.ReplyConfirm:
			return o.sendDraft(ctx, req, state)
		case router.ReplyReject:
			state.PendingEmail = nil
			return &Result{Text: msgEmailCancelled, Operation: OpSendEmail, Outcome: OutcomeCancelled}, nil
		}
	}

	if name, args, ok := parseDisputeCommand(req.Text); ok {
		o.logger.Debug("ANALYTICS", "Parsed dispute command", map[string]interface{}{"operation": name})
		return o.execute(ctx, req, state, name, args)
	}
	if id, ok := hesitantDisputeChange(req.Text); ok {
		o.logger.Debug("ANALYTICS", "Dispute change was not an instruction", map[string]interface{}{"dispute_id": id})
		return &Result{Text: fmt.Sprintf(msgDisputeUnchanged, id, id), Operation: OpUpdateDisputeStatus, Outcome: OutcomeClarify}, nil
	}

	if req.Mode == router.ModeEmail && !state.HasContent() {
		return &Result{Text: msgEmailWhat, Operation: OpSendEmail, Outcome: OutcomeClarify, AwaitingReply: true}, nil
	}

	completion, err := o.complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(completion.ToolCalls) == 0 {
		text := strings.TrimSpace(completion.Text)
		if text == "" || sqlPattern.MatchString(text) {
			return &Result{Text: errs.MsgQueryValidation, Outcome: OutcomeClarify, AwaitingReply: true}, nil
		}
		return &Result{Text: text, Outcome: OutcomeClarify, AwaitingReply: router.IsReplyContext(text)}, nil
	}
	if len(completion.ToolCalls) > 1 {
		o.logger.Warn("ANALYTICS", "Model returned several tool calls, executing the first", map[string]interface{}{
			"count": len(completion.ToolCalls),
		})
	}

	call := completion.ToolCalls[0]
	return o.execute(ctx, req, state, call.Name, call.Args)
}

func (o *Orchestrator) complete(ctx context.Context, req Request) (*llm.Completion, error) {
	messages := make([]llm.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: "user", Content: req.Text})

	policy := retry.OneRetry
	policy.ShouldRetry = llm.Transient

	var completion *llm.Completion
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		completion, err = o.llm.Complete(ctx, messages,
			llm.WithSystem(prompt.AnalyticsSystem(req.Prefs, o.catalog.Version(), o.now())),
			llm.WithTools(o.catalog.Tools()...),
			llm.WithTemperature(0),
		)
		return err
	})
	if err != nil {
		o.logger.Error("ANALYTICS", "Function calling failed", map[string]interface{}{"error": err})
		return nil, llm.TransportError("analytics.complete", err)
	}
	return completion, nil
}

// params is the union of every operation's parameters.
type params struct {
	Entity      string   `json:"entity"`
	Metric      string   `json:"metric"`
	GroupBy     string   `json:"group_by"`
	Interval    string   `json:"interval"`
	Limit       int      `json:"limit"`
	Order       string   `json:"order"`
	Carrier     string   `json:"carrier"`
	Mode        string   `json:"mode"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
	Reason      string   `json:"reason"`
	DateFrom    string   `json:"date_from"`
	DateTo      string   `json:"date_to"`
	ChartType   string   `json:"chart_type"`
	Title       string   `json:"title"`
	DisputeID   int64    `json:"dispute_id"`
	Action      string   `json:"action"`
	Comment     string   `json:"comment"`
	AssignedTo  string   `json:"assigned_to"`
	Recipients  []string `json:"recipients"`
	Content     string   `json:"content"`
	Subject     string   `json:"subject"`
	Message     string   `json:"message"`
}

func (o *Orchestrator) execute(ctx context.Context, req Request, state *State, name string, args map[string]interface{}) (*Result, error) {
	spec, err := o.catalog.Validate(name, args)
	if err != nil {
		o.logger.Warn("ANALYTICS", "Rejected tool call", map[string]interface{}{"operation": logger.Preview(name, 60), "error": err})
		return nil, err
	}

	var p params
	if err := spec.Decode(&p); err != nil {
		return nil, errs.Validation("analytics.decode", "%s: %v", spec.Operation, err)
	}

	var res *Result
	switch spec.Operation {
	case OpAggregateCount:
		res, err = o.aggregate(ctx, p, state)
	case OpGroupedRanking:
		res, err = o.ranking(ctx, p, state)
	case OpTimeSeries:
		res, err = o.timeSeries(ctx, p, state)
	case OpBuildChart:
		res, err = o.buildChart(ctx, p, state)
	case OpUpdateDisputeStatus:
		res, err = o.updateDispute(ctx, req, p)
	case OpAddDisputeComment:
		res, err = o.addComment(ctx, p)
	case OpSendEmail:
		res, err = o.draftEmail(ctx, req, p, state)
	default:
		err = errs.Validation("analytics.execute", "operation %q has no executor", spec.Operation)
	}

	outcome := OutcomeFailed
	if err == nil {
		res.Operation = spec.Operation
		outcome = res.Outcome
	}
	o.record(ctx, req, spec, outcome)
	return res, err
}

func (o *Orchestrator) record(ctx context.Context, req Request, spec *Spec, outcome string) {
	metrics.ToolExecutions.WithLabelValues(spec.Operation, outcome).Inc()
	err := o.backend.RecordAction(ctx, Action{
		SessionID: req.SessionID,
		UserID:    req.User.UserID,
		Operation: spec.Operation,
		Params:    spec.Params,
		Outcome:   outcome,
	})
	if err != nil {
		o.logger.Warn("ANALYTICS", "Failed to record action", map[string]interface{}{"operation": spec.Operation, "error": err})
	}
	o.logger.Info("ANALYTICS", "Operation executed", map[string]interface{}{
		"operation": spec.Operation, "outcome": outcome, "session_id": req.SessionID,
	})
}

func (o *Orchestrator) query(p params) (Query, error) {
	q := Query{
		Entity:   p.Entity,
		Metric:   p.Metric,
		GroupBy:  p.GroupBy,
		Interval: p.Interval,
		Limit:    p.Limit,
		Desc:     p.Order != "asc",
		Filters:  map[string]string{},
	}
	for col, v := range map[string]string{
		"carrier": p.Carrier, "mode": p.Mode, "origin": p.Origin,
		"destination": p.Destination, "status": p.Status, "reason": p.Reason,
	} {
		if v != "" {
			q.Filters[col] = v
		}
	}

	if p.DateFrom != "" {
		from, err := time.Parse("2006-01-02", p.DateFrom)
		if err != nil {
			return q, errs.Validation("analytics.query", "date_from: %v", err)
		}
		q.DateFrom = &from
	}
	if p.DateTo != "" {
		to, err := time.Parse("2006-01-02", p.DateTo)
		if err != nil {
			return q, errs.Validation("analytics.query", "date_to: %v", err)
		}
		// date_to is inclusive; the backend bound is exclusive.
		to = to.AddDate(0, 0, 1)
		q.DateTo = &to
	}
	if q.DateFrom != nil && q.DateTo != nil && !q.DateFrom.Before(*q.DateTo) {
		return q, errs.Validation("analytics.query", "date_from is after date_to")
	}
	return q, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultRankingLimit
	case n > MaxRankingLimit:
		return MaxRankingLimit
	}
	return n
}

// read runs a side-effect free backend call with the DB timeout and one retry
// on transport failure.
func (o *Orchestrator) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	policy := retry.OneRetry
	policy.ShouldRetry = func(err error) bool {
		kind, ok := errs.KindOf(err)
		return !ok || kind == errs.KindTransport
	}
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, o.config.DBTimeout)
		defer cancel()
		return fn(ctx)
	})
	if err == nil {
		return nil
	}
	if _, ok := errs.KindOf(err); ok {
		return err
	}
	return errs.Transport(op, err)
}

func describeFilters(q Query, p params) string {
	var parts []string
	for _, col := range columns {
		if v, ok := q.Filters[col]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", col, plainText.Sanitize(v)))
		}
	}
	switch {
	case p.DateFrom != "" && p.DateTo != "":
		parts = append(parts, fmt.Sprintf("%s to %s", p.DateFrom, p.DateTo))
	case p.DateFrom != "":
		parts = append(parts, "since "+p.DateFrom)
	case p.DateTo != "":
		parts = append(parts, "until "+p.DateTo)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func noData() *Result {
	return &Result{Text: errs.MsgNoData, Outcome: OutcomeNoData}
}

func (o *Orchestrator) aggregate(ctx context.Context, p params, state *State) (*Result, error) {
	q, err := o.query(p)
	if err != nil {
		return nil, err
	}
	var value float64
	var rows int64
	err = o.read(ctx, "analytics.aggregate", func(ctx context.Context) error {
		var err error
		value, rows, err = o.backend.Aggregate(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return noData(), nil
	}

	title := fmt.Sprintf("%s of %s%s", humanize(p.Metric), p.Entity, describeFilters(q, p))
	formatted := formatValue(p.Metric, value)
	state.LastTable = &Table{Title: title, Columns: []string{humanize(p.Metric)}, Rows: [][]string{{formatted}}}
	return &Result{Text: fmt.Sprintf("%s: %s", title, formatted), Outcome: OutcomeOK}, nil
}

func rowsTable(title, labelColumn, metric string, rows []Row) *Table {
	t := &Table{Title: title, Columns: []string{labelColumn, humanize(metric)}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{plainText.Sanitize(r.Label), formatValue(metric, r.Value)})
	}
	return t
}

func (o *Orchestrator) ranking(ctx context.Context, p params, state *State) (*Result, error) {
	q, err := o.query(p)
	if err != nil {
		return nil, err
	}
	q.Limit = clampLimit(p.Limit)

	var rows []Row
	err = o.read(ctx, "analytics.ranking", func(ctx context.Context) error {
		var err error
		rows, err = o.backend.Ranking(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return noData(), nil
	}

	direction := "Top"
	if !q.Desc {
		direction = "Bottom"
	}
	title := fmt.Sprintf("%s %d %s by %s%s", direction, q.Limit, p.GroupBy, strings.ToLower(humanize(p.Metric)), describeFilters(q, p))
	table := rowsTable(title, humanize(p.GroupBy), p.Metric, rows)
	state.LastTable = table
	return &Result{Text: table.Markdown(), Outcome: OutcomeOK}, nil
}

func (o *Orchestrator) timeSeries(ctx context.Context, p params, state *State) (*Result, error) {
	q, err := o.query(p)
	if err != nil {
		return nil, err
	}

	var rows []Row
	err = o.read(ctx, "analytics.time_series", func(ctx context.Context) error {
		var err error
		rows, err = o.backend.TimeSeries(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return noData(), nil
	}

	title := fmt.Sprintf("%s of %s per %s%s", humanize(p.Metric), p.Entity, p.Interval, describeFilters(q, p))
	table := rowsTable(title, "Period", p.Metric, rows)
	state.LastTable = table
	return &Result{Text: table.Markdown(), Outcome: OutcomeOK}, nil
}

func (o *Orchestrator) buildChart(ctx context.Context, p params, state *State) (*Result, error) {
	if (p.GroupBy == "") == (p.Interval == "") {
		return nil, errs.Validation("analytics.chart", "build_chart needs exactly one of group_by or interval")
	}
	q, err := o.query(p)
	if err != nil {
		return nil, err
	}

	var rows []Row
	xLabel := "Period"
	if p.GroupBy != "" {
		xLabel = humanize(p.GroupBy)
		q.Limit = clampLimit(p.Limit)
		if p.Limit == 0 {
			// Charts show more than the top-3 default of a plain ranking.
			q.Limit = 10
		}
		err = o.read(ctx, "analytics.chart", func(ctx context.Context) error {
			var err error
			rows, err = o.backend.Ranking(ctx, q)
			return err
		})
	} else {
		err = o.read(ctx, "analytics.chart", func(ctx context.Context) error {
			var err error
			rows, err = o.backend.TimeSeries(ctx, q)
			return err
		})
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return noData(), nil
	}

	title := plainText.Sanitize(strings.TrimSpace(p.Title))
	if title == "" {
		title = fmt.Sprintf("%s by %s", humanize(p.Metric), strings.ToLower(xLabel))
	}
	spec := newChartSpec(p.ChartType, title, xLabel, p.Metric, rows)
	raw, err := spec.JSON()
	if err != nil {
		return nil, errs.Transport("analytics.chart", err)
	}
	if err := o.read(ctx, "analytics.chart.store", func(ctx context.Context) error {
		return o.charts.Put(ctx, spec.Handle, raw)
	}); err != nil {
		return nil, err
	}

	state.rememberChart(ChartRef{Handle: spec.Handle, Title: title, Type: p.ChartType, CreatedAt: spec.CreatedAt})
	state.LastTable = rowsTable(title, xLabel, p.Metric, rows)
	return &Result{
		Text:        fmt.Sprintf("Here is the %s chart: %s.", strings.ReplaceAll(p.ChartType, "_", " "), title),
		ChartHandle: spec.Handle,
		ChartURL:    o.charts.URL(spec.Handle),
		Outcome:     OutcomeOK,
	}, nil
}

func (o *Orchestrator) disputeNotFound(id int64) *Result {
	return &Result{Text: fmt.Sprintf("Dispute %d was not found.", id), Outcome: OutcomeNotFound}
}

// updateDispute is not retried: a failed commit is reported, never repeated.
func (o *Orchestrator) updateDispute(ctx context.Context, req Request, p params) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.DBTimeout)
	defer cancel()

	changedBy := req.User.UserName
	if changedBy == "" {
		changedBy = o.config.Processor
	}
	out, err := o.backend.UpdateDisputeStatus(ctx, DisputeUpdate{DisputeID: p.DisputeID, Action: p.Action, ChangedBy: changedBy})
	if errors.Is(err, ErrDisputeNotFound) {
		return o.disputeNotFound(p.DisputeID), nil
	}
	if err != nil {
		if _, ok := errs.KindOf(err); !ok {
			err = errs.Transport("analytics.dispute.update", err)
		}
		return nil, err
	}

	if out.PreviousStatus == out.NewStatus {
		return &Result{Text: fmt.Sprintf("Dispute %d is already %s.", out.DisputeID, out.NewStatus), Outcome: OutcomeOK}, nil
	}

	o.publish(ctx, events.DisputeStatusChanged(out.DisputeID, out.PreviousStatus, out.NewStatus, changedBy))
	return &Result{
		Text:    fmt.Sprintf("Dispute %d is now %s (it was %s).", out.DisputeID, out.NewStatus, out.PreviousStatus),
		Outcome: OutcomeOK,
	}, nil
}

func (o *Orchestrator) addComment(ctx context.Context, p params) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.DBTimeout)
	defer cancel()

	err := o.backend.AddDisputeComment(ctx, DisputeComment{
		DisputeID:  p.DisputeID,
		Comment:    plainText.Sanitize(p.Comment),
		Processor:  o.config.Processor,
		AssignedTo: plainText.Sanitize(p.AssignedTo),
	})
	if errors.Is(err, ErrDisputeNotFound) {
		return o.disputeNotFound(p.DisputeID), nil
	}
	if err != nil {
		if _, ok := errs.KindOf(err); !ok {
			err = errs.Transport("analytics.dispute.comment", err)
		}
		return nil, err
	}

	o.publish(ctx, events.DisputeCommentAdded(p.DisputeID, o.config.Processor))
	return &Result{Text: fmt.Sprintf("Added your comment to dispute %d.", p.DisputeID), Outcome: OutcomeOK}, nil
}

// draftEmail is the first phase of an email: resolve recipients and content,
// then ask for confirmation. Nothing is sent here.
func (o *Orchestrator) draftEmail(ctx context.Context, req Request, p params, state *State) (*Result, error) {
	clarify := func(text string) *Result {
		return &Result{Text: text, Outcome: OutcomeClarify, AwaitingReply: true}
	}

	var recipients, unresolved []string
	err := o.read(ctx, "analytics.email.recipients", func(ctx context.Context) error {
		var err error
		recipients, unresolved, err = resolveRecipients(ctx, o.backend, p.Recipients, req.User)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(unresolved) > 0 {
		return clarify(fmt.Sprintf("I couldn't find an email address for %s. Who should I send it to?",
			plainText.Sanitize(strings.Join(unresolved, ", ")))), nil
	}
	if len(recipients) == 0 {
		return clarify("Who should I send it to?"), nil
	}

	draft := &EmailDraft{Recipients: recipients}
	chart, table := state.LatestChart(), state.LastTable
	switch {
	case p.Content == "message" && strings.TrimSpace(p.Message) != "":
		draft.Subject = "Message from Cubie Assistant"
		draft.Markdown = p.Message
	case p.Content == "latest_table" && table != nil:
		draft.Subject = table.Title
		draft.Markdown = table.Markdown()
	case chart != nil:
		draft.Subject = chart.Title
		draft.Markdown = fmt.Sprintf("**%s**\n\nThe chart is attached.", chart.Title)
		draft.ChartHandle = chart.Handle
		if table != nil && table.Title == chart.Title {
			draft.Markdown += "\n\n" + table.Markdown()
		}
	case table != nil:
		draft.Subject = table.Title
		draft.Markdown = table.Markdown()
	default:
		return clarify(msgEmailWhat), nil
	}
	if s := strings.TrimSpace(p.Subject); s != "" {
		draft.Subject = plainText.Sanitize(s)
	}

	state.PendingEmail = draft
	return clarify(fmt.Sprintf("I'll email \"%s\" to %s. Reply yes to send it or no to cancel.",
		draft.Subject, strings.Join(recipients, ", "))), nil
}

// sendDraft is the second phase. The draft is cleared before sending so a
// repeated confirmation can never send it twice.
func (o *Orchestrator) sendDraft(ctx context.Context, req Request, state *State) (*Result, error) {
	draft := state.PendingEmail
	state.PendingEmail = nil
	if req.Checkpoint != nil {
		if err := req.Checkpoint(ctx); err != nil {
			state.PendingEmail = draft
			return nil, errs.Transport("analytics.email.checkpoint", err)
		}
	}
	spec := &Spec{Operation: OpSendEmail, Params: map[string]interface{}{
		"recipients": len(draft.Recipients),
		"subject":    draft.Subject,
		"chart":      draft.ChartHandle != "",
	}}

	mail := mailer.Mail{To: draft.Recipients, Subject: draft.Subject}
	chartURL := ""
	if draft.ChartHandle != "" {
		chartURL = o.charts.URL(draft.ChartHandle)
		raw, err := o.charts.Get(ctx, draft.ChartHandle)
		if err != nil {
			o.logger.Warn("ANALYTICS", "Chart spec unavailable, sending without attachment", map[string]interface{}{"error": err})
		} else {
			mail.Attachment = &mailer.Attachment{Filename: "chart-" + draft.ChartHandle + ".json", ContentType: "application/json", Data: raw}
		}
	}

	body, err := RenderEmailHTML(draft.Markdown, chartURL)
	if err != nil {
		o.record(ctx, req, spec, OutcomeFailed)
		return nil, errs.Transport("analytics.email.render", err)
	}
	mail.HTMLBody = body

	mailCtx, cancel := context.WithTimeout(ctx, o.config.MailTimeout)
	defer cancel()
	if err := o.mail.Send(mailCtx, mail); err != nil {
		o.record(ctx, req, spec, OutcomeFailed)
		return nil, errs.Transport("analytics.email.send", err)
	}

	o.record(ctx, req, spec, OutcomeOK)
	o.publish(ctx, events.EmailSent(req.SessionID, len(draft.Recipients), draft.Subject))
	return &Result{
		Text:      fmt.Sprintf("Email sent to %s.", strings.Join(draft.Recipients, ", ")),
		Operation: OpSendEmail,
		Outcome:   OutcomeOK,
	}, nil
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if err := o.events.Publish(ctx, event); err != nil {
		o.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err})
	}
}
