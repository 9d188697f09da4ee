package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/repository/contract"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/errs"

	"github.com/google/uuid"
)

// analyticsBackend runs catalog operations through the unit of work.
type analyticsBackend struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewAnalyticsBackend(uowFactory unitofwork.RepositoryFactory) analytics.Backend {
	return &analyticsBackend{uowFactory: uowFactory, now: time.Now}
}

func toMetricQuery(q analytics.Query) entity.MetricQuery {
	return entity.MetricQuery{
		Entity:   q.Entity,
		Metric:   q.Metric,
		GroupBy:  q.GroupBy,
		Interval: q.Interval,
		Limit:    q.Limit,
		Desc:     q.Desc,
		Filters:  q.Filters,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
	}
}

func toRows(rows []entity.MetricRow) []analytics.Row {
	out := make([]analytics.Row, len(rows))
	for i, r := range rows {
		out[i] = analytics.Row{Label: r.Label, Value: r.Value}
	}
	return out
}

// readErr turns a rejected query into a validation error so it is never
// retried and never shown verbatim.
func readErr(op string, err error) error {
	if errors.Is(err, contract.ErrUnsupportedQuery) {
		return errs.New(errs.KindQueryValidation, op, err)
	}
	return err
}

func (b *analyticsBackend) Aggregate(ctx context.Context, q analytics.Query) (float64, int64, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	res, err := uow.AnalyticsRepository().Aggregate(ctx, toMetricQuery(q))
	if err != nil {
		return 0, 0, readErr(analytics.OpAggregateCount, err)
	}
	return res.Value, res.RowCount, nil
}

func (b *analyticsBackend) Ranking(ctx context.Context, q analytics.Query) ([]analytics.Row, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AnalyticsRepository().Ranking(ctx, toMetricQuery(q))
	if err != nil {
		return nil, readErr(analytics.OpGroupedRanking, err)
	}
	return toRows(rows), nil
}

func (b *analyticsBackend) TimeSeries(ctx context.Context, q analytics.Query) ([]analytics.Row, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AnalyticsRepository().TimeSeries(ctx, toMetricQuery(q))
	if err != nil {
		return nil, readErr(analytics.OpTimeSeries, err)
	}
	return toRows(rows), nil
}

// nextStatus applies a status action to the current status.
func nextStatus(current, action string) (string, error) {
	switch strings.ToLower(action) {
	case "close", "closed":
		return entity.DisputeStatusClosed, nil
	case "open", "reopen":
		return entity.DisputeStatusOpen, nil
	case "toggle":
		if strings.EqualFold(current, entity.DisputeStatusOpen) {
			return entity.DisputeStatusClosed, nil
		}
		return entity.DisputeStatusOpen, nil
	}
	return "", fmt.Errorf("unknown dispute action %q", action)
}

func (b *analyticsBackend) UpdateDisputeStatus(ctx context.Context, u analytics.DisputeUpdate) (*analytics.DisputeOutcome, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	dispute, err := uow.DisputeRepository().FindByIDForUpdate(ctx, u.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute == nil {
		return nil, analytics.ErrDisputeNotFound
	}

	status, err := nextStatus(dispute.Status, u.Action)
	if err != nil {
		return nil, errs.New(errs.KindQueryValidation, analytics.OpUpdateDisputeStatus, err)
	}
	if strings.EqualFold(status, dispute.Status) {
		return &analytics.DisputeOutcome{DisputeID: u.DisputeID, PreviousStatus: dispute.Status, NewStatus: dispute.Status}, nil
	}

	now := b.now()
	if err := uow.DisputeRepository().UpdateStatus(ctx, u.DisputeID, status, u.ChangedBy, now); err != nil {
		return nil, err
	}
	if err := uow.AuditTrailRepository().Create(ctx, &entity.AuditEntry{
		DisputeId:    u.DisputeID,
		CreationDate: now,
		Processor:    u.ChangedBy,
		Comments:     fmt.Sprintf("Status changed from %s to %s", dispute.Status, status),
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &analytics.DisputeOutcome{
		DisputeID:      u.DisputeID,
		PreviousStatus: dispute.Status,
		NewStatus:      status,
	}, nil
}

func (b *analyticsBackend) AddDisputeComment(ctx context.Context, c analytics.DisputeComment) error {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	dispute, err := uow.DisputeRepository().FindByID(ctx, c.DisputeID)
	if err != nil {
		return err
	}
	if dispute == nil {
		return analytics.ErrDisputeNotFound
	}
	if err := uow.AuditTrailRepository().Create(ctx, &entity.AuditEntry{
		DisputeId:    c.DisputeID,
		CreationDate: b.now(),
		Processor:    c.Processor,
		Comments:     c.Comment,
		AssignedTo:   c.AssignedTo,
	}); err != nil {
		return err
	}
	return uow.Commit()
}

func (b *analyticsBackend) ResolveUserEmails(ctx context.Context, names []string) (map[string]string, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	profiles, err := uow.UserProfileRepository().FindByUserNames(ctx, names)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(profiles))
	for _, p := range profiles {
		if p.Email != "" {
			out[strings.ToLower(p.UserName)] = p.Email
		}
	}
	return out, nil
}

func (b *analyticsBackend) RecordAction(ctx context.Context, a analytics.Action) error {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantActionRepository().Create(ctx, &entity.AssistantAction{
		Id:             uuid.New(),
		SessionId:      a.SessionID,
		UserId:         a.UserID,
		Operation:      a.Operation,
		CatalogVersion: analytics.CatalogVersion,
		Parameters:     a.Params,
		Outcome:        a.Outcome,
		CreatedAt:      b.now(),
	})
}
