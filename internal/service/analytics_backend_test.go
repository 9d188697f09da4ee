package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/repository/contract"
	"cubie-assistant/internal/repository/specification"
	"cubie-assistant/internal/repository/unitofwork"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	disputes  map[int64]*entity.Dispute
	audits    []*entity.AuditEntry
	actions   []*entity.AssistantAction
	profiles  []*entity.UserProfile
	chunks    []*entity.HelpChunk
	commits   int
	rollbacks int
	queryErr  error
}

type fakeUoW struct {
	db      *fakeDB
	pending []*entity.AuditEntry
	updates map[int64]string
	corpus  []*entity.HelpChunk
	replace bool
	inTx    bool
}

func (f *fakeDB) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: f, updates: map[int64]string{}}
}

func (u *fakeUoW) Begin(context.Context) error { u.inTx = true; return nil }

func (u *fakeUoW) Commit() error {
	for id, status := range u.updates {
		u.db.disputes[id].Status = status
	}
	u.db.audits = append(u.db.audits, u.pending...)
	if u.replace {
		u.db.chunks = u.corpus
	}
	u.db.commits++
	u.inTx = false
	return nil
}

func (u *fakeUoW) Rollback() error {
	if u.inTx {
		u.db.rollbacks++
		u.inTx = false
	}
	return nil
}

func (u *fakeUoW) HelpChunkRepository() contract.HelpChunkRepository { return helpRepo{u} }
func (u *fakeUoW) DisputeRepository() contract.DisputeRepository { return u }
func (u *fakeUoW) AuditTrailRepository() contract.AuditTrailRepository {
	return auditRepo{u}
}
func (u *fakeUoW) AnalyticsRepository() contract.AnalyticsRepository { return u }
func (u *fakeUoW) UserProfileRepository() contract.UserProfileRepository { return u }
func (u *fakeUoW) AssistantActionRepository() contract.AssistantActionRepository {
	return u
}

func (u *fakeUoW) FindByID(_ context.Context, id int64) (*entity.Dispute, error) {
	d, ok := u.db.disputes[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (u *fakeUoW) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Dispute, error) {
	return u.FindByID(ctx, id)
}

func (u *fakeUoW) UpdateStatus(_ context.Context, id int64, status, _ string, _ time.Time) error {
	u.updates[id] = status
	return nil
}

type helpRepo struct{ u *fakeUoW }

func (h helpRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.HelpChunk, error) {
	return h.u.db.chunks, nil
}

func (h helpRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(h.u.db.chunks)), nil
}

func (h helpRepo) ReplaceAll(_ context.Context, chunks []*entity.HelpChunk) error {
	h.u.corpus, h.u.replace = chunks, true
	return nil
}

type auditRepo struct{ u *fakeUoW }

func (a auditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	a.u.pending = append(a.u.pending, e)
	return nil
}

func (u *fakeUoW) Aggregate(context.Context, entity.MetricQuery) (*entity.AggregateResult, error) {
	if u.db.queryErr != nil {
		return nil, u.db.queryErr
	}
	return &entity.AggregateResult{Value: 4, RowCount: 4}, nil
}

func (u *fakeUoW) Ranking(context.Context, entity.MetricQuery) ([]entity.MetricRow, error) {
	return []entity.MetricRow{{Label: "FedEx", Value: 3}}, nil
}

func (u *fakeUoW) TimeSeries(context.Context, entity.MetricQuery) ([]entity.MetricRow, error) {
	return nil, nil
}

func (u *fakeUoW) FindByUserNames(_ context.Context, names []string) ([]*entity.UserProfile, error) {
	return u.db.profiles, nil
}

func (u *fakeUoW) Create(_ context.Context, a *entity.AssistantAction) error {
	u.db.actions = append(u.db.actions, a)
	return nil
}

func newFakeDB() *fakeDB {
	return &fakeDB{disputes: map[int64]*entity.Dispute{
		1001: {DisputeId: 1001, Status: entity.DisputeStatusOpen},
		1002: {DisputeId: 1002, Status: entity.DisputeStatusClosed},
	}}
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		current, action, want string
	}{
		{"Open", "close", "Closed"},
		{"Closed", "reopen", "Open"},
		{"Closed", "open", "Open"},
		{"Open", "toggle", "Closed"},
		{"Closed", "toggle", "Open"},
	}
	for _, tc := range cases {
		t.Run(tc.current+"/"+tc.action, func(t *testing.T) {
			got, err := nextStatus(tc.current, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	_, err := nextStatus("Open", "delete")
	assert.Error(t, err)
}

func TestAnalyticsBackend_UpdateDisputeStatus(t *testing.T) {
	db := newFakeDB()
	backend := NewAnalyticsBackend(db)

	out, err := backend.UpdateDisputeStatus(context.Background(), analytics.DisputeUpdate{
		DisputeID: 1001, Action: "close", ChangedBy: "Cubie",
	})
	require.NoError(t, err)
	assert.Equal(t, "Open", out.PreviousStatus)
	assert.Equal(t, "Closed", out.NewStatus)
	assert.Equal(t, "Closed", db.disputes[1001].Status)
	assert.Equal(t, 1, db.commits)
	require.Len(t, db.audits, 1)
	assert.Equal(t, int64(1001), db.audits[0].DisputeId)
}

func TestAnalyticsBackend_SameStatusWritesNothing(t *testing.T) {
	db := newFakeDB()
	backend := NewAnalyticsBackend(db)

	out, err := backend.UpdateDisputeStatus(context.Background(), analytics.DisputeUpdate{
		DisputeID: 1002, Action: "close", ChangedBy: "Cubie",
	})
	require.NoError(t, err)
	assert.Equal(t, "Closed", out.PreviousStatus)
	assert.Equal(t, "Closed", out.NewStatus)
	assert.Zero(t, db.commits)
	assert.Empty(t, db.audits)
}

func TestAnalyticsBackend_UnknownDisputeMutatesNothing(t *testing.T) {
	db := newFakeDB()
	backend := NewAnalyticsBackend(db)

	_, err := backend.UpdateDisputeStatus(context.Background(), analytics.DisputeUpdate{DisputeID: 9, Action: "close"})
	assert.ErrorIs(t, err, analytics.ErrDisputeNotFound)

	err = backend.AddDisputeComment(context.Background(), analytics.DisputeComment{DisputeID: 9, Comment: "x"})
	assert.ErrorIs(t, err, analytics.ErrDisputeNotFound)

	assert.Zero(t, db.commits)
	assert.Equal(t, 2, db.rollbacks)
	assert.Empty(t, db.audits)
}

func TestAnalyticsBackend_UnsupportedQueryIsValidation(t *testing.T) {
	db := newFakeDB()
	db.queryErr = fmt.Errorf("%w: entity \"invoices\"", contract.ErrUnsupportedQuery)
	backend := NewAnalyticsBackend(db)

	_, _, err := backend.Aggregate(context.Background(), analytics.Query{Entity: "invoices"})
	assert.ErrorIs(t, err, errs.ErrQueryValidation)
}

func TestAnalyticsBackend_ResolveAndRecord(t *testing.T) {
	db := newFakeDB()
	db.profiles = []*entity.UserProfile{{UserName: "Bob", Email: "bob@tcube360.com"}}
	backend := NewAnalyticsBackend(db)
	ctx := context.Background()

	emails, err := backend.ResolveUserEmails(ctx, []string{"bob"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bob": "bob@tcube360.com"}, emails)

	require.NoError(t, backend.RecordAction(ctx, analytics.Action{SessionID: "s", Operation: analytics.OpAggregateCount, Outcome: "ok"}))
	require.Len(t, db.actions, 1)
	assert.Equal(t, analytics.CatalogVersion, db.actions[0].CatalogVersion)
}
