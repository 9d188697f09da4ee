package contract

import (
	"context"
	"time"

	"cubie-assistant/internal/entity"
)

type DisputeRepository interface {
	// FindByID returns nil, nil when the dispute does not exist.
	FindByID(ctx context.Context, disputeId int64) (*entity.Dispute, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, disputeId int64) (*entity.Dispute, error)
	UpdateStatus(ctx context.Context, disputeId int64, status, changedBy string, changedOn time.Time) error
}

type AuditTrailRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
}
