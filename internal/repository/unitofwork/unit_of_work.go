package unitofwork

import (
	"context"

	"cubie-assistant/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	HelpChunkRepository() contract.HelpChunkRepository
	DisputeRepository() contract.DisputeRepository
	AuditTrailRepository() contract.AuditTrailRepository
	AnalyticsRepository() contract.AnalyticsRepository
	UserProfileRepository() contract.UserProfileRepository
	AssistantActionRepository() contract.AssistantActionRepository
}
