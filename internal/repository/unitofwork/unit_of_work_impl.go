package unitofwork

import (
	"context"
	"fmt"

	"cubie-assistant/internal/repository/contract"
	"cubie-assistant/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // non-nil between Begin and Commit/Rollback
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) HelpChunkRepository() contract.HelpChunkRepository {
	return implementation.NewHelpChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DisputeRepository() contract.DisputeRepository {
	return implementation.NewDisputeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AuditTrailRepository() contract.AuditTrailRepository {
	return implementation.NewAuditTrailRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AnalyticsRepository() contract.AnalyticsRepository {
	return implementation.NewAnalyticsRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserProfileRepository() contract.UserProfileRepository {
	return implementation.NewUserProfileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssistantActionRepository() contract.AssistantActionRepository {
	return implementation.NewAssistantActionRepository(u.getDB())
}
