package implementation

import (
	"context"
	"errors"
	"time"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/mapper"
	"cubie-assistant/internal/model"
	"cubie-assistant/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DisputeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DisputeMapper
}

func NewDisputeRepository(db *gorm.DB) contract.DisputeRepository {
	return &DisputeRepositoryImpl{
		db:     db,
		mapper: mapper.NewDisputeMapper(),
	}
}

func (r *DisputeRepositoryImpl) find(db *gorm.DB, disputeId int64) (*entity.Dispute, error) {
	var m model.Dispute
	if err := db.Where("dispute_id = ?", disputeId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DisputeRepositoryImpl) FindByID(ctx context.Context, disputeId int64) (*entity.Dispute, error) {
	return r.find(r.db.WithContext(ctx), disputeId)
}

func (r *DisputeRepositoryImpl) FindByIDForUpdate(ctx context.Context, disputeId int64) (*entity.Dispute, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), disputeId)
}

func (r *DisputeRepositoryImpl) UpdateStatus(ctx context.Context, disputeId int64, status, changedBy string, changedOn time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Dispute{}).
		Where("dispute_id = ?", disputeId).
		Updates(map[string]interface{}{
			"status":     status,
			"changed_by": changedBy,
			"changed_on": changedOn,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type AuditTrailRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DisputeMapper
}

func NewAuditTrailRepository(db *gorm.DB) contract.AuditTrailRepository {
	return &AuditTrailRepositoryImpl{
		db:     db,
		mapper: mapper.NewDisputeMapper(),
	}
}

func (r *AuditTrailRepositoryImpl) Create(ctx context.Context, entry *entity.AuditEntry) error {
	m := r.mapper.AuditToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.Id = m.Id
	return nil
}
