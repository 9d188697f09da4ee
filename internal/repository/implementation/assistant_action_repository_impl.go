package implementation

import (
	"context"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/mapper"
	"cubie-assistant/internal/repository/contract"

	"gorm.io/gorm"
)

type AssistantActionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssistantActionMapper
}

func NewAssistantActionRepository(db *gorm.DB) contract.AssistantActionRepository {
	return &AssistantActionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssistantActionMapper(),
	}
}

func (r *AssistantActionRepositoryImpl) Create(ctx context.Context, action *entity.AssistantAction) error {
	m, err := r.mapper.ToModel(action)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	action.Id = m.Id
	action.CreatedAt = m.CreatedAt
	return nil
}
