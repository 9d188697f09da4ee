package implementation

import (
	"context"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/mapper"
	"cubie-assistant/internal/model"
	"cubie-assistant/internal/repository/contract"
	"cubie-assistant/internal/repository/specification"

	"gorm.io/gorm"
)

type HelpChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HelpChunkMapper
}

func NewHelpChunkRepository(db *gorm.DB) contract.HelpChunkRepository {
	return &HelpChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewHelpChunkMapper(),
	}
}

func (r *HelpChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *HelpChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HelpChunk, error) {
	var models []*model.HelpChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	chunks := make([]*entity.HelpChunk, len(models))
	for i, m := range models {
		chunks[i] = r.mapper.ToEntity(m)
	}
	return chunks, nil
}

func (r *HelpChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.HelpChunk{}).Count(&count).Error
	return count, err
}

func (r *HelpChunkRepositoryImpl) ReplaceAll(ctx context.Context, chunks []*entity.HelpChunk) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.HelpChunk{}).Error; err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.HelpChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := db.CreateInBatches(models, 200).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}
