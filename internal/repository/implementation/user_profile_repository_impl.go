package implementation

import (
	"context"
	"strings"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/model"
	"cubie-assistant/internal/repository/contract"

	"gorm.io/gorm"
)

type UserProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{db: db}
}

func (r *UserProfileRepositoryImpl) FindByUserNames(ctx context.Context, names []string) ([]*entity.UserProfile, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(strings.TrimSpace(n))
	}

	var models []*model.UserProfile
	if err := r.db.WithContext(ctx).Where("LOWER(user_name) IN ?", lowered).Find(&models).Error; err != nil {
		return nil, err
	}

	profiles := make([]*entity.UserProfile, len(models))
	for i, m := range models {
		profiles[i] = &entity.UserProfile{Id: m.Id, UserName: m.UserName, Email: m.Email}
	}
	return profiles, nil
}
