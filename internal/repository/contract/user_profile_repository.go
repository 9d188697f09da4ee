package contract

import (
	"context"

	"cubie-assistant/internal/entity"
)

type UserProfileRepository interface {
	// FindByUserNames matches user names case-insensitively.
	FindByUserNames(ctx context.Context, names []string) ([]*entity.UserProfile, error)
}
