package contract

import (
	"context"

	"cubie-assistant/internal/entity"
)

type AssistantActionRepository interface {
	Create(ctx context.Context, action *entity.AssistantAction) error
}
