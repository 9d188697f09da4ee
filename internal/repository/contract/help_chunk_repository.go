package contract

import (
	"context"

	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/repository/specification"
)

type HelpChunkRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HelpChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ReplaceAll swaps the whole corpus. Call it inside a unit of work.
	ReplaceAll(ctx context.Context, chunks []*entity.HelpChunk) error
}
