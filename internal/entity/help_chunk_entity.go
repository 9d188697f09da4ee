package entity

import (
	"time"

	"github.com/google/uuid"
)

// HelpChunk is one retrievable slice of a help document. Chunks are immutable
// once an index is built; a rebuild replaces the whole set.
type HelpChunk struct {
	Id                uuid.UUID
	SourceTitle       string
	ChunkIndex        int
	Content           string
	UnderConstruction bool
	Embedding         []float32
	CreatedAt         time.Time
}
