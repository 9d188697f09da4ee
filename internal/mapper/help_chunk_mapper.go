package mapper

import (
	"cubie-assistant/internal/entity"
	"cubie-assistant/internal/model"

	"github.com/pgvector/pgvector-go"
)

type HelpChunkMapper struct{}

func NewHelpChunkMapper() *HelpChunkMapper {
	return &HelpChunkMapper{}
}

func (m *HelpChunkMapper) ToEntity(c *model.HelpChunk) *entity.HelpChunk {
	if c == nil {
		return nil
	}
	return &entity.HelpChunk{
		Id:                c.Id,
		SourceTitle:       c.SourceTitle,
		ChunkIndex:        c.ChunkIndex,
		Content:           c.Content,
		UnderConstruction: c.UnderConstruction,
		Embedding:         c.Embedding.Slice(),
		CreatedAt:         c.CreatedAt,
	}
}

func (m *HelpChunkMapper) ToModel(c *entity.HelpChunk) *model.HelpChunk {
	if c == nil {
		return nil
	}
	return &model.HelpChunk{
		Id:                c.Id,
		SourceTitle:       c.SourceTitle,
		ChunkIndex:        c.ChunkIndex,
		Content:           c.Content,
		UnderConstruction: c.UnderConstruction,
		Embedding:         pgvector.NewVector(c.Embedding),
		CreatedAt:         c.CreatedAt,
	}
}
