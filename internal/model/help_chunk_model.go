package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type HelpChunk struct {
	Id                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceTitle       string          `gorm:"type:varchar(255);not null;index"`
	ChunkIndex        int             `gorm:"default:0"`
	Content           string          `gorm:"type:text;not null"`
	UnderConstruction bool            `gorm:"default:false"`
	Embedding         pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
}

func (HelpChunk) TableName() string {
	return "help_chunks"
}
