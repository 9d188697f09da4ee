package database

import (
	"fmt"

	"cubie-assistant/internal/model"

	"gorm.io/gorm"
)

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

var postMigrationSQL = []string{
	// Corpus order is the tie-break for equal similarity scores.
	`CREATE INDEX IF NOT EXISTS idx_help_chunks_corpus_order ON help_chunks (source_title, chunk_index);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_trails_dispute ON audit_trails (dispute_id, creation_date);`,
}

// Migrate creates the extensions and every table the assistant reads or
// writes. It is idempotent.
func Migrate(db *gorm.DB) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	models := []interface{}{
		&model.HelpChunk{},
		&model.Shipment{},
		&model.Dispute{},
		&model.AuditTrail{},
		&model.UserProfile{},
		&model.AssistantAction{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post migration: %w", err)
		}
	}
	return nil
}
