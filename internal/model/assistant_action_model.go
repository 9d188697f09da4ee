package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssistantAction struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string         `gorm:"type:varchar(64);index"`
	UserId         string         `gorm:"type:varchar(64);index"`
	Operation      string         `gorm:"type:varchar(50);not null;index"`
	CatalogVersion string         `gorm:"type:varchar(20);not null"`
	Parameters     datatypes.JSON `gorm:"type:jsonb"`
	Outcome        string         `gorm:"type:varchar(30);not null"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
}

func (AssistantAction) TableName() string {
	return "assistant_actions"
}
