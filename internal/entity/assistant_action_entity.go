package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssistantAction is the audit record of one executed catalog operation.
type AssistantAction struct {
	Id             uuid.UUID
	SessionId      string
	UserId         string
	Operation      string
	CatalogVersion string
	Parameters     map[string]interface{}
	Outcome        string
	CreatedAt      time.Time
}
