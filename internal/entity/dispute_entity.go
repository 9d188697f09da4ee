package entity

import "time"

const (
	DisputeStatusOpen   = "Open"
	DisputeStatusClosed = "Closed"
)

type Dispute struct {
	DisputeId int64
	Status    string
	Carrier   string
	Amount    float64
	Reason    string
	ChangedOn *time.Time
	ChangedBy string
}

type AuditEntry struct {
	Id           int64
	DisputeId    int64
	CreationDate time.Time
	Processor    string
	Comments     string
	AssignedTo   string
}

// DisputeChange reports the outcome of a committed status update.
type DisputeChange struct {
	DisputeId      int64
	PreviousStatus string
	NewStatus      string
	ChangedBy      string
	ChangedOn      time.Time
}
