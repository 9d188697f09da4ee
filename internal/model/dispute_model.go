package model

import "time"

type Dispute struct {
	DisputeId int64   `gorm:"column:dispute_id;primaryKey;autoIncrement:false"`
	Status    string  `gorm:"type:varchar(20);not null;default:'Open';index"`
	Carrier   string  `gorm:"type:varchar(100);index"`
	Amount    float64 `gorm:"type:numeric(14,2)"`
	Reason    string  `gorm:"type:text"`
	ChangedOn *time.Time
	ChangedBy string `gorm:"type:varchar(100)"`
}

func (Dispute) TableName() string {
	return "disputes"
}

type AuditTrail struct {
	Id           int64     `gorm:"primaryKey;autoIncrement"`
	DisputeId    int64     `gorm:"not null;index"`
	CreationDate time.Time `gorm:"not null"`
	Processor    string    `gorm:"type:varchar(100);not null"`
	Comments     string    `gorm:"type:text"`
	AssignedTo   string    `gorm:"type:varchar(100)"`
}

func (AuditTrail) TableName() string {
	return "audit_trails"
}
