package model

import "time"

// Shipment is the fact table behind aggregate, ranking and time-series operations.
type Shipment struct {
	Id            int64     `gorm:"primaryKey;autoIncrement"`
	Carrier       string    `gorm:"type:varchar(100);index"`
	Mode          string    `gorm:"type:varchar(30);index"`
	Origin        string    `gorm:"type:varchar(100)"`
	Destination   string    `gorm:"type:varchar(100)"`
	ShipDate      time.Time `gorm:"index"`
	InvoiceAmount float64   `gorm:"type:numeric(14,2)"`
	AuditedAmount float64   `gorm:"type:numeric(14,2)"`
	Status        string    `gorm:"type:varchar(30);index"`
}

func (Shipment) TableName() string {
	return "shipments"
}
