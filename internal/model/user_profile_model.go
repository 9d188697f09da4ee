package model

import "github.com/google/uuid"

type UserProfile struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserName string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email    string    `gorm:"type:varchar(255);not null"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
