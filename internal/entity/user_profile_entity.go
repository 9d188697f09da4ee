package entity

import "github.com/google/uuid"

type UserProfile struct {
	Id       uuid.UUID
	UserName string
	Email    string
}
