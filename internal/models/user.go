package models

import "time"

// User owns documents. PasswordHash is a bcrypt hash and never leaves the store.
type User struct {
	ID           string
	Email        string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
