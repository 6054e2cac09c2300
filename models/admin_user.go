package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back office account
type AdminUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminSession is the server-side state behind an admin cookie
type AdminSession struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
