package models

import (
	"time"

	"github.com/google/uuid"
)

// Tool is a technology shown in the tools strip
type Tool struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,max=100"`
	LogoURL   string    `json:"logo_url" db:"logo_url" validate:"required"`
	Link      *string   `json:"link,omitempty" db:"link" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
