package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a client testimonial
type Review struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name" validate:"required,min=2,max=200"`
	Company    string     `json:"company" db:"company" validate:"required,max=200"`
	Content    string     `json:"content" db:"content" validate:"required,min=10"`
	Rating     int        `json:"rating" db:"rating" validate:"gte=1,lte=5"`
	ProjectID  *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
	IsApproved bool       `json:"is_approved" db:"is_approved"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
