package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType distinguishes sellable products from listed skills
type ServiceType string

const (
	ServiceTypeProduct ServiceType = "Product"
	ServiceTypeSkill   ServiceType = "Skill"
)

// Service is an offering shown on the home page
type Service struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Title        string      `json:"title" db:"title" validate:"required,max=200"`
	Description  string      `json:"description" db:"description" validate:"required"`
	IconURL      string      `json:"icon_url" db:"icon_url" validate:"omitempty,max=2048"`
	Type         ServiceType `json:"type" db:"type" validate:"required,oneof=Product Skill"`
	DisplayOrder int         `json:"display_order" db:"display_order" validate:"gte=0"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
