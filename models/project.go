package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Project is a portfolio case study
type Project struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Title            string         `json:"title" db:"title" validate:"required,max=200"`
	ShortDescription string         `json:"short_description" db:"short_description" validate:"required,max=500"`
	ThumbnailURL     string         `json:"thumbnail_url" db:"thumbnail_url"`
	FullDescription  string         `json:"full_description" db:"full_description"`
	ToolsUsed        pq.StringArray `json:"tools_used" db:"tools_used"`
	CaseStudyContent string         `json:"case_study_content" db:"case_study_content"`
	ExternalLink     *string        `json:"external_link,omitempty" db:"external_link" validate:"omitempty,url"`
	Slug             string         `json:"slug" db:"slug" validate:"omitempty,max=200"`
	StartDate        *string        `json:"start_date,omitempty" db:"start_date" validate:"omitempty,datetime=2006-01"`
	EndDate          *string        `json:"end_date,omitempty" db:"end_date" validate:"omitempty,datetime=2006-01"`
	Type             *string        `json:"type,omitempty" db:"type"`
	Status           *string        `json:"status,omitempty" db:"status"`
	DisplayOrder     int            `json:"display_order" db:"display_order" validate:"gte=0"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`

	// CaseStudyHTML is rendered on read and never stored.
	CaseStudyHTML string `json:"case_study_html,omitempty" db:"-"`
}

// IsLive reports whether the project links to a deployed site.
func (p Project) IsLive() bool {
	return p.ExternalLink != nil && *p.ExternalLink != ""
}
