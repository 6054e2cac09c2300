package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Lead is an inbound enquiry from the contact or onboarding form
type Lead struct {
	ID                     uuid.UUID      `json:"id" db:"id"`
	Name                   string         `json:"name" db:"name"`
	Email                  string         `json:"email" db:"email"`
	Phone                  *string        `json:"phone,omitempty" db:"phone"`
	Company                *string        `json:"company,omitempty" db:"company"`
	ProjectType            string         `json:"project_type" db:"project_type"`
	BudgetRange            *string        `json:"budget_range,omitempty" db:"budget_range"`
	Timeline               *string        `json:"timeline,omitempty" db:"timeline"`
	Message                string         `json:"message" db:"message"`
	PreferredContactMethod *string        `json:"preferred_contact_method,omitempty" db:"preferred_contact_method"`
	NewsletterSignup       bool           `json:"newsletter_signup" db:"newsletter_signup"`
	Files                  pq.StringArray `json:"files" db:"files"`
	LeadScore              *int           `json:"lead_score,omitempty" db:"lead_score"`
	Read                   bool           `json:"read" db:"read"`
	CreatedAt              time.Time      `json:"created_at" db:"created_at"`
}

// LeadFilter selects leads by read state
type LeadFilter string

const (
	LeadFilterAll    LeadFilter = "all"
	LeadFilterUnread LeadFilter = "unread"
	LeadFilterRead   LeadFilter = "read"
)

// ParseLeadFilter defaults unknown values to all.
func ParseLeadFilter(s string) LeadFilter {
	switch LeadFilter(s) {
	case LeadFilterUnread, LeadFilterRead:
		return LeadFilter(s)
	}
	return LeadFilterAll
}
