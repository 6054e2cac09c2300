package submission

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/nambiararyan24/portfolio/domain/form"
	"github.com/nambiararyan24/portfolio/domain/lead"
	"github.com/nambiararyan24/portfolio/ports"
)

// Tables written by the pipeline
const (
	TableLeads   = "leads"
	TableReviews = "reviews"
)

// Record is a validated submission ready for the store.
type Record struct {
	Form   string
	Table  string
	Fields ports.Fields
}

// BuildRecord maps form values onto the row shape of the target table.
func BuildRecord(formName string, values form.Values, now time.Time) (Record, error) {
	switch formName {
	case form.Contact:
		return Record{Form: formName, Table: TableLeads, Fields: contactLead(values, now)}, nil
	case form.Onboarding:
		return Record{Form: formName, Table: TableLeads, Fields: onboardingLead(values, now)}, nil
	case form.Feedback:
		fields, err := feedbackReview(values, now)
		if err != nil {
			return Record{}, err
		}
		return Record{Form: formName, Table: TableReviews, Fields: fields}, nil
	}
	return Record{}, fmt.Errorf("no record builder for form %q", formName)
}

// ContactScore computes the lead score of a contact submission.
func ContactScore(values form.Values) int {
	return lead.Score(lead.Contact{
		ProjectType: values.String("project_type"),
		Company:     values.String("company"),
		Message:     values.String("message"),
	})
}

func contactLead(v form.Values, now time.Time) ports.Fields {
	return ports.Fields{
		"name":         v.String("name"),
		"email":        v.String("email"),
		"company":      optional(v.String("company")),
		"project_type": v.String("project_type"),
		"message":      v.String("message"),
		"files":        pq.StringArray{},
		"lead_score":   ContactScore(v),
		"read":         false,
		"created_at":   now,
	}
}

func onboardingLead(v form.Values, now time.Time) ports.Fields {
	return ports.Fields{
		"name":                     v.String("client_name"),
		"email":                    v.String("email"),
		"phone":                    v.String("phone"),
		"company":                  v.String("company"),
		"project_type":             v.String("project_type"),
		"budget_range":             v.String("budget_range"),
		"timeline":                 v.String("timeline"),
		"preferred_contact_method": v.String("preferred_contact"),
		"newsletter_signup":        v.Bool("newsletter_signup"),
		"message":                  OnboardingMessage(v),
		"files":                    pq.StringArray{},
		"read":                     false,
		"created_at":               now,
	}
}

// OnboardingMessage flattens the detail steps of the onboarding wizard into
// the lead message.
func OnboardingMessage(v form.Values) string {
	features := "None selected"
	if list := v.List("features_needed"); len(list) > 0 {
		features = strings.Join(list, ", ")
	}
	newsletter := "No"
	if v.Bool("newsletter_signup") {
		newsletter = "Yes"
	}

	sections := []struct{ label, value string }{
		{"Project Description", v.String("project_description")},
		{"Goals", v.String("project_goals")},
		{"Target Audience", v.String("target_audience")},
		{"Existing Website", or(v.String("existing_website"), "Not provided")},
		{"Features Needed", features},
		{"Design Style", or(v.String("design_style"), "Not specified")},
		{"Design Inspiration", or(v.String("inspiration_links"), "None provided")},
		{"Design Elements to Avoid", or(v.String("design_avoid"), "None")},
		{"How they heard about us", or(v.String("how_hear"), "Not specified")},
		{"Additional Info", or(v.String("additional_info"), "None")},
		{"Newsletter Signup", newsletter},
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.label+": "+s.value)
	}
	return strings.Join(parts, "\n\n")
}

func feedbackReview(v form.Values, now time.Time) (ports.Fields, error) {
	rating, ok := v.Number("rating")
	if !ok || rating != math.Trunc(rating) {
		return nil, fmt.Errorf("rating must be a whole number, got %v", v["rating"])
	}
	return ports.Fields{
		"name":        v.String("name"),
		"company":     v.String("company"),
		"content":     v.String("content"),
		"rating":      int(rating),
		"is_approved": false,
		"created_at":  now,
		"updated_at":  now,
	}, nil
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
