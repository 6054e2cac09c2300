package models

import "time"

// FormEventType names a tracked form interaction
type FormEventType string

const (
	FormEventFocus   FormEventType = "field_focus"
	FormEventBlur    FormEventType = "field_blur"
	FormEventSubmit  FormEventType = "form_submit"
	FormEventAbandon FormEventType = "form_abandon"
)

// FormEvent is one analytics observation
type FormEvent struct {
	Type      FormEventType `json:"type"`
	Form      string        `json:"form"`
	SessionID string        `json:"session_id"`
	Field     string        `json:"field,omitempty"`
	// ValueLength is reported instead of the value itself.
	ValueLength   int       `json:"value_length,omitempty"`
	Success       bool      `json:"success,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	FieldsTouched int       `json:"fields_touched,omitempty"`
	ElapsedMS     int64     `json:"elapsed_ms"`
	At            time.Time `json:"at"`
}
