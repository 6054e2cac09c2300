package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestNewIDParses(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID(%q) failed: %v", id, err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}
}

// TestParseID tests record ID parsing
func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		hasError bool
	}{
		{"0190b6a8-7f0e-7c3a-9d2f-1a2b3c4d5e6f", false},
		{"  0190b6a8-7f0e-7c3a-9d2f-1a2b3c4d5e6f  ", false},
		{"", true},
		{"   ", true},
		{"not-a-uuid", true},
	}

	for _, test := range tests {
		_, err := ParseID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if test.hasError && !errors.Is(err, ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID for input '%s', got %v", test.input, err)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
	}
}

func TestSessionIDsAreOrdered(t *testing.T) {
	prev := NewSessionID()
	for i := 0; i < 1000; i++ {
		next := NewSessionID()
		if next <= prev {
			t.Fatalf("Session IDs not monotonic: %s then %s", prev, next)
		}
		prev = next
	}

	if _, err := ParseSessionID(prev.String()); err != nil {
		t.Errorf("ParseSessionID rejected a fresh id: %v", err)
	}
	if _, err := ParseSessionID("nope"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
}

func TestNewFileName(t *testing.T) {
	name := NewFileName(".PDF")
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("Expected .pdf suffix, got %s", name)
	}
	if name != strings.ToLower(name) {
		t.Errorf("Expected lowercase name, got %s", name)
	}
	if bare := NewFileName(""); strings.Contains(bare, ".") {
		t.Errorf("Expected no extension, got %s", bare)
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("secret")
	if a != HashToken("secret") {
		t.Error("Expected stable hash")
	}
	if a == HashToken("other") {
		t.Error("Expected different tokens to hash differently")
	}
	if len(a.String()) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(a))
	}
}

func TestSameMonth(t *testing.T) {
	base := time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)
	if !SameMonth(base, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected same month")
	}
	if SameMonth(base, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected different year to differ")
	}
}
