package core

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ID represents a persisted record identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ParseID validates a UUID-shaped record identifier
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidID, s)
	}
	return ID(s), nil
}

// SessionID identifies an in-memory form session. ULIDs sort by creation
// time, which keeps session listings and logs in order.
type SessionID string

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewSessionID returns a fresh monotonic ULID
func NewSessionID() SessionID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return SessionID(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// ParseSessionID validates a session identifier
func ParseSessionID(s string) (SessionID, error) {
	id, err := ulid.ParseStrict(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidID, s)
	}
	return SessionID(id.String()), nil
}

func (id SessionID) String() string { return string(id) }

// NewFileName returns a collision-free file name keeping the extension.
func NewFileName(ext string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	name := strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}
