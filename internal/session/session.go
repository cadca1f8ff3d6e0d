// Package session holds the per-conversation booking slots and the stores
// that keep them between turns.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when no slots exist for a session.
var ErrNotFound = errors.New("session not found")

// Slot names, in the order they are asked for.
const (
	SlotSummary   = "summary"
	SlotStartTime = "start_time"
	SlotEndTime   = "end_time"
)

// Alternative is a proposed free window, both ends RFC3339.
type Alternative struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slots is the partially collected booking for one session. StartTime and
// EndTime hold either the user's phrase or, once resolved, an RFC3339
// timestamp.
type Slots struct {
	Summary      string        `json:"summary,omitempty"`
	StartTime    string        `json:"start_time,omitempty"`
	EndTime      string        `json:"end_time,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasPendingConfirmation is true while alternatives await a yes/no.
func (s Slots) HasPendingConfirmation() bool {
	return len(s.Alternatives) > 0
}

// Missing returns the first unfilled slot name, or "" when all are set.
func (s Slots) Missing() string {
	switch {
	case s.Summary == "":
		return SlotSummary
	case s.StartTime == "":
		return SlotStartTime
	case s.EndTime == "":
		return SlotEndTime
	}
	return ""
}

// Overwrite replaces each slot for which a non-empty value is given.
func (s *Slots) Overwrite(summary, startTime, endTime string) {
	if summary != "" {
		s.Summary = summary
	}
	if startTime != "" {
		s.StartTime = startTime
	}
	if endTime != "" {
		s.EndTime = endTime
	}
}

// Clone returns a deep copy.
func (s Slots) Clone() Slots {
	if s.Alternatives != nil {
		s.Alternatives = append([]Alternative(nil), s.Alternatives...)
	}
	return s
}

// Store persists slots between turns. Implementations must be safe for
// concurrent use; serializing turns of one session is the Locker's job.
type Store interface {
	Get(ctx context.Context, id string) (Slots, error)
	Save(ctx context.Context, id string, slots Slots) error
	Delete(ctx context.Context, id string) error
	// EvictIdle deletes sessions last updated before cutoff and returns how
	// many were removed.
	EvictIdle(ctx context.Context, cutoff time.Time) (int, error)
}
