package persistence

import "time"

// Rotation stores an on-call rotation definition: the ordered user cycle,
// the instant the first user takes over, and the handover cadence in days.
type Rotation struct {
	ID           string
	Name         string
	Users        []string
	Anchor       time.Time
	IntervalDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Override stores a bounded on-call override attached to a rotation.
type Override struct {
	ID         string
	RotationID string
	User       string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
