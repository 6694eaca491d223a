package application

import "time"

// Rotation is the application-level view of a stored rotation definition.
type Rotation struct {
	ID           string
	Name         string
	Users        []string
	Anchor       time.Time
	IntervalDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RotationInput carries caller-supplied rotation fields.
type RotationInput struct {
	Name         string
	Users        []string
	Anchor       time.Time
	IntervalDays int
}

// Override is the application-level view of a stored override.
type Override struct {
	ID         string
	RotationID string
	User       string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OverrideInput carries caller-supplied override fields.
type OverrideInput struct {
	RotationID string
	User       string
	Start      time.Time
	End        time.Time
}

// Segment is one contiguous single-user span of a rendered timeline.
type Segment struct {
	User  string
	Start time.Time
	End   time.Time
}

// OverlapWarning flags a pair of overrides that overlap without nesting.
// Rendering stays deterministic for such inputs, but the earlier override's
// tail is reassigned to the later one, which is usually unintended.
type OverlapWarning struct {
	EarlierUser string
	LaterUser   string
	From        time.Time
	Until       time.Time
	Message     string
}

// Timeline is the result of rendering a rotation over a query window.
type Timeline struct {
	Segments []Segment
	Warnings []OverlapWarning
}

// RenderTimelineParams bounds a timeline render request.
type RenderTimelineParams struct {
	RotationID string
	From       time.Time
	Until      time.Time
}
