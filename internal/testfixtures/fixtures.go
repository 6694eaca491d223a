// Package testfixtures provides deterministic clocks, identifier generators,
// and domain fixtures shared across test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/oncall-roster/internal/application"
	"github.com/example/oncall-roster/internal/persistence"
	"github.com/example/oncall-roster/internal/rota"
)

var (
	rotationCounter uint64
	overrideCounter uint64
)

var referenceTime = time.Date(2025, time.November, 7, 17, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// doubles as the default handover anchor.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Rotation fixtures ---------------------------

// RotationFixture represents a deterministic rotation record that can be
// materialised for application or persistence tests.
type RotationFixture struct {
	ID           string
	Name         string
	Users        []string
	Anchor       time.Time
	IntervalDays int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RotationOption configures the generated rotation fixture.
type RotationOption func(*RotationFixture)

// NewRotationFixture returns a deterministic weekly rotation with optional
// overrides applied.
func NewRotationFixture(opts ...RotationOption) RotationFixture {
	idx := atomic.AddUint64(&rotationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RotationFixture{
		ID:           fmt.Sprintf("rotation-%03d", idx),
		Name:         fmt.Sprintf("Rotation %03d", idx),
		Users:        []string{"alice", "bob", "charlie"},
		Anchor:       referenceTime,
		IntervalDays: 7,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRotationID overrides the generated rotation ID.
func WithRotationID(id string) RotationOption {
	return func(f *RotationFixture) {
		f.ID = id
	}
}

// WithRotationName overrides the generated rotation name.
func WithRotationName(name string) RotationOption {
	return func(f *RotationFixture) {
		f.Name = name
	}
}

// WithRotationUsers overrides the rotation membership.
func WithRotationUsers(users ...string) RotationOption {
	return func(f *RotationFixture) {
		f.Users = users
	}
}

// WithRotationAnchor overrides the handover anchor.
func WithRotationAnchor(anchor time.Time) RotationOption {
	return func(f *RotationFixture) {
		f.Anchor = anchor
	}
}

// WithRotationIntervalDays overrides the handover interval.
func WithRotationIntervalDays(days int) RotationOption {
	return func(f *RotationFixture) {
		f.IntervalDays = days
	}
}

// WithRotationTimestamps overrides the bookkeeping timestamps.
func WithRotationTimestamps(created, updated time.Time) RotationOption {
	return func(f *RotationFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application converts the fixture into its application model.
func (f RotationFixture) Application() application.Rotation {
	return application.Rotation{
		ID:           f.ID,
		Name:         f.Name,
		Users:        append([]string(nil), f.Users...),
		Anchor:       f.Anchor,
		IntervalDays: f.IntervalDays,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Persistence converts the fixture into its persistence model.
func (f RotationFixture) Persistence() persistence.Rotation {
	return persistence.Rotation{
		ID:           f.ID,
		Name:         f.Name,
		Users:        append([]string(nil), f.Users...),
		Anchor:       f.Anchor,
		IntervalDays: f.IntervalDays,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input converts the fixture into the application input payload.
func (f RotationFixture) Input() application.RotationInput {
	return application.RotationInput{
		Name:         f.Name,
		Users:        append([]string(nil), f.Users...),
		Anchor:       f.Anchor,
		IntervalDays: f.IntervalDays,
	}
}

// Rota converts the fixture into the rendering engine's rotation.
func (f RotationFixture) Rota() rota.Rotation {
	return rota.Rotation{
		Users:    append([]string(nil), f.Users...),
		Anchor:   f.Anchor,
		Interval: time.Duration(f.IntervalDays) * 24 * time.Hour,
	}
}

// --------------------------- Override fixtures ---------------------------

// OverrideFixture represents a deterministic override record.
type OverrideFixture struct {
	ID         string
	RotationID string
	User       string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OverrideOption configures the generated override fixture.
type OverrideOption func(*OverrideFixture)

// NewOverrideFixture returns a deterministic one-day override with optional
// overrides applied. Consecutive fixtures occupy consecutive days so they do
// not overlap by default.
func NewOverrideFixture(opts ...OverrideOption) OverrideFixture {
	idx := atomic.AddUint64(&overrideCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := OverrideFixture{
		ID:         fmt.Sprintf("override-%03d", idx),
		RotationID: "rotation-001",
		User:       "dave",
		Start:      start,
		End:        start.Add(24 * time.Hour),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOverrideID overrides the generated override ID.
func WithOverrideID(id string) OverrideOption {
	return func(f *OverrideFixture) {
		f.ID = id
	}
}

// WithOverrideRotation attaches the override to a specific rotation.
func WithOverrideRotation(rotationID string) OverrideOption {
	return func(f *OverrideFixture) {
		f.RotationID = rotationID
	}
}

// WithOverrideUser overrides the covering user.
func WithOverrideUser(user string) OverrideOption {
	return func(f *OverrideFixture) {
		f.User = user
	}
}

// WithOverrideWindow overrides the covered interval.
func WithOverrideWindow(start, end time.Time) OverrideOption {
	return func(f *OverrideFixture) {
		f.Start = start
		f.End = end
	}
}

// WithOverrideTimestamps overrides the bookkeeping timestamps.
func WithOverrideTimestamps(created, updated time.Time) OverrideOption {
	return func(f *OverrideFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application converts the fixture into its application model.
func (f OverrideFixture) Application() application.Override {
	return application.Override{
		ID:         f.ID,
		RotationID: f.RotationID,
		User:       f.User,
		Start:      f.Start,
		End:        f.End,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// Persistence converts the fixture into its persistence model.
func (f OverrideFixture) Persistence() persistence.Override {
	return persistence.Override{
		ID:         f.ID,
		RotationID: f.RotationID,
		User:       f.User,
		Start:      f.Start,
		End:        f.End,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// Input converts the fixture into the application input payload.
func (f OverrideFixture) Input() application.OverrideInput {
	return application.OverrideInput{
		RotationID: f.RotationID,
		User:       f.User,
		Start:      f.Start,
		End:        f.End,
	}
}

// Rota converts the fixture into the rendering engine's override.
func (f OverrideFixture) Rota() rota.Override {
	return rota.Override{
		User:  f.User,
		Start: f.Start,
		End:   f.End,
	}
}
