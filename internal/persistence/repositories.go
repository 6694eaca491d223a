package persistence

import (
	"context"
	"time"
)

// RotationRepository exposes CRUD operations for rotation definitions.
type RotationRepository interface {
	CreateRotation(ctx context.Context, rotation Rotation) error
	UpdateRotation(ctx context.Context, rotation Rotation) error
	GetRotation(ctx context.Context, id string) (Rotation, error)
	ListRotations(ctx context.Context) ([]Rotation, error)
	DeleteRotation(ctx context.Context, id string) error
}

// OverrideFilter narrows override queries. Window bounds select overrides
// whose interval intersects (EndsAfter, StartsBefore).
type OverrideFilter struct {
	RotationID   string
	EndsAfter    *time.Time
	StartsBefore *time.Time
}

// OverrideRepository stores override entries attached to rotations.
type OverrideRepository interface {
	CreateOverride(ctx context.Context, override Override) error
	GetOverride(ctx context.Context, id string) (Override, error)
	ListOverrides(ctx context.Context, filter OverrideFilter) ([]Override, error)
	DeleteOverride(ctx context.Context, id string) error
}
