package rota

import (
	"errors"
	"time"
)

// Rotation describes a cyclic on-call rotation: an ordered user list, the
// instant at which Users[0] begins a shift, and a fixed handover cadence.
type Rotation struct {
	Users    []string
	Anchor   time.Time
	Interval time.Duration
}

// Override is a bounded assignment that preempts the base rotation (and any
// override still active beneath it) for its duration.
type Override struct {
	User  string
	Start time.Time
	End   time.Time
}

// Segment is one maximal contiguous single-user span of a rendered timeline.
type Segment struct {
	User  string
	Start time.Time
	End   time.Time
}

// ErrNoUsers indicates the rotation has an empty user list.
var ErrNoUsers = errors.New("rota: rotation requires at least one user")

// ErrInvalidInterval indicates the handover interval is not positive.
var ErrInvalidInterval = errors.New("rota: rotation interval must be positive")

// Validate reports structural problems with the rotation definition.
func Validate(r Rotation) error {
	if len(r.Users) == 0 {
		return ErrNoUsers
	}
	if r.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// UserAt returns the user on base rotation duty at the given instant,
// ignoring overrides. Instants before the anchor project the rotation
// backwards, so the user preceding Users[0] in cycle order is Users[N-1].
//
// Precondition: the rotation has at least one user and a positive interval.
func UserAt(r Rotation, at time.Time) string {
	period := floorDiv(at.Sub(r.Anchor), r.Interval)
	index := period % int64(len(r.Users))
	if index < 0 {
		index += int64(len(r.Users))
	}
	return r.Users[index]
}

// floorDiv divides d by unit rounding toward negative infinity, unlike Go's
// built-in division which truncates toward zero.
func floorDiv(d, unit time.Duration) int64 {
	quotient := int64(d / unit)
	if d%unit != 0 && (d < 0) != (unit < 0) {
		quotient--
	}
	return quotient
}
