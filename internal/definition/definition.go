// Package definition loads schedule and override documents from JSON or YAML
// files and converts them into engine inputs. All timestamps are RFC 3339
// instants normalized to UTC before any engine logic runs.
package definition

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-roster/internal/rota"
)

// Rotation mirrors the on-disk schedule document.
type Rotation struct {
	Users                []string `json:"users" yaml:"users"`
	HandoverStartAt      string   `json:"handover_start_at" yaml:"handover_start_at"`
	HandoverIntervalDays int      `json:"handover_interval_days" yaml:"handover_interval_days"`
}

// Override mirrors one entry of the on-disk overrides document.
type Override struct {
	User    string `json:"user" yaml:"user"`
	StartAt string `json:"start_at" yaml:"start_at"`
	EndAt   string `json:"end_at" yaml:"end_at"`
}

// ParseTime parses an ISO 8601 / RFC 3339 instant, including the trailing Z
// UTC designator, and normalizes it to UTC.
func ParseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: must be ISO 8601 (e.g. 2025-11-07T17:00:00Z)", value)
	}
	return parsed.UTC(), nil
}

// ToRota validates the document and converts it to an engine rotation.
func (r Rotation) ToRota() (rota.Rotation, error) {
	if len(r.Users) == 0 {
		return rota.Rotation{}, errors.New("schedule must contain at least one user")
	}
	if r.HandoverStartAt == "" {
		return rota.Rotation{}, errors.New("schedule is missing required field handover_start_at")
	}
	if r.HandoverIntervalDays <= 0 {
		return rota.Rotation{}, errors.New("handover_interval_days must be a positive integer")
	}

	anchor, err := ParseTime(r.HandoverStartAt)
	if err != nil {
		return rota.Rotation{}, fmt.Errorf("handover_start_at: %w", err)
	}

	return rota.Rotation{
		Users:    append([]string(nil), r.Users...),
		Anchor:   anchor,
		Interval: time.Duration(r.HandoverIntervalDays) * 24 * time.Hour,
	}, nil
}

// ToRota validates the document and converts it to an engine override.
func (o Override) ToRota() (rota.Override, error) {
	if o.User == "" {
		return rota.Override{}, errors.New("override is missing required field user")
	}
	if o.StartAt == "" {
		return rota.Override{}, errors.New("override is missing required field start_at")
	}
	if o.EndAt == "" {
		return rota.Override{}, errors.New("override is missing required field end_at")
	}

	start, err := ParseTime(o.StartAt)
	if err != nil {
		return rota.Override{}, fmt.Errorf("start_at: %w", err)
	}
	end, err := ParseTime(o.EndAt)
	if err != nil {
		return rota.Override{}, fmt.Errorf("end_at: %w", err)
	}
	if !start.Before(end) {
		return rota.Override{}, fmt.Errorf("override for %s must start before it ends", o.User)
	}

	return rota.Override{User: o.User, Start: start, End: end}, nil
}
