package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/oncall-roster/internal/rota"
)

// RotationRepository captures the persistence interactions needed for
// rotation definitions.
type RotationRepository interface {
	CreateRotation(ctx context.Context, rotation Rotation) (Rotation, error)
	GetRotation(ctx context.Context, id string) (Rotation, error)
	UpdateRotation(ctx context.Context, rotation Rotation) (Rotation, error)
	ListRotations(ctx context.Context) ([]Rotation, error)
	DeleteRotation(ctx context.Context, id string) error
}

// OverrideRepositoryFilter narrows override queries issued to the repository.
type OverrideRepositoryFilter struct {
	RotationID   string
	EndsAfter    *time.Time
	StartsBefore *time.Time
}

// OverrideRepository captures the persistence interactions needed for
// overrides.
type OverrideRepository interface {
	CreateOverride(ctx context.Context, override Override) (Override, error)
	GetOverride(ctx context.Context, id string) (Override, error)
	ListOverrides(ctx context.Context, filter OverrideRepositoryFilter) ([]Override, error)
	DeleteOverride(ctx context.Context, id string) error
}

// RosterService orchestrates validation, persistence and timeline rendering
// for on-call rotations.
type RosterService struct {
	rotations   RotationRepository
	overrides   OverrideRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRosterService wires dependencies for roster operations.
func NewRosterService(rotations RotationRepository, overrides OverrideRepository, idGenerator func() string, now func() time.Time) *RosterService {
	return NewRosterServiceWithLogger(rotations, overrides, idGenerator, now, nil)
}

// NewRosterServiceWithLogger wires dependencies and a structured logger.
func NewRosterServiceWithLogger(rotations RotationRepository, overrides OverrideRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RosterService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RosterService{
		rotations:   rotations,
		overrides:   overrides,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateRotation validates the input before delegating to persistence.
func (s *RosterService) CreateRotation(ctx context.Context, input RotationInput) (Rotation, error) {
	if s == nil || s.rotations == nil {
		return Rotation{}, fmt.Errorf("rotation repository not configured")
	}

	if err := validateRotationInput(input); err != nil {
		return Rotation{}, err
	}

	createdAt := s.now().UTC()
	rotation := Rotation{
		ID:           s.idGenerator(),
		Name:         strings.TrimSpace(input.Name),
		Users:        normalizeUsers(input.Users),
		Anchor:       input.Anchor.UTC(),
		IntervalDays: input.IntervalDays,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	persisted, err := s.rotations.CreateRotation(ctx, rotation)
	if err != nil {
		serviceLogger(ctx, s.logger, "roster", "create_rotation").ErrorContext(ctx, "failed to create rotation", "error", err, "error_kind", ErrorKind(err))
		return Rotation{}, err
	}
	return persisted, nil
}

// GetRotation retrieves a rotation by ID.
func (s *RosterService) GetRotation(ctx context.Context, id string) (Rotation, error) {
	if s == nil || s.rotations == nil {
		return Rotation{}, fmt.Errorf("rotation repository not configured")
	}
	return s.rotations.GetRotation(ctx, id)
}

// ListRotations returns all stored rotations.
func (s *RosterService) ListRotations(ctx context.Context) ([]Rotation, error) {
	if s == nil || s.rotations == nil {
		return nil, fmt.Errorf("rotation repository not configured")
	}
	return s.rotations.ListRotations(ctx)
}

// UpdateRotation validates the input and replaces the stored definition.
func (s *RosterService) UpdateRotation(ctx context.Context, id string, input RotationInput) (Rotation, error) {
	if s == nil || s.rotations == nil {
		return Rotation{}, fmt.Errorf("rotation repository not configured")
	}

	if err := validateRotationInput(input); err != nil {
		return Rotation{}, err
	}

	current, err := s.rotations.GetRotation(ctx, id)
	if err != nil {
		return Rotation{}, err
	}

	current.Name = strings.TrimSpace(input.Name)
	current.Users = normalizeUsers(input.Users)
	current.Anchor = input.Anchor.UTC()
	current.IntervalDays = input.IntervalDays
	current.UpdatedAt = s.now().UTC()

	persisted, err := s.rotations.UpdateRotation(ctx, current)
	if err != nil {
		serviceLogger(ctx, s.logger, "roster", "update_rotation", "rotation_id", id).ErrorContext(ctx, "failed to update rotation", "error", err, "error_kind", ErrorKind(err))
		return Rotation{}, err
	}
	return persisted, nil
}

// DeleteRotation removes a rotation and its overrides.
func (s *RosterService) DeleteRotation(ctx context.Context, id string) error {
	if s == nil || s.rotations == nil {
		return fmt.Errorf("rotation repository not configured")
	}
	return s.rotations.DeleteRotation(ctx, id)
}

// CreateOverride validates the input and attaches the override to its
// rotation.
func (s *RosterService) CreateOverride(ctx context.Context, input OverrideInput) (Override, error) {
	if s == nil || s.overrides == nil || s.rotations == nil {
		return Override{}, fmt.Errorf("override repository not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.User) == "" {
		vErr.add("user", "user is required")
	}
	if input.Start.IsZero() {
		vErr.add("start_at", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end_at", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("end_at", "end must be after start")
	}
	if vErr.HasErrors() {
		return Override{}, vErr
	}

	if _, err := s.rotations.GetRotation(ctx, input.RotationID); err != nil {
		return Override{}, err
	}

	createdAt := s.now().UTC()
	override := Override{
		ID:         s.idGenerator(),
		RotationID: input.RotationID,
		User:       strings.TrimSpace(input.User),
		Start:      input.Start.UTC(),
		End:        input.End.UTC(),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	persisted, err := s.overrides.CreateOverride(ctx, override)
	if err != nil {
		serviceLogger(ctx, s.logger, "roster", "create_override", "rotation_id", input.RotationID).ErrorContext(ctx, "failed to create override", "error", err, "error_kind", ErrorKind(err))
		return Override{}, err
	}
	return persisted, nil
}

// ListOverrides returns all overrides attached to a rotation.
func (s *RosterService) ListOverrides(ctx context.Context, rotationID string) ([]Override, error) {
	if s == nil || s.overrides == nil || s.rotations == nil {
		return nil, fmt.Errorf("override repository not configured")
	}
	if _, err := s.rotations.GetRotation(ctx, rotationID); err != nil {
		return nil, err
	}
	return s.overrides.ListOverrides(ctx, OverrideRepositoryFilter{RotationID: rotationID})
}

// DeleteOverride removes an override, confirming it belongs to the rotation
// named by the caller.
func (s *RosterService) DeleteOverride(ctx context.Context, rotationID, overrideID string) error {
	if s == nil || s.overrides == nil {
		return fmt.Errorf("override repository not configured")
	}
	override, err := s.overrides.GetOverride(ctx, overrideID)
	if err != nil {
		return err
	}
	if override.RotationID != rotationID {
		return ErrNotFound
	}
	return s.overrides.DeleteOverride(ctx, overrideID)
}

// RenderTimeline computes the on-call timeline for a stored rotation over
// the window [From, Until). Overlapping-but-not-nested overrides do not fail
// the render; they are reported as warnings alongside the segments.
func (s *RosterService) RenderTimeline(ctx context.Context, params RenderTimelineParams) (Timeline, error) {
	if s == nil || s.rotations == nil || s.overrides == nil {
		return Timeline{}, fmt.Errorf("repositories not configured")
	}

	vErr := &ValidationError{}
	if params.From.IsZero() {
		vErr.add("from", "from is required")
	}
	if params.Until.IsZero() {
		vErr.add("until", "until is required")
	}
	if !params.From.IsZero() && !params.Until.IsZero() && !params.From.Before(params.Until) {
		vErr.add("until", "until must be after from")
	}
	if vErr.HasErrors() {
		return Timeline{}, vErr
	}

	rotation, err := s.rotations.GetRotation(ctx, params.RotationID)
	if err != nil {
		return Timeline{}, err
	}

	from := params.From.UTC()
	until := params.Until.UTC()
	stored, err := s.overrides.ListOverrides(ctx, OverrideRepositoryFilter{
		RotationID:   params.RotationID,
		EndsAfter:    &from,
		StartsBefore: &until,
	})
	if err != nil {
		return Timeline{}, err
	}

	overrides := make([]rota.Override, 0, len(stored))
	for _, o := range stored {
		overrides = append(overrides, rota.Override{User: o.User, Start: o.Start, End: o.End})
	}

	engineRotation := rota.Rotation{
		Users:    rotation.Users,
		Anchor:   rotation.Anchor,
		Interval: time.Duration(rotation.IntervalDays) * 24 * time.Hour,
	}
	if err := rota.Validate(engineRotation); err != nil {
		inner := &ValidationError{}
		inner.add("users", "rotation definition is not renderable: "+err.Error())
		return Timeline{}, inner
	}

	segments, err := rota.Render(engineRotation, overrides, from, until)
	if err != nil {
		serviceLogger(ctx, s.logger, "roster", "render_timeline", "rotation_id", params.RotationID).ErrorContext(ctx, "failed to render timeline", "error", err, "error_kind", ErrorKind(err))
		return Timeline{}, err
	}

	timeline := Timeline{Segments: make([]Segment, 0, len(segments))}
	for _, seg := range segments {
		timeline.Segments = append(timeline.Segments, Segment{User: seg.User, Start: seg.Start, End: seg.End})
	}
	for _, overlap := range rota.DetectOverlaps(overrides) {
		timeline.Warnings = append(timeline.Warnings, OverlapWarning{
			EarlierUser: overlap.Earlier.User,
			LaterUser:   overlap.Later.User,
			From:        overlap.Later.Start,
			Until:       overlap.Earlier.End,
			Message:     "overrides overlap without nesting; the earlier override's remainder is reassigned to the later one",
		})
	}

	serviceLogger(ctx, s.logger, "roster", "render_timeline", "rotation_id", params.RotationID).DebugContext(ctx, "timeline rendered",
		"segments", len(timeline.Segments), "warnings", len(timeline.Warnings))
	return timeline, nil
}

func validateRotationInput(input RotationInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	users := normalizeUsers(input.Users)
	if len(users) == 0 {
		vErr.add("users", "at least one user is required")
	}
	if input.Anchor.IsZero() {
		vErr.add("handover_start_at", "handover start is required")
	}
	if input.IntervalDays <= 0 {
		vErr.add("handover_interval_days", "handover interval must be a positive number of days")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// normalizeUsers trims blank entries while preserving rotation order.
// Duplicates are kept: a user may legitimately hold two slots in a cycle.
func normalizeUsers(users []string) []string {
	normalized := make([]string, 0, len(users))
	for _, user := range users {
		trimmed := strings.TrimSpace(user)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
