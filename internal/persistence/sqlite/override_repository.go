package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/oncall-roster/internal/persistence"
)

// CreateOverride inserts a new override. The referenced rotation must exist.
func (s *Storage) CreateOverride(ctx context.Context, override persistence.Override) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rotations WHERE id = ?`, override.RotationID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return persistence.ErrNotFound
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overrides (id, rotation_id, user, start_at, end_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		override.ID,
		override.RotationID,
		override.User,
		toMillis(override.Start),
		toMillis(override.End),
		toMillis(override.CreatedAt),
		toMillis(override.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return persistence.ErrAlreadyExists
	}
	return err
}

// GetOverride retrieves an override by ID.
func (s *Storage) GetOverride(ctx context.Context, id string) (persistence.Override, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, rotation_id, user, start_at, end_at, created_at, updated_at FROM overrides WHERE id = ?`, id)
	return scanOverride(row)
}

// ListOverrides returns overrides matching the filter in start order. Window
// bounds keep only overrides whose interval intersects the window, using the
// same open/closed convention as the rendering engine.
func (s *Storage) ListOverrides(ctx context.Context, filter persistence.OverrideFilter) ([]persistence.Override, error) {
	query := `SELECT id, rotation_id, user, start_at, end_at, created_at, updated_at FROM overrides WHERE rotation_id = ?`
	args := []any{filter.RotationID}
	if filter.EndsAfter != nil {
		query += ` AND end_at > ?`
		args = append(args, toMillis(*filter.EndsAfter))
	}
	if filter.StartsBefore != nil {
		query += ` AND start_at < ?`
		args = append(args, toMillis(*filter.StartsBefore))
	}
	query += ` ORDER BY start_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []persistence.Override
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

// DeleteOverride removes an override by ID.
func (s *Storage) DeleteOverride(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM overrides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanOverride(row rowScanner) (persistence.Override, error) {
	var (
		override  persistence.Override
		start     int64
		end       int64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&override.ID, &override.RotationID, &override.User, &start, &end, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Override{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Override{}, err
	}
	override.Start = fromMillis(start)
	override.End = fromMillis(end)
	override.CreatedAt = fromMillis(createdAt)
	override.UpdatedAt = fromMillis(updatedAt)
	return override, nil
}
