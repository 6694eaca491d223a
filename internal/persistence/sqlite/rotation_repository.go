package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/oncall-roster/internal/persistence"
)

// CreateRotation inserts a new rotation definition.
func (s *Storage) CreateRotation(ctx context.Context, rotation persistence.Rotation) error {
	users, err := json.Marshal(rotation.Users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rotations (id, name, users, anchor, interval_days, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rotation.ID,
		rotation.Name,
		string(users),
		toMillis(rotation.Anchor),
		rotation.IntervalDays,
		toMillis(rotation.CreatedAt),
		toMillis(rotation.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return persistence.ErrAlreadyExists
	}
	return err
}

// UpdateRotation replaces an existing rotation definition.
func (s *Storage) UpdateRotation(ctx context.Context, rotation persistence.Rotation) error {
	users, err := json.Marshal(rotation.Users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE rotations SET name = ?, users = ?, anchor = ?, interval_days = ?, updated_at = ? WHERE id = ?`,
		rotation.Name,
		string(users),
		toMillis(rotation.Anchor),
		rotation.IntervalDays,
		toMillis(rotation.UpdatedAt),
		rotation.ID,
	)
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

// GetRotation retrieves a rotation by ID.
func (s *Storage) GetRotation(ctx context.Context, id string) (persistence.Rotation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, users, anchor, interval_days, created_at, updated_at FROM rotations WHERE id = ?`, id)
	return scanRotation(row)
}

// ListRotations returns all rotations ordered by creation time.
func (s *Storage) ListRotations(ctx context.Context) ([]persistence.Rotation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, users, anchor, interval_days, created_at, updated_at FROM rotations ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rotations []persistence.Rotation
	for rows.Next() {
		rotation, err := scanRotation(rows)
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, rotation)
	}
	return rotations, rows.Err()
}

// DeleteRotation removes a rotation and its overrides atomically.
func (s *Storage) DeleteRotation(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM overrides WHERE rotation_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM rotations WHERE id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if affected == 0 {
		_ = tx.Rollback()
		return persistence.ErrNotFound
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRotation(row rowScanner) (persistence.Rotation, error) {
	var (
		rotation  persistence.Rotation
		users     string
		anchor    int64
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&rotation.ID, &rotation.Name, &users, &anchor, &rotation.IntervalDays, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Rotation{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Rotation{}, err
	}
	if err := json.Unmarshal([]byte(users), &rotation.Users); err != nil {
		return persistence.Rotation{}, fmt.Errorf("decode users: %w", err)
	}
	rotation.Anchor = fromMillis(anchor)
	rotation.CreatedAt = fromMillis(createdAt)
	rotation.UpdatedAt = fromMillis(updatedAt)
	return rotation, nil
}
