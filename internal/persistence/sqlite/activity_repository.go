package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/activity-portal/internal/persistence"
)

// CreateActivity inserts a new activity template. The table's unique index
// on (title, weekday, start_hour, end_hour) is the authoritative guard
// against duplicate templates, closing the race left open by the
// application-level conflict check.
func (s *Storage) CreateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" {
		return fmt.Errorf("sqlite: activity id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, title, description, weekday, start_hour, end_hour, location, instructor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.Title,
		activity.Description,
		activity.Weekday,
		activity.StartHour,
		activity.EndHour,
		activity.Location,
		activity.Instructor,
		activity.CreatedAt.UTC().Format(time.RFC3339),
		activity.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateActivity replaces the mutable fields of an existing activity.
func (s *Storage) UpdateActivity(ctx context.Context, activity persistence.Activity) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE activities
		SET title = ?, description = ?, weekday = ?, start_hour = ?, end_hour = ?, location = ?, instructor = ?, updated_at = ?
		WHERE id = ?`,
		activity.Title,
		activity.Description,
		activity.Weekday,
		activity.StartHour,
		activity.EndHour,
		activity.Location,
		activity.Instructor,
		activity.UpdatedAt.UTC().Format(time.RFC3339),
		activity.ID,
	)
	if err != nil {
		return mapError(err)
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

// GetActivity retrieves an activity by ID.
func (s *Storage) GetActivity(ctx context.Context, id string) (persistence.Activity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, weekday, start_hour, end_hour, location, instructor, created_at, updated_at
		FROM activities WHERE id = ?`, id)

	activity, err := scanActivity(row)
	if err != nil {
		return persistence.Activity{}, mapError(err)
	}
	return activity, nil
}

// ListActivities returns all activity templates in insertion order.
func (s *Storage) ListActivities(ctx context.Context) ([]persistence.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, weekday, start_hour, end_hour, location, instructor, created_at, updated_at
		FROM activities ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var activities []persistence.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// DeleteActivity removes an activity permanently.
func (s *Storage) DeleteActivity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (persistence.Activity, error) {
	var activity persistence.Activity
	var createdAt, updatedAt string

	err := row.Scan(
		&activity.ID,
		&activity.Title,
		&activity.Description,
		&activity.Weekday,
		&activity.StartHour,
		&activity.EndHour,
		&activity.Location,
		&activity.Instructor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Activity{}, err
	}

	if activity.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Activity{}, err
	}
	if activity.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Activity{}, err
	}
	return activity, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return t, nil
}
