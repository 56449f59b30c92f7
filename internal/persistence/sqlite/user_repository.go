package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/activity-portal/internal/persistence"
)

// CreateUser inserts a new portal account. Emails are stored lowercased and
// are unique.
func (s *Storage) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return fmt.Errorf("sqlite: user id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, is_admin, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		strings.ToLower(user.Email),
		user.DisplayName,
		boolToInt(user.IsAdmin),
		user.PasswordHash,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetUser retrieves an account by ID.
func (s *Storage) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, is_admin, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves an account by its lowercased email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, is_admin, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, strings.ToLower(email))
	return scanUser(row)
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var isAdmin int
	var createdAt, updatedAt string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&isAdmin,
		&user.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}

	user.IsAdmin = isAdmin != 0
	if user.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
