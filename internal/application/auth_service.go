package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/activity-portal/internal/auth"
	"github.com/example/activity-portal/internal/persistence"
)

// UserRepository captures the account lookups needed for login.
type UserRepository interface {
	CreateUser(ctx context.Context, user persistence.User) error
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
}

// CredentialIssuer mints a signed session credential for a subject.
type CredentialIssuer interface {
	Issue(subjectID, name string, isAdmin bool) (string, time.Time, error)
}

// AuthService authenticates portal accounts and mints their session
// credentials. The credential is self-contained; the service keeps no
// session state after login.
type AuthService struct {
	users          UserRepository
	issuer         CredentialIssuer
	verifyPassword func(hashedPassword, password string) error
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users UserRepository, issuer CredentialIssuer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:          users,
		issuer:         issuer,
		verifyPassword: auth.VerifyPassword,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates the email/password pair and issues a signed credential.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}
	if s.issuer == nil {
		err = fmt.Errorf("credential issuer not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "login succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	record, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(record.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	token, expiresAt, err := s.issuer.Issue(record.ID, record.DisplayName, record.IsAdmin)
	if err != nil {
		return
	}

	result = LoginResult{
		User: User{
			ID:          record.ID,
			Email:       record.Email,
			DisplayName: record.DisplayName,
			IsAdmin:     record.IsAdmin,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return
}

// EnsureAdmin provisions an administrator account when none exists for the
// email. It is idempotent and intended for first-run bootstrap.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, displayName, password string) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	email = strings.TrimSpace(strings.ToLower(email))
	logger := s.loggerWith(ctx, "EnsureAdmin", "email", email)

	if email == "" || password == "" {
		return fmt.Errorf("admin bootstrap requires email and password")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := auth.CreatePasswordHash(password)
	if err != nil {
		return err
	}

	now := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		Email:        email,
		DisplayName:  displayName,
		IsAdmin:      true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent bootstrap may have won the insert.
		if errors.Is(err, persistence.ErrDuplicate) {
			return nil
		}
		return err
	}

	logger.With("user_id", user.ID).InfoContext(ctx, "administrator account provisioned")
	return nil
}
