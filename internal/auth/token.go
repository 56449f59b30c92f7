// Package auth mints and verifies the signed session credentials that gate
// schedule mutations. Credentials are self-contained: the server keeps no
// session state and offers no early revocation, so expiry is the only
// built-in termination.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no credential accompanies a request.
	ErrMissingToken = errors.New("auth: missing token")
	// ErrInvalidToken is returned when the credential is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpired is returned when a well-signed credential is past its
	// validity window.
	ErrExpired = errors.New("auth: token expired")
)

// Claims is the typed view of a verified credential.
type Claims struct {
	SubjectID string
	Name      string
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire-level claims shape used for JWT encoding.
type tokenClaims struct {
	jwt.RegisteredClaims
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

const signingMethod = "HS256"

// Verifier checks credentials against the server's symmetric secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier constructs a Verifier. When now is nil, time.Now is used.
func NewVerifier(secret []byte, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{secret: secret, now: now}
}

// Verify parses the token, checks its signature and expiry, and returns the
// embedded claims. It is pure given the secret: no lookup, no revocation
// list. Expiry is checked only after the signature verifies, so a forged
// token always reports ErrInvalidToken rather than leaking claim contents.
func (v *Verifier) Verify(token string) (Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return Claims{}, fmt.Errorf("auth: verifier secret not configured")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, ErrMissingToken
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(trimmed, &parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	if !parsed.ExpiresAt.Time.After(v.now()) {
		return Claims{}, ErrExpired
	}

	claims := Claims{
		SubjectID: parsed.Subject,
		Name:      parsed.Name,
		IsAdmin:   parsed.IsAdmin,
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	return claims, nil
}

// Issuer mints credentials at login.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer with the given validity window. A
// non-positive ttl falls back to 24 hours.
func NewIssuer(secret []byte, ttl time.Duration, now func() time.Time) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: secret, ttl: ttl, now: now}
}

// Issue signs a credential for the subject and returns it with its expiry.
func (i *Issuer) Issue(subjectID, name string, isAdmin bool) (string, time.Time, error) {
	if i == nil || len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("auth: issuer secret not configured")
	}
	if subjectID == "" {
		return "", time.Time{}, fmt.Errorf("auth: subject id is required")
	}

	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:    name,
		IsAdmin: isAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, expiresAt, nil
}
