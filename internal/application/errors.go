package application

import "errors"

var (
	// ErrForbidden is returned when a valid non-admin credential attempts a
	// schedule mutation.
	ErrForbidden = errors.New("application: only administrators may modify the schedule")
	// ErrNotFound is returned when the targeted activity does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrDuplicateActivity is returned when a created activity matches the
	// title, weekday and time range of an existing one.
	ErrDuplicateActivity = errors.New("application: duplicate activity")
	// ErrInvalidCredentials is returned for login attempts with an unknown
	// email or a wrong password, indistinguishably.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
