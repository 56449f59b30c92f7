package application

import "time"

// Activity represents a weekly recurring activity template.
//
// The template carries no calendar date: Weekday holds an English weekday
// label and StartHour/EndHour hold HH:MM wall-clock strings interpreted in
// the portal's canonical timezone.
type Activity struct {
	ID          string
	Title       string
	Description string
	Weekday     string
	StartHour   string
	EndHour     string
	Location    string
	Instructor  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActivityInput captures caller provided activity fields. Updates replace
// the stored fields wholesale.
type ActivityInput struct {
	Title       string
	Description string
	Weekday     string
	StartHour   string
	EndHour     string
	Location    string
	Instructor  string
}

// Occurrence pairs an activity with its next concrete start instant. It is
// derived on demand and never persisted.
type Occurrence struct {
	Activity Activity
	Start    time.Time
}

// User represents a portal account as exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
}

// LoginParams captures the data required to authenticate a user.
type LoginParams struct {
	Email    string
	Password string
}

// LoginResult carries the minted credential for a successful login.
type LoginResult struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
