package persistence

import "time"

// User represents a portal account able to log in. Only administrators may
// mutate the activity schedule.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activity represents a weekly recurrence template stored in persistence.
// Weekday holds an English weekday label; StartHour and EndHour hold HH:MM
// wall-clock strings in the portal's canonical timezone.
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
