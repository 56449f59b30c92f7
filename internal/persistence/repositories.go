package persistence

import "context"

// ActivityRepository stores weekly activity templates.
//
// ListActivities returns records in insertion order; the occurrence
// projector relies on that order as its tiebreak for equal instants.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// UserRepository stores portal accounts used for login.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}
