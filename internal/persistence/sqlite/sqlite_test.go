package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/activity-portal/internal/persistence"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		if err := storage.Close(); err != nil {
			t.Errorf("failed to close storage: %v", err)
		}
	})

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return storage
}

func sampleActivity(id, title string, createdAt time.Time) persistence.Activity {
	return persistence.Activity{
		ID:         id,
		Title:      title,
		Weekday:    "Tuesday",
		StartHour:  "14:00",
		EndHour:    "16:00",
		Location:   "Sala 2",
		Instructor: "Marcos",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestActivityRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()
	createdAt := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	activity := sampleActivity("a-1", "Reforço", createdAt)
	activity.Description = "Aulas de reforço escolar"

	if err := storage.CreateActivity(ctx, activity); err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}

	got, err := storage.GetActivity(ctx, "a-1")
	if err != nil {
		t.Fatalf("failed to get activity: %v", err)
	}
	if got.Title != "Reforço" || got.Weekday != "Tuesday" || got.StartHour != "14:00" || got.EndHour != "16:00" {
		t.Fatalf("unexpected activity: %+v", got)
	}
	if got.Description != "Aulas de reforço escolar" || got.Location != "Sala 2" || got.Instructor != "Marcos" {
		t.Fatalf("optional fields did not survive the round trip: %+v", got)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, createdAt)
	}
}

func TestActivityRepository_UniqueTupleIsEnforced(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()
	createdAt := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	if err := storage.CreateActivity(ctx, sampleActivity("a-1", "Reforço", createdAt)); err != nil {
		t.Fatalf("failed to create first activity: %v", err)
	}

	err := storage.CreateActivity(ctx, sampleActivity("a-2", "Reforço", createdAt.Add(time.Minute)))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for identical tuple, got %v", err)
	}

	// A different title in the same slot is a distinct template.
	if err := storage.CreateActivity(ctx, sampleActivity("a-3", "Capoeira", createdAt.Add(time.Minute))); err != nil {
		t.Fatalf("different title must not collide: %v", err)
	}
}

func TestActivityRepository_ListKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	first := sampleActivity("a-1", "Reforço", base)
	second := persistence.Activity{
		ID: "a-2", Title: "Dança", Weekday: "Thursday", StartHour: "09:00", EndHour: "10:00",
		CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	}

	if err := storage.CreateActivity(ctx, first); err != nil {
		t.Fatalf("failed to create first: %v", err)
	}
	if err := storage.CreateActivity(ctx, second); err != nil {
		t.Fatalf("failed to create second: %v", err)
	}

	activities, err := storage.ListActivities(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].ID != "a-1" || activities[1].ID != "a-2" {
		t.Fatalf("unexpected order: %s, %s", activities[0].ID, activities[1].ID)
	}
}

func TestActivityRepository_UpdateReplacesFields(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	if err := storage.CreateActivity(ctx, sampleActivity("a-1", "Reforço", base)); err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	updated := sampleActivity("a-1", "Reforço Escolar", base)
	updated.Weekday = "Friday"
	updated.StartHour = "15:00"
	updated.EndHour = "17:00"
	updated.UpdatedAt = base.Add(time.Hour)

	if err := storage.UpdateActivity(ctx, updated); err != nil {
		t.Fatalf("failed to update: %v", err)
	}

	got, err := storage.GetActivity(ctx, "a-1")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got.Title != "Reforço Escolar" || got.Weekday != "Friday" || got.StartHour != "15:00" {
		t.Fatalf("fields not replaced: %+v", got)
	}
	if !got.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("updated at = %v, want %v", got.UpdatedAt, base.Add(time.Hour))
	}
}

func TestActivityRepository_MissingRecords(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()

	if _, err := storage.GetActivity(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if err := storage.DeleteActivity(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
	err := storage.UpdateActivity(ctx, sampleActivity("missing", "Reforço", time.Now()))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from update, got %v", err)
	}
}

func TestActivityRepository_DeleteIsPermanent(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()

	if err := storage.CreateActivity(ctx, sampleActivity("a-1", "Reforço", time.Now())); err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := storage.DeleteActivity(ctx, "a-1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := storage.GetActivity(ctx, "a-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	storage := openTestStorage(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC)

	user := persistence.User{
		ID:           "u-1",
		Email:        "Admin@Example.org",
		DisplayName:  "Coordenadora",
		IsAdmin:      true,
		PasswordHash: "$argon2id$...",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := storage.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	got, err := storage.GetUserByEmail(ctx, "admin@example.org")
	if err != nil {
		t.Fatalf("failed to get by email: %v", err)
	}
	if got.ID != "u-1" || !got.IsAdmin || got.DisplayName != "Coordenadora" {
		t.Fatalf("unexpected user: %+v", got)
	}

	byID, err := storage.GetUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("failed to get by id: %v", err)
	}
	if byID.Email != "admin@example.org" {
		t.Fatalf("email not lowercased: %q", byID.Email)
	}

	duplicate := user
	duplicate.ID = "u-2"
	if err := storage.CreateUser(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused email, got %v", err)
	}
}
