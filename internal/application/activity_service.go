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
	"github.com/example/activity-portal/internal/schedule"
)

// ActivityRepository captures the persistence interactions needed by the
// service.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)
	GetActivity(ctx context.Context, id string) (Activity, error)
	UpdateActivity(ctx context.Context, activity Activity) (Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ListActivities(ctx context.Context) ([]Activity, error)
}

// CredentialVerifier validates a presented session credential and extracts
// its claims.
type CredentialVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// ActivityService orchestrates reads and admin-gated mutations over the
// weekly activity schedule. Every mutation flows through the same pipeline:
// credential verification, admin check, input validation, duplicate check
// (create only), then persistence. Reads are never gated.
type ActivityService struct {
	activities  ActivityRepository
	verifier    CredentialVerifier
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewActivityService wires dependencies for schedule operations.
func NewActivityService(activities ActivityRepository, verifier CredentialVerifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActivityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityService{
		activities:  activities,
		verifier:    verifier,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ActivityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ActivityService", operation, attrs...)
}

// ListActivities returns every activity template in store order.
func (s *ActivityService) ListActivities(ctx context.Context) ([]Activity, error) {
	if s == nil || s.activities == nil {
		return nil, fmt.Errorf("activity repository not configured")
	}
	return s.activities.ListActivities(ctx)
}

// ListUpcoming fetches the full activity set and returns the soonest limit
// occurrences in ascending order. Projections are recomputed on every call;
// nothing is cached, so results are always fresh.
func (s *ActivityService) ListUpcoming(ctx context.Context, limit int) ([]Occurrence, error) {
	if s == nil || s.activities == nil {
		return nil, fmt.Errorf("activity repository not configured")
	}

	activities, err := s.activities.ListActivities(ctx)
	if err != nil {
		return nil, err
	}

	templates := make([]schedule.Activity, len(activities))
	byID := make(map[string]Activity, len(activities))
	for i, activity := range activities {
		templates[i] = toScheduleActivity(activity)
		byID[activity.ID] = activity
	}

	projected, err := schedule.ProjectUpcoming(templates, s.now(), limit)
	if err != nil {
		s.loggerWith(ctx, "ListUpcoming").ErrorContext(ctx, "projection rejected stored template", "error", err)
		return nil, err
	}

	occurrences := make([]Occurrence, len(projected))
	for i, occurrence := range projected {
		occurrences[i] = Occurrence{Activity: byID[occurrence.Activity.ID], Start: occurrence.Start}
	}
	return occurrences, nil
}

// CreateActivity verifies the credential, validates the draft, rejects
// duplicate recurrence tuples, and persists a new template.
func (s *ActivityService) CreateActivity(ctx context.Context, token string, input ActivityInput) (activity Activity, err error) {
	if s == nil || s.activities == nil {
		err = fmt.Errorf("activity repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateActivity", "title", strings.TrimSpace(input.Title))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "activity creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("activity_id", activity.ID).InfoContext(ctx, "activity created")
	}()

	claims, err := s.authorize(token)
	if err != nil {
		return
	}
	logger = logger.With("actor_id", claims.SubjectID)

	if err = validateActivityInput(input); err != nil {
		return
	}

	existing, err := s.activities.ListActivities(ctx)
	if err != nil {
		return
	}

	draft := newActivityFromInput(input)
	if conflictID, dup := schedule.FindDuplicate(toScheduleActivities(existing), toScheduleActivity(draft)); dup {
		logger = logger.With("conflicts_with", conflictID)
		err = ErrDuplicateActivity
		return
	}

	now := s.now()
	draft.ID = s.idGenerator()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	activity, err = s.activities.CreateActivity(ctx, draft)
	if err != nil {
		err = mapActivityRepoError(err)
		return
	}
	return
}

// UpdateActivity verifies the credential and replaces an existing template's
// fields wholesale, keeping its identity and creation time.
func (s *ActivityService) UpdateActivity(ctx context.Context, token, id string, input ActivityInput) (activity Activity, err error) {
	if s == nil || s.activities == nil {
		err = fmt.Errorf("activity repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateActivity", "activity_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "activity update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "activity updated")
	}()

	claims, err := s.authorize(token)
	if err != nil {
		return
	}
	logger = logger.With("actor_id", claims.SubjectID)

	existing, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		err = mapActivityRepoError(err)
		return
	}

	if err = validateActivityInput(input); err != nil {
		return
	}

	updated := newActivityFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()

	activity, err = s.activities.UpdateActivity(ctx, updated)
	if err != nil {
		err = mapActivityRepoError(err)
		return
	}
	return
}

// DeleteActivity verifies the credential and removes the template
// permanently.
func (s *ActivityService) DeleteActivity(ctx context.Context, token, id string) (err error) {
	if s == nil || s.activities == nil {
		return fmt.Errorf("activity repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteActivity", "activity_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "activity deletion failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "activity deleted")
	}()

	claims, err := s.authorize(token)
	if err != nil {
		return err
	}
	logger = logger.With("actor_id", claims.SubjectID)

	if _, err = s.activities.GetActivity(ctx, id); err != nil {
		return mapActivityRepoError(err)
	}

	if err = s.activities.DeleteActivity(ctx, id); err != nil {
		return mapActivityRepoError(err)
	}
	return nil
}

// authorize runs the uniform credential gate: verification first, then the
// admin claim. No store access happens before both pass.
func (s *ActivityService) authorize(token string) (auth.Claims, error) {
	if s.verifier == nil {
		return auth.Claims{}, fmt.Errorf("credential verifier not configured")
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		return auth.Claims{}, err
	}
	if !claims.IsAdmin {
		return auth.Claims{}, ErrForbidden
	}
	return claims, nil
}

func validateActivityInput(input ActivityInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}

	if input.Weekday == "" {
		vErr.add("weekday", "weekday is required")
	} else if _, err := schedule.ParseWeekday(input.Weekday); err != nil {
		vErr.add("weekday", "weekday must be one of Monday through Sunday")
	}

	startMinutes, startOK := validateClockField(vErr, "start_hour", "start hour is required", input.StartHour)
	endMinutes, endOK := validateClockField(vErr, "end_hour", "end hour is required", input.EndHour)
	if startOK && endOK && startMinutes >= endMinutes {
		vErr.add("time", "start hour must be before end hour")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateClockField(vErr *ValidationError, field, requiredMsg, value string) (int, bool) {
	if value == "" {
		vErr.add(field, requiredMsg)
		return 0, false
	}
	hour, minute, err := schedule.ParseClock(value)
	if err != nil {
		vErr.add(field, "must be a HH:MM time")
		return 0, false
	}
	return hour*60 + minute, true
}

func newActivityFromInput(input ActivityInput) Activity {
	return Activity{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Weekday:     input.Weekday,
		StartHour:   input.StartHour,
		EndHour:     input.EndHour,
		Location:    input.Location,
		Instructor:  input.Instructor,
	}
}

func toScheduleActivity(activity Activity) schedule.Activity {
	return schedule.Activity{
		ID:        activity.ID,
		Title:     activity.Title,
		Weekday:   activity.Weekday,
		StartHour: activity.StartHour,
		EndHour:   activity.EndHour,
	}
}

func toScheduleActivities(activities []Activity) []schedule.Activity {
	out := make([]schedule.Activity, len(activities))
	for i, activity := range activities {
		out[i] = toScheduleActivity(activity)
	}
	return out
}

func mapActivityRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	// The store's unique index on the recurrence tuple is the backstop for
	// two concurrent creates racing past the duplicate check.
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrDuplicateActivity
	}
	return err
}
