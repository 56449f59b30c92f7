package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/activity-portal/internal/application"
	"github.com/example/activity-portal/internal/auth"
	"github.com/example/activity-portal/internal/config"
	httptransport "github.com/example/activity-portal/internal/http"
	"github.com/example/activity-portal/internal/persistence"
	"github.com/example/activity-portal/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	secret := []byte(cfg.TokenSecret)
	issuer := auth.NewIssuer(secret, cfg.TokenTTL, now)
	verifier := auth.NewVerifier(secret, now)

	activityRepo := newActivityRepositoryAdapter(storage)
	activityService := application.NewActivityService(activityRepo, verifier, idGenerator, now, logger)
	authService := application.NewAuthService(storage, issuer, idGenerator, now, logger)

	if cfg.BootstrapAdmin() {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
			logger.Error("failed to provision administrator account", "error", err)
			os.Exit(1)
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       httptransport.NewAuthHandler(authService, logger),
		Activities: httptransport.NewActivityHandler(activityService, cfg.UpcomingLimit, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("activity portal listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type activityRepositoryAdapter struct {
	repo persistence.ActivityRepository
}

func newActivityRepositoryAdapter(repo persistence.ActivityRepository) *activityRepositoryAdapter {
	return &activityRepositoryAdapter{repo: repo}
}

func (a *activityRepositoryAdapter) CreateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.CreateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, err
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, err
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) GetActivity(ctx context.Context, id string) (application.Activity, error) {
	stored, err := a.repo.GetActivity(ctx, id)
	if err != nil {
		return application.Activity{}, err
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) UpdateActivity(ctx context.Context, activity application.Activity) (application.Activity, error) {
	if err := a.repo.UpdateActivity(ctx, toPersistenceActivity(activity)); err != nil {
		return application.Activity{}, err
	}
	stored, err := a.repo.GetActivity(ctx, activity.ID)
	if err != nil {
		return application.Activity{}, err
	}
	return toApplicationActivity(stored), nil
}

func (a *activityRepositoryAdapter) DeleteActivity(ctx context.Context, id string) error {
	return a.repo.DeleteActivity(ctx, id)
}

func (a *activityRepositoryAdapter) ListActivities(ctx context.Context) ([]application.Activity, error) {
	models, err := a.repo.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	activities := make([]application.Activity, 0, len(models))
	for _, model := range models {
		activities = append(activities, toApplicationActivity(model))
	}
	return activities, nil
}

func toApplicationActivity(model persistence.Activity) application.Activity {
	return application.Activity{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Weekday:     model.Weekday,
		StartHour:   model.StartHour,
		EndHour:     model.EndHour,
		Location:    model.Location,
		Instructor:  model.Instructor,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceActivity(activity application.Activity) persistence.Activity {
	return persistence.Activity{
		ID:          activity.ID,
		Title:       activity.Title,
		Description: activity.Description,
		Weekday:     activity.Weekday,
		StartHour:   activity.StartHour,
		EndHour:     activity.EndHour,
		Location:    activity.Location,
		Instructor:  activity.Instructor,
		CreatedAt:   activity.CreatedAt,
		UpdatedAt:   activity.UpdatedAt,
	}
}
