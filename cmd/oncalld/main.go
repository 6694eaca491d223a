package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/oncall-roster/internal/application"
	"github.com/example/oncall-roster/internal/config"
	httptransport "github.com/example/oncall-roster/internal/http"
	"github.com/example/oncall-roster/internal/persistence"
	"github.com/example/oncall-roster/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if len(os.Args) > 1 && os.Args[1] == "hash-token" {
		if err := hashToken(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

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

	rotationRepo := newRotationRepositoryAdapter(storage)
	overrideRepo := newOverrideRepositoryAdapter(storage)
	service := application.NewRosterServiceWithLogger(rotationRepo, overrideRepo, uuid.NewString, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rotations: httptransport.NewRotationHandler(service, logger),
		Overrides: httptransport.NewOverrideHandler(service, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireToken(cfg.APITokenHash, logger),
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

	logger.Info("on-call roster API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// hashToken derives the argon2id hash of a raw API token so it can be stored
// in ONCALL_API_TOKEN_HASH.
func hashToken(args []string, out io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("usage: oncalld hash-token <token>")
	}
	hash, err := application.CreateTokenHash(args[0], application.DefaultArgon2idParams)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}

// mapPersistenceError translates storage sentinels into their application
// counterparts so transport error handling stays storage-agnostic.
func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	default:
		return err
	}
}

type rotationRepositoryAdapter struct {
	repo persistence.RotationRepository
}

func newRotationRepositoryAdapter(repo persistence.RotationRepository) *rotationRepositoryAdapter {
	return &rotationRepositoryAdapter{repo: repo}
}

func (a *rotationRepositoryAdapter) CreateRotation(ctx context.Context, rotation application.Rotation) (application.Rotation, error) {
	if err := a.repo.CreateRotation(ctx, toPersistenceRotation(rotation)); err != nil {
		return application.Rotation{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetRotation(ctx, rotation.ID)
	if err != nil {
		return application.Rotation{}, mapPersistenceError(err)
	}
	return toApplicationRotation(stored), nil
}

func (a *rotationRepositoryAdapter) GetRotation(ctx context.Context, id string) (application.Rotation, error) {
	stored, err := a.repo.GetRotation(ctx, id)
	if err != nil {
		return application.Rotation{}, mapPersistenceError(err)
	}
	return toApplicationRotation(stored), nil
}

func (a *rotationRepositoryAdapter) UpdateRotation(ctx context.Context, rotation application.Rotation) (application.Rotation, error) {
	if err := a.repo.UpdateRotation(ctx, toPersistenceRotation(rotation)); err != nil {
		return application.Rotation{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetRotation(ctx, rotation.ID)
	if err != nil {
		return application.Rotation{}, mapPersistenceError(err)
	}
	return toApplicationRotation(stored), nil
}

func (a *rotationRepositoryAdapter) ListRotations(ctx context.Context) ([]application.Rotation, error) {
	models, err := a.repo.ListRotations(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	rotations := make([]application.Rotation, 0, len(models))
	for _, model := range models {
		rotations = append(rotations, toApplicationRotation(model))
	}
	return rotations, nil
}

func (a *rotationRepositoryAdapter) DeleteRotation(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteRotation(ctx, id))
}

type overrideRepositoryAdapter struct {
	repo persistence.OverrideRepository
}

func newOverrideRepositoryAdapter(repo persistence.OverrideRepository) *overrideRepositoryAdapter {
	return &overrideRepositoryAdapter{repo: repo}
}

func (a *overrideRepositoryAdapter) CreateOverride(ctx context.Context, override application.Override) (application.Override, error) {
	if err := a.repo.CreateOverride(ctx, toPersistenceOverride(override)); err != nil {
		return application.Override{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetOverride(ctx, override.ID)
	if err != nil {
		return application.Override{}, mapPersistenceError(err)
	}
	return toApplicationOverride(stored), nil
}

func (a *overrideRepositoryAdapter) GetOverride(ctx context.Context, id string) (application.Override, error) {
	stored, err := a.repo.GetOverride(ctx, id)
	if err != nil {
		return application.Override{}, mapPersistenceError(err)
	}
	return toApplicationOverride(stored), nil
}

func (a *overrideRepositoryAdapter) ListOverrides(ctx context.Context, filter application.OverrideRepositoryFilter) ([]application.Override, error) {
	models, err := a.repo.ListOverrides(ctx, persistence.OverrideFilter{
		RotationID:   filter.RotationID,
		EndsAfter:    filter.EndsAfter,
		StartsBefore: filter.StartsBefore,
	})
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	overrides := make([]application.Override, 0, len(models))
	for _, model := range models {
		overrides = append(overrides, toApplicationOverride(model))
	}
	return overrides, nil
}

func (a *overrideRepositoryAdapter) DeleteOverride(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteOverride(ctx, id))
}

func toPersistenceRotation(rotation application.Rotation) persistence.Rotation {
	return persistence.Rotation{
		ID:           rotation.ID,
		Name:         rotation.Name,
		Users:        append([]string(nil), rotation.Users...),
		Anchor:       rotation.Anchor,
		IntervalDays: rotation.IntervalDays,
		CreatedAt:    rotation.CreatedAt,
		UpdatedAt:    rotation.UpdatedAt,
	}
}

func toApplicationRotation(model persistence.Rotation) application.Rotation {
	return application.Rotation{
		ID:           model.ID,
		Name:         model.Name,
		Users:        append([]string(nil), model.Users...),
		Anchor:       model.Anchor,
		IntervalDays: model.IntervalDays,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceOverride(override application.Override) persistence.Override {
	return persistence.Override{
		ID:         override.ID,
		RotationID: override.RotationID,
		User:       override.User,
		Start:      override.Start,
		End:        override.End,
		CreatedAt:  override.CreatedAt,
		UpdatedAt:  override.UpdatedAt,
	}
}

func toApplicationOverride(model persistence.Override) application.Override {
	return application.Override{
		ID:         model.ID,
		RotationID: model.RotationID,
		User:       model.User,
		Start:      model.Start,
		End:        model.End,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
