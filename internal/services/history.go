package services

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"design-campaign-backend/internal/config"
	"design-campaign-backend/internal/database"
	"design-campaign-backend/internal/history"
	"design-campaign-backend/internal/logger"
	"design-campaign-backend/internal/supabase"
	"design-campaign-backend/internal/workflow"
)

type closer interface {
	Close() error
}

// HistoryService owns the history store and the medium behind it.
type HistoryService struct {
	Store  *history.Store
	medium history.Medium
}

// OpenMedium connects to the history backend named in cfg. The postgres
// backend applies pending migrations first.
func OpenMedium(ctx context.Context, cfg *config.ClientConfig, fsys afero.Fs, log *logger.Logger) (history.Medium, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch cfg.History.Backend {
	case config.BackendMemory:
		return history.NewMemoryMedium(), nil

	case config.BackendFile:
		return history.NewFileMedium(fsys, cfg.History.Dir), nil

	case config.BackendSQLite:
		return history.NewSQLiteMedium(cfg.History.SQLitePath)

	case config.BackendRedis:
		return history.NewRedisMedium(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	case config.BackendPostgres:
		migrator, err := database.NewMigrator(cfg.DatabaseURL, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize migrator: %w", err)
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return supabase.NewDatabaseClient(cfg.DatabaseURL)

	case config.BackendSupabaseStorage:
		return supabase.NewStorageClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey, cfg.Supabase.StorageBucket)

	case config.BackendSupabaseTable:
		return supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.PublishableKey, cfg.Supabase.HistoryTable)
	}

	return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
}

func NewHistoryService(ctx context.Context, cfg *config.ClientConfig, fsys afero.Fs, log *logger.Logger) (*HistoryService, error) {
	if log == nil {
		log = logger.Nop()
	}
	medium, err := OpenMedium(ctx, cfg, fsys, log)
	if err != nil {
		return nil, err
	}

	store := history.NewStore(medium,
		history.WithKey(cfg.History.Key),
		history.WithMaxItems(cfg.History.MaxItems),
		history.WithLogger(log.With("component", "history", "backend", cfg.History.Backend)),
	)
	return &HistoryService{Store: store, medium: medium}, nil
}

func (s *HistoryService) Close() error {
	if c, ok := s.medium.(closer); ok {
		return c.Close()
	}
	return nil
}

// PollBackoff maps the poll settings onto the workflow delay table.
func PollBackoff(cfg config.PollConfig) workflow.Backoff {
	b := workflow.DefaultBackoff()
	if cfg.InitialDelay > 0 {
		b.Initial = cfg.InitialDelay
	}
	if cfg.SecondDelay > 0 {
		b.AfterSecond = cfg.SecondDelay
	}
	if cfg.ThirdDelay > 0 {
		b.AfterThird = cfg.ThirdDelay
	}
	if cfg.Interval > 0 {
		b.Steady = cfg.Interval
	}
	return b
}
