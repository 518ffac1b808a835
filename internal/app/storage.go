package app

import (
	"context"
	"fmt"

	"planner/internal/config"
	"planner/internal/logger"
	"planner/internal/repository/inmemory"
	"planner/internal/repository/postgres"
	"planner/internal/repository/sqlite"
	"planner/internal/service"

	"go.uber.org/zap"
)

// Storage is the backend picked by repository.type, reduced to what the
// services and the CLI need from it.
type Storage struct {
	Users  service.UserRepository
	Tasks  service.TaskRepository
	Events service.EventRepository

	health  func(context.Context) error
	migrate func(context.Context) error
	down    func(context.Context) error
	close   func()
}

func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Info("App: Opening storage", zap.String("type", cfg.Repository.Type))

	switch cfg.Repository.Type {
	case config.RepositoryInMemory:
		return &Storage{
			Users:  inmemory.NewUserStorage(),
			Tasks:  inmemory.NewTaskStorage(),
			Events: inmemory.NewEventStorage(),
		}, nil

	case config.RepositoryPostgres:
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Storage{
			Users:   db.Users(),
			Tasks:   db.Tasks(),
			Events:  db.Events(),
			health:  db.HealthCheck,
			migrate: db.Migrate,
			down:    db.Down,
			close:   db.Close,
		}, nil

	case config.RepositorySQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Storage{
			Users:   db.Users(),
			Tasks:   db.Tasks(),
			Events:  db.Events(),
			health:  db.HealthCheck,
			migrate: db.Migrate,
			down:    db.Down,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn("App: Closing sqlite", zap.Error(err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}

// HealthCheck is nil-safe; the in-memory backend is always healthy.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

// Migrate is a no-op for the in-memory backend.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Storage) Down(ctx context.Context) error {
	if s.down == nil {
		return nil
	}
	return s.down(ctx)
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}
