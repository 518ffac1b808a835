package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner/internal/config"
	"planner/internal/logger"
	"planner/internal/migrations"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

const (
	slowQuery     = 100 * time.Millisecond
	uniqueViolate = "23505"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Failed to parse database url", err)
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: Connected to PostgreSQL",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
	)
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Users() *UserStorage   { return &UserStorage{pool: s.pool} }
func (s *Storage) Tasks() *TaskStorage   { return &TaskStorage{pool: s.pool} }
func (s *Storage) Events() *EventStorage { return &EventStorage{pool: s.pool} }

// Migrate applies the embedded schema through a database/sql view of the pool.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.withMigrator(func(m *migrations.Migrator) error { return m.Up() })
}

func (s *Storage) Down(ctx context.Context) error {
	return s.withMigrator(func(m *migrations.Migrator) error { return m.Down() })
}

func (s *Storage) withMigrator(fn func(*migrations.Migrator) error) error {
	m, err := migrations.New(stdlib.OpenDBFromPool(s.pool), migrations.Postgres)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("Repository: Closing migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

func observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Slow query", zap.String("op", op), zap.Duration("ms", elapsed))
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolate
}
