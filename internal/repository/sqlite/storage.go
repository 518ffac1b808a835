package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/migrations"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

// Storage is a single-file SQLite database. SQLite allows one writer, so the
// pool is capped at one connection and transactions queue behind each other.
type Storage struct {
	db   *sql.DB
	path string
}

func Open(ctx context.Context, path string) (*Storage, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.Info("Repository: Opened SQLite database", zap.String("path", path))
	return &Storage{db: db, path: path}, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return db, nil
}

func (s *Storage) Close() error {
	logger.Info("Repository: Closing SQLite database")
	return s.db.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Users() *UserStorage   { return &UserStorage{db: s.db} }
func (s *Storage) Tasks() *TaskStorage   { return &TaskStorage{db: s.db} }
func (s *Storage) Events() *EventStorage { return &EventStorage{db: s.db} }

// Migrate runs on a dedicated connection, since the migrator closes the
// database handle it is given.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.withMigrator(ctx, func(m *migrations.Migrator) error { return m.Up() })
}

func (s *Storage) Down(ctx context.Context) error {
	return s.withMigrator(ctx, func(m *migrations.Migrator) error { return m.Down() })
}

func (s *Storage) withMigrator(ctx context.Context, fn func(*migrations.Migrator) error) error {
	db, err := openDB(ctx, s.path)
	if err != nil {
		return err
	}

	m, err := migrations.New(db, migrations.SQLite)
	if err != nil {
		db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("Repository: Closing migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

// inTx runs fn in a transaction, committing only when fn returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: Slow query", zap.String("op", op), zap.Duration("ms", elapsed))
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
