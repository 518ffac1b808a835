package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/user"
	repo "planner/internal/repository"
)

type UserStorage struct {
	db *sql.DB
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	defer observe("users.create", time.Now())

	query := `INSERT INTO users (id, username, password_hash, created_at)
				VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		userToCreate.ID,
		userToCreate.Username,
		userToCreate.PasswordHash,
		userToCreate.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Failed to insert user", err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	defer observe("users.get", time.Now())

	query := `SELECT id, username, password_hash, created_at
				FROM users
				WHERE username = ?`

	found := &user.User{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&found.ID,
		&found.Username,
		&found.PasswordHash,
		&found.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to get user", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return found, nil
}
