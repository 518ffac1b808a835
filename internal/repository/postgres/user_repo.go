package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/user"
	repo "planner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStorage struct {
	pool *pgxpool.Pool
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	defer observe("users.create", time.Now())

	query := `INSERT INTO users (id, username, password_hash, created_at)
				VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query,
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
				WHERE username = $1`

	found := &user.User{}
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&found.ID,
		&found.Username,
		&found.PasswordHash,
		&found.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to get user", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return found, nil
}
