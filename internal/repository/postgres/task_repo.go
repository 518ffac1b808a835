package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/task"
	repo "planner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id, title, description, status, owner, created_at, updated_at`

type TaskStorage struct {
	pool *pgxpool.Pool
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Owner,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	defer observe("tasks.create", time.Now())

	query := `INSERT INTO tasks
				(id, title, description, status, owner, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Owner,
		taskToCreate.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Failed to insert task", err)
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *TaskStorage) ListByOwner(ctx context.Context, owner string, status task.Status) ([]*task.Task, error) {
	defer observe("tasks.list", time.Now())

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE owner = $1 AND ($2 = '' OR status = $2)
				ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, owner, string(status))
	if err != nil {
		logger.Error("Repository: Failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Row iteration failed", err)
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Update locks the row for the length of the transaction, so a concurrent
// update or delete of the same task waits for fn to finish.
func (s *TaskStorage) Update(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	defer observe("tasks.update", time.Now())

	var updated *task.Task
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}

		query := `UPDATE tasks
				SET title = $1,
					description = $2,
					status = $3,
					updated_at = $4
				WHERE id = $5`

		if _, err := tx.Exec(ctx, query, t.Title, t.Description, t.Status, t.UpdatedAt, id); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) error {
	defer observe("tasks.delete", time.Now())

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

func lockTask(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`

	t, err := scanTask(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to lock task", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}
