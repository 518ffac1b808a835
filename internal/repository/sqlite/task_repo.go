package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planner/internal/logger"
	"planner/internal/models/task"
	repo "planner/internal/repository"

	"github.com/google/uuid"
)

const taskColumns = `id, title, description, status, owner, created_at, updated_at`

type TaskStorage struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
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
				VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
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
				WHERE owner = ? AND (? = '' OR status = ?)
				ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, owner, string(status), string(status))
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
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStorage) Update(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	defer observe("tasks.update", time.Now())

	var updated *task.Task
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}

		query := `UPDATE tasks
				SET title = ?,
					description = ?,
					status = ?,
					updated_at = ?
				WHERE id = ?`

		if _, err := tx.ExecContext(ctx, query, t.Title, t.Description, t.Status, t.UpdatedAt, id); err != nil {
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

	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return nil
	})
}

func getTask(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*task.Task, error) {
	t, err := scanTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Failed to get task", err)
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}
