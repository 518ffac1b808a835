package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planner/internal/logger"
	"planner/internal/models/task"
	"planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, owner, title string, description *string) (*task.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, NewValidationError("title", "must not be empty")
	}

	newTask := &task.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      task.StatusPending,
		Owner:       owner,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: Task created",
		zap.String("task_id", newTask.ID.String()),
		zap.String("owner", owner),
	)
	return newTask, nil
}

// ListTasks returns the caller's tasks; status "" means no filter.
func (s *TaskService) ListTasks(ctx context.Context, owner, status string) ([]*task.Task, error) {
	var filter task.Status
	if status != "" {
		parsed, ok := task.ParseStatus(status)
		if !ok {
			return nil, NewValidationError("status", "must be 'pending' or 'done'")
		}
		filter = parsed
	}

	tasks, err := s.repo.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask overwrites the fields carried by options. Status changes go
// through UpdateTaskStatus only.
func (s *TaskService) UpdateTask(ctx context.Context, owner string, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	updated, err := s.repo.Update(ctx, id, func(t *task.Task) error {
		if t.Owner != owner {
			return NewForbidden(ResourceTask, id.String())
		}
		task.Apply(t, options...)
		if strings.TrimSpace(t.Title) == "" {
			return NewValidationError("title", "must not be empty")
		}
		touch(&t.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.mapError("update", id, err)
	}

	logger.Info("Service: Task updated", zap.String("task_id", id.String()))
	return updated, nil
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, owner string, id uuid.UUID, status string) (*task.Task, error) {
	parsed, ok := task.ParseStatus(status)
	if !ok {
		return nil, NewValidationError("status", "must be 'pending' or 'done'")
	}

	updated, err := s.repo.Update(ctx, id, func(t *task.Task) error {
		if t.Owner != owner {
			return NewForbidden(ResourceTask, id.String())
		}
		task.Apply(t, task.WithStatus(parsed))
		touch(&t.UpdatedAt)
		return nil
	})
	if err != nil {
		return nil, s.mapError("update status of", id, err)
	}

	logger.Info("Service: Task status changed",
		zap.String("task_id", id.String()),
		zap.String("status", string(parsed)),
	)
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, owner string, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, func(t *task.Task) error {
		if t.Owner != owner {
			return NewForbidden(ResourceTask, id.String())
		}
		return nil
	})
	if err != nil {
		return s.mapError("delete", id, err)
	}

	logger.Info("Service: Task deleted", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) mapError(action string, id uuid.UUID, err error) error {
	if busErr, ok := AsBusinessError(err); ok {
		if busErr.Code == CodeForbidden {
			logger.Warn("Service: Foreign task access refused", zap.String("task_id", id.String()))
		}
		return busErr
	}
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFound(ResourceTask, id.String())
	}
	return fmt.Errorf("%s task %s: %w", action, id, err)
}

func touch(field **time.Time) {
	now := time.Now().UTC()
	*field = &now
}
