package handlers

import (
	"context"

	"planner/internal/models/event"
	"planner/internal/models/task"
	"planner/internal/models/user"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, owner, title string, description *string) (*task.Task, error)
	ListTasks(ctx context.Context, owner, status string) ([]*task.Task, error)
	UpdateTask(ctx context.Context, owner string, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	UpdateTaskStatus(ctx context.Context, owner string, id uuid.UUID, status string) (*task.Task, error)
	DeleteTask(ctx context.Context, owner string, id uuid.UUID) error
}

type EventService interface {
	CreateEvent(ctx context.Context, owner, title string, description *string, date event.Date) (*event.Event, error)
	ListEvents(ctx context.Context, owner string) ([]*event.Event, error)
	UpdateEvent(ctx context.Context, owner string, id uuid.UUID, options ...event.EventOption) (*event.Event, error)
	DeleteEvent(ctx context.Context, owner string, id uuid.UUID) error
}
