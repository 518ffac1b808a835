package service

import (
	"context"

	"planner/internal/models/event"
	"planner/internal/models/task"
	"planner/internal/models/user"

	"github.com/google/uuid"
)

type Resource string

const (
	ResourceTask  Resource = "Task"
	ResourceEvent Resource = "Event"
)

type UserRepository interface {
	// Create fails with repository.ErrAlreadyExists when the username is taken.
	Create(context.Context, *user.User) error
	GetByUsername(context.Context, string) (*user.User, error)
}

// TaskRepository runs Update and Delete callbacks inside the same atomic unit
// as the read and the write; a callback error aborts without writing.
type TaskRepository interface {
	Create(context.Context, *task.Task) error
	ListByOwner(ctx context.Context, owner string, status task.Status) ([]*task.Task, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) error
}

type EventRepository interface {
	Create(context.Context, *event.Event) error
	ListByOwner(ctx context.Context, owner string) ([]*event.Event, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) (*event.Event, error)
	Delete(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) error
}

type TokenService interface {
	Issue(subject string) (string, error)
	Verify(raw string) (string, error)
}
