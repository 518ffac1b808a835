package service_test

import (
	"context"

	"planner/internal/models/event"
	"planner/internal/models/task"
	"planner/internal/models/user"
	"planner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var _ service.UserRepository = (*MockUserRepository)(nil)

// MockTaskRepository hands a copy of the stubbed row to the update callback,
// the way a real backend would after loading it.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, owner string, status task.Status) ([]*task.Task, error) {
	args := m.Called(ctx, owner, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	loaded := *args.Get(0).(*task.Task)
	if err := fn(&loaded); err != nil {
		return nil, err
	}
	return &loaded, args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) error {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return args.Error(1)
	}
	loaded := *args.Get(0).(*task.Task)
	if err := fn(&loaded); err != nil {
		return err
	}
	return args.Error(1)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) ListByOwner(ctx context.Context, owner string) ([]*event.Event, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	loaded := *args.Get(0).(*event.Event)
	if err := fn(&loaded); err != nil {
		return nil, err
	}
	return &loaded, args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) error {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return args.Error(1)
	}
	loaded := *args.Get(0).(*event.Event)
	if err := fn(&loaded); err != nil {
		return err
	}
	return args.Error(1)
}

var _ service.EventRepository = (*MockEventRepository)(nil)

func requireCode(err error, code string) bool {
	busErr, ok := service.AsBusinessError(err)
	return ok && busErr.Code == code
}
