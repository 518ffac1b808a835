package inmemory

import (
	"context"
	"slices"
	"sync"

	"planner/internal/models/task"
	repo "planner/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage keeps tasks in insertion order. Rows are copied on the way in
// and out so callers never share memory with the store.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}

	s.storage[taskToCreate.ID] = cloneTask(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

// ListByOwner returns the owner's tasks; an empty status matches all.
func (s *TaskStorage) ListByOwner(ctx context.Context, owner string, status task.Status) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		taskToGet := s.storage[id]
		if taskToGet.Owner != owner {
			continue
		}
		if status != "" && taskToGet.Status != status {
			continue
		}
		res = append(res, cloneTask(taskToGet))
	}
	return res, nil
}

func (s *TaskStorage) Update(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	working := cloneTask(existing)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = existing.ID

	s.storage[id] = working
	return cloneTask(working), nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID, fn func(*task.Task) error) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}
	if err := fn(cloneTask(existing)); err != nil {
		return err
	}

	delete(s.storage, id)
	s.ids = slices.DeleteFunc(s.ids, func(v uuid.UUID) bool { return v == id })
	return nil
}

func cloneTask(t *task.Task) *task.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}
