package inmemory

import (
	"context"
	"slices"
	"sync"

	"planner/internal/models/event"
	repo "planner/internal/repository"

	"github.com/google/uuid"
)

type EventStorage struct {
	storage map[uuid.UUID]*event.Event
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewEventStorage() *EventStorage {
	return &EventStorage{
		storage: make(map[uuid.UUID]*event.Event),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *EventStorage) Create(ctx context.Context, eventToCreate *event.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[eventToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}

	s.storage[eventToCreate.ID] = cloneEvent(eventToCreate)
	s.ids = append(s.ids, eventToCreate.ID)
	return nil
}

// ListByOwner orders by event date; same-day events keep creation order.
func (s *EventStorage) ListByOwner(ctx context.Context, owner string) ([]*event.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*event.Event{}
	for _, id := range s.ids {
		if e := s.storage[id]; e.Owner == owner {
			res = append(res, cloneEvent(e))
		}
	}

	slices.SortStableFunc(res, func(a, b *event.Event) int {
		return a.EventDate.Time().Compare(b.EventDate.Time())
	})
	return res, nil
}

func (s *EventStorage) Update(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) (*event.Event, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	working := cloneEvent(existing)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = existing.ID

	s.storage[id] = working
	return cloneEvent(working), nil
}

func (s *EventStorage) Delete(ctx context.Context, id uuid.UUID, fn func(*event.Event) error) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}
	if err := fn(cloneEvent(existing)); err != nil {
		return err
	}

	delete(s.storage, id)
	s.ids = slices.DeleteFunc(s.ids, func(v uuid.UUID) bool { return v == id })
	return nil
}

func cloneEvent(e *event.Event) *event.Event {
	c := *e
	if e.Description != nil {
		d := *e.Description
		c.Description = &d
	}
	if e.UpdatedAt != nil {
		u := *e.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}
