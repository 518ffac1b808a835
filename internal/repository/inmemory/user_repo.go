package inmemory

import (
	"context"
	"sync"

	"planner/internal/models/user"
	repo "planner/internal/repository"
)

// UserStorage is keyed by username, which is unique across the store.
type UserStorage struct {
	storage map[string]user.User
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[string]user.User),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[userToCreate.Username]; ok {
		return repo.ErrAlreadyExists
	}
	s.storage[userToCreate.Username] = *userToCreate
	return nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.storage[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &found, nil
}
