// Package repotest holds the behaviour every storage backend must share.
// Backend test packages call the Run* functions with their own constructors.
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"planner/internal/models/event"
	"planner/internal/models/task"
	"planner/internal/models/user"
	"planner/internal/repository"
	"planner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("refused by callback")

func strPtr(s string) *string { return &s }

// now is truncated so backends storing microseconds compare equal.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newTask(owner, title string) *task.Task {
	return &task.Task{
		ID:        uuid.New(),
		Title:     title,
		Status:    task.StatusPending,
		Owner:     owner,
		CreatedAt: now(),
	}
}

func newEvent(owner, title string, date event.Date) *event.Event {
	return &event.Event{
		ID:        uuid.New(),
		Title:     title,
		EventDate: date,
		Owner:     owner,
		CreatedAt: now(),
	}
}

func RunUserRepository(t *testing.T, newRepo func(t *testing.T) service.UserRepository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		r := newRepo(t)
		alice := &user.User{ID: uuid.New(), Username: "alice", PasswordHash: "$2a$hash", CreatedAt: now()}
		require.NoError(t, r.Create(ctx, alice))

		found, err := r.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
		assert.Equal(t, "$2a$hash", found.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &user.User{ID: uuid.New(), Username: "alice", PasswordHash: "a", CreatedAt: now()}))

		err := r.Create(ctx, &user.User{ID: uuid.New(), Username: "alice", PasswordHash: "b", CreatedAt: now()})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)

		found, err := r.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "a", found.PasswordHash)
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &user.User{ID: uuid.New(), Username: "alice", PasswordHash: "a", CreatedAt: now()}))
		require.NoError(t, r.Create(ctx, &user.User{ID: uuid.New(), Username: "Alice", PasswordHash: "b", CreatedAt: now()}))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := newRepo(t).GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func RunTaskRepository(t *testing.T, newRepo func(t *testing.T) service.TaskRepository) {
	ctx := context.Background()

	t.Run("list is owner scoped and in insertion order", func(t *testing.T) {
		r := newRepo(t)
		first := newTask("alice", "first")
		first.Description = strPtr("with description")
		second := newTask("alice", "second")
		foreign := newTask("bob", "foreign")
		for _, tk := range []*task.Task{first, foreign, second} {
			require.NoError(t, r.Create(ctx, tk))
		}

		tasks, err := r.ListByOwner(ctx, "alice", "")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID, tasks[0].ID)
		assert.Equal(t, "with description", *tasks[0].Description)
		assert.Nil(t, tasks[1].Description)
		assert.Equal(t, second.ID, tasks[1].ID)

		none, err := r.ListByOwner(ctx, "carol", "")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("status filter", func(t *testing.T) {
		r := newRepo(t)
		pending := newTask("alice", "pending")
		done := newTask("alice", "done")
		done.Status = task.StatusDone
		require.NoError(t, r.Create(ctx, pending))
		require.NoError(t, r.Create(ctx, done))

		tasks, err := r.ListByOwner(ctx, "alice", task.StatusDone)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, done.ID, tasks[0].ID)

		tasks, err = r.ListByOwner(ctx, "alice", task.StatusPending)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, pending.ID, tasks[0].ID)

		_, err = r.Update(ctx, pending.ID, func(t *task.Task) error {
			t.Status = task.StatusDone
			return nil
		})
		require.NoError(t, err)

		tasks, err = r.ListByOwner(ctx, "alice", task.StatusPending)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("update persists callback changes", func(t *testing.T) {
		r := newRepo(t)
		tk := newTask("alice", "old")
		require.NoError(t, r.Create(ctx, tk))

		updatedAt := now()
		updated, err := r.Update(ctx, tk.ID, func(t *task.Task) error {
			t.Title = "new"
			t.Status = task.StatusDone
			t.UpdatedAt = &updatedAt
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)

		tasks, err := r.ListByOwner(ctx, "alice", "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "new", tasks[0].Title)
		assert.Equal(t, task.StatusDone, tasks[0].Status)
		require.NotNil(t, tasks[0].UpdatedAt)
		assert.True(t, updatedAt.Equal(*tasks[0].UpdatedAt))
	})

	t.Run("callback error aborts update", func(t *testing.T) {
		r := newRepo(t)
		tk := newTask("alice", "keep")
		require.NoError(t, r.Create(ctx, tk))

		_, err := r.Update(ctx, tk.ID, func(t *task.Task) error {
			t.Title = "lost"
			return errRefused
		})
		assert.ErrorIs(t, err, errRefused)

		tasks, err := r.ListByOwner(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, "keep", tasks[0].Title)
	})

	t.Run("missing rows", func(t *testing.T) {
		r := newRepo(t)
		called := false
		_, err := r.Update(ctx, uuid.New(), func(*task.Task) error { called = true; return nil })
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = r.Delete(ctx, uuid.New(), func(*task.Task) error { called = true; return nil })
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.False(t, called)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		kept := newTask("alice", "kept")
		gone := newTask("alice", "gone")
		require.NoError(t, r.Create(ctx, kept))
		require.NoError(t, r.Create(ctx, gone))

		assert.ErrorIs(t, r.Delete(ctx, gone.ID, func(*task.Task) error { return errRefused }), errRefused)
		require.NoError(t, r.Delete(ctx, gone.ID, func(*task.Task) error { return nil }))

		tasks, err := r.ListByOwner(ctx, "alice", "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, kept.ID, tasks[0].ID)

		assert.ErrorIs(t, r.Delete(ctx, gone.ID, func(*task.Task) error { return nil }), repository.ErrNotFound)
	})

	t.Run("concurrent status updates do not lose writes", func(t *testing.T) {
		r := newRepo(t)
		tk := newTask("alice", "counter")
		require.NoError(t, r.Create(ctx, tk))

		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Update(ctx, tk.ID, func(t *task.Task) error {
					t.Title += "+"
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		tasks, err := r.ListByOwner(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, "counter++++++++", tasks[0].Title)
	})
}

func RunEventRepository(t *testing.T, newRepo func(t *testing.T) service.EventRepository) {
	ctx := context.Background()

	t.Run("list ordered by date then creation", func(t *testing.T) {
		r := newRepo(t)
		late := newEvent("alice", "late", event.NewDate(2025, time.December, 31))
		early := newEvent("alice", "early", event.NewDate(2025, time.January, 1))
		sameDayFirst := newEvent("alice", "same day first", event.NewDate(2025, time.June, 1))
		sameDaySecond := newEvent("alice", "same day second", event.NewDate(2025, time.June, 1))
		foreign := newEvent("bob", "foreign", event.NewDate(2025, time.February, 1))
		for _, e := range []*event.Event{late, sameDayFirst, foreign, early, sameDaySecond} {
			require.NoError(t, r.Create(ctx, e))
		}

		events, err := r.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, []string{"early", "same day first", "same day second", "late"},
			[]string{events[0].Title, events[1].Title, events[2].Title, events[3].Title})
		assert.Equal(t, "2025-01-01", events[0].EventDate.String())
	})

	t.Run("update and delete", func(t *testing.T) {
		r := newRepo(t)
		e := newEvent("alice", "standup", event.NewDate(2025, time.May, 1))
		require.NoError(t, r.Create(ctx, e))

		updated, err := r.Update(ctx, e.ID, func(e *event.Event) error {
			e.EventDate = event.NewDate(2025, time.May, 2)
			e.Description = strPtr("moved")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-05-02", updated.EventDate.String())

		events, err := r.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "moved", *events[0].Description)
		assert.Equal(t, "2025-05-02", events[0].EventDate.String())

		require.NoError(t, r.Delete(ctx, e.ID, func(*event.Event) error { return nil }))
		events, err = r.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("callback error aborts", func(t *testing.T) {
		r := newRepo(t)
		e := newEvent("alice", "keep", event.NewDate(2025, time.May, 1))
		require.NoError(t, r.Create(ctx, e))

		_, err := r.Update(ctx, e.ID, func(e *event.Event) error {
			e.Title = "lost"
			return errRefused
		})
		assert.ErrorIs(t, err, errRefused)
		assert.ErrorIs(t, r.Delete(ctx, e.ID, func(*event.Event) error { return errRefused }), errRefused)

		events, err := r.ListByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "keep", events[0].Title)
	})

	t.Run("missing rows", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Update(ctx, uuid.New(), func(*event.Event) error { return nil })
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, r.Delete(ctx, uuid.New(), func(*event.Event) error { return nil }), repository.ErrNotFound)
	})
}
