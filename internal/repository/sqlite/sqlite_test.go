package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"planner/internal/repository/repotest"
	"planner/internal/repository/sqlite"
	"planner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	ctx := context.Background()

	storage, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.Migrate(ctx))
	return storage
}

func TestUserStorage(t *testing.T) {
	repotest.RunUserRepository(t, func(t *testing.T) service.UserRepository {
		return openStorage(t).Users()
	})
}

func TestTaskStorage(t *testing.T) {
	repotest.RunTaskRepository(t, func(t *testing.T) service.TaskRepository {
		return openStorage(t).Tasks()
	})
}

func TestEventStorage(t *testing.T) {
	repotest.RunEventRepository(t, func(t *testing.T) service.EventRepository {
		return openStorage(t).Events()
	})
}

func TestStorage_MigrateDownUp(t *testing.T) {
	ctx := context.Background()
	storage := openStorage(t)

	require.NoError(t, storage.HealthCheck(ctx))
	require.NoError(t, storage.Migrate(ctx), "second up is a no-op")

	require.NoError(t, storage.Down(ctx))
	_, err := storage.Users().GetByUsername(ctx, "alice")
	assert.Error(t, err)

	require.NoError(t, storage.Migrate(ctx))
	_, err = storage.Tasks().ListByOwner(ctx, "alice", "")
	assert.NoError(t, err)
}
