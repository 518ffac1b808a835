package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"planner/internal/config"
	"planner/internal/repository/postgres"
	"planner/internal/repository/repotest"
	"planner/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	s.storage, err = postgres.New(s.ctx, config.DatabaseConfig{
		URL:            s.connString,
		MaxConnections: 10,
		MinConnections: 1,
		IdleTimeout:    time.Minute,
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Migrate(s.ctx))
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// truncate gives every subtest an empty schema.
func (s *PostgresTestSuite) truncate(t *testing.T) {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(t, err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE users, tasks, events")
	require.NoError(t, err)
}

func (s *PostgresTestSuite) TestHealthCheck() {
	s.NoError(s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestMigrateIsIdempotent() {
	s.NoError(s.storage.Migrate(s.ctx))
}

func (s *PostgresTestSuite) TestUsers() {
	repotest.RunUserRepository(s.T(), func(t *testing.T) service.UserRepository {
		s.truncate(t)
		return s.storage.Users()
	})
}

func (s *PostgresTestSuite) TestTasks() {
	repotest.RunTaskRepository(s.T(), func(t *testing.T) service.TaskRepository {
		s.truncate(t)
		return s.storage.Tasks()
	})
}

func (s *PostgresTestSuite) TestEvents() {
	repotest.RunEventRepository(s.T(), func(t *testing.T) service.EventRepository {
		s.truncate(t)
		return s.storage.Events()
	})
}

func (s *PostgresTestSuite) TestDownThenUp() {
	require.NoError(s.T(), s.storage.Down(s.ctx))
	defer func() { require.NoError(s.T(), s.storage.Migrate(s.ctx)) }()

	_, err := s.storage.Users().GetByUsername(s.ctx, "alice")
	s.Error(err)
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresTestSuite))
}
