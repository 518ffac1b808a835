package service_test

import (
	"context"
	"errors"
	"testing"

	"planner/internal/models/task"
	"planner/internal/repository"
	"planner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success - pending and owned by caller", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(t *task.Task) bool {
			return t.Title == "Buy milk" && t.Owner == "alice" && t.Status == task.StatusPending
		})).Return(nil)

		svc := service.NewTaskService(mockRepo)
		result, err := svc.CreateTask(ctx, "alice", "Buy milk", strPtr("2 liters"))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.ID)
		assert.Equal(t, "2 liters", *result.Description)
		assert.Nil(t, result.UpdatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - empty title", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.CreateTask(ctx, "alice", "   ", nil)

		assert.True(t, requireCode(err, service.CodeValidation))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - storage failure is not a business error", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := service.NewTaskService(mockRepo)
		_, err := svc.CreateTask(ctx, "alice", "Buy milk", nil)

		require.Error(t, err)
		_, ok := service.AsBusinessError(err)
		assert.False(t, ok)
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	owned := []*task.Task{{ID: uuid.New(), Title: "a", Owner: "alice", Status: task.StatusDone}}

	tests := []struct {
		name       string
		status     string
		wantFilter task.Status
		wantCode   string
	}{
		{name: "no filter", status: "", wantFilter: ""},
		{name: "done", status: "done", wantFilter: task.StatusDone},
		{name: "pending", status: "pending", wantFilter: task.StatusPending},
		{name: "unknown status", status: "archived", wantCode: service.CodeValidation},
		{name: "wrong case", status: "Done", wantCode: service.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			if tt.wantCode == "" {
				mockRepo.On("ListByOwner", mock.Anything, "alice", tt.wantFilter).Return(owned, nil)
			}

			svc := service.NewTaskService(mockRepo)
			result, err := svc.ListTasks(ctx, "alice", tt.status)

			if tt.wantCode != "" {
				assert.True(t, requireCode(err, tt.wantCode))
				mockRepo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, owned, result)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()
	stored := func() *task.Task {
		return &task.Task{ID: taskID, Title: "Old", Description: strPtr("old"), Status: task.StatusPending, Owner: "alice"}
	}

	t.Run("success - partial overwrite keeps absent fields", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(stored(), nil)

		svc := service.NewTaskService(mockRepo)
		result, err := svc.UpdateTask(ctx, "alice", taskID, task.WithTitle(strPtr("New")), task.WithDescription(nil))

		require.NoError(t, err)
		assert.Equal(t, "New", result.Title)
		assert.Equal(t, "old", *result.Description)
		assert.Equal(t, task.StatusPending, result.Status)
		assert.NotNil(t, result.UpdatedAt)
	})

	t.Run("error - not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(nil, repository.ErrNotFound)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTask(ctx, "alice", taskID, task.WithTitle(strPtr("New")))

		assert.True(t, requireCode(err, service.CodeNotFound))
	})

	t.Run("error - foreign task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(stored(), nil)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTask(ctx, "bob", taskID, task.WithTitle(strPtr("Hijacked")))

		busErr, ok := service.AsBusinessError(err)
		require.True(t, ok)
		assert.Equal(t, service.CodeForbidden, busErr.Code)
		assert.Equal(t, "Not allowed", busErr.Message)
	})

	t.Run("error - title cleared", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(stored(), nil)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTask(ctx, "alice", taskID, task.WithTitle(strPtr("")))

		assert.True(t, requireCode(err, service.CodeValidation))
	})
}

func TestTaskService_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()
	stored := func() *task.Task {
		return &task.Task{ID: taskID, Title: "t", Status: task.StatusPending, Owner: "alice"}
	}

	t.Run("success - pending to done and back", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(stored(), nil)

		svc := service.NewTaskService(mockRepo)
		result, err := svc.UpdateTaskStatus(ctx, "alice", taskID, "done")
		require.NoError(t, err)
		assert.Equal(t, task.StatusDone, result.Status)

		result, err = svc.UpdateTaskStatus(ctx, "alice", taskID, "pending")
		require.NoError(t, err)
		assert.Equal(t, task.StatusPending, result.Status)
	})

	t.Run("error - invalid status checked before lookup", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTaskStatus(ctx, "alice", uuid.New(), "archived")

		assert.True(t, requireCode(err, service.CodeValidation))
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("error - not found wins over ownership", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(nil, repository.ErrNotFound)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTaskStatus(ctx, "bob", taskID, "done")

		assert.True(t, requireCode(err, service.CodeNotFound))
	})

	t.Run("error - foreign task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, taskID).Return(stored(), nil)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.UpdateTaskStatus(ctx, "bob", taskID, "done")

		assert.True(t, requireCode(err, service.CodeForbidden))
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	taskID := uuid.New()
	stored := &task.Task{ID: taskID, Title: "t", Status: task.StatusPending, Owner: "alice"}

	tests := []struct {
		name     string
		caller   string
		loaded   any
		repoErr  error
		wantCode string
	}{
		{name: "owner deletes", caller: "alice", loaded: stored},
		{name: "stranger refused", caller: "bob", loaded: stored, wantCode: service.CodeForbidden},
		{name: "missing task", caller: "alice", loaded: nil, repoErr: repository.ErrNotFound, wantCode: service.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Delete", mock.Anything, taskID).Return(tt.loaded, tt.repoErr)

			svc := service.NewTaskService(mockRepo)
			err := svc.DeleteTask(ctx, tt.caller, taskID)

			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, requireCode(err, tt.wantCode), "got %v", err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
