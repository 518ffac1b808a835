package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"planner/internal/models/user"
	"planner/internal/repository"
	"planner/internal/service"
	"planner/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newUserService(repo service.UserRepository) *service.UserService {
	return service.NewUserService(repo, token.New(testSecret, time.Minute), bcrypt.MinCost)
}

func storedUser(t *testing.T, username, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{Username: username, PasswordHash: string(hash)}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success - password stored hashed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.Username == "alice" &&
				u.PasswordHash != "secret1" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(nil)

		result, err := newUserService(mockRepo).Register(ctx, "alice", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "alice", result.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - duplicate username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)

		_, err := newUserService(mockRepo).Register(ctx, "alice", "other")

		busErr, ok := service.AsBusinessError(err)
		require.True(t, ok)
		assert.Equal(t, service.CodeDuplicateUsername, busErr.Code)
		assert.Equal(t, "Username already exists", busErr.Message)
	})

	t.Run("error - empty fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newUserService(mockRepo)

		_, err := svc.Register(ctx, "", "secret1")
		assert.True(t, requireCode(err, service.CodeValidation))

		_, err = svc.Register(ctx, "alice", "")
		assert.True(t, requireCode(err, service.CodeValidation))

		_, err = svc.Register(ctx, "alice", strings.Repeat("x", 73))
		assert.True(t, requireCode(err, service.CodeValidation))

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	alice := storedUser(t, "alice", "secret1")

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
	mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	svc := newUserService(mockRepo)

	t.Run("success - token resolves back to the user", func(t *testing.T) {
		raw, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)

		resolved, err := svc.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, "alice", resolved.Username)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, wrongPassword := svc.Login(ctx, "alice", "nope")
		_, unknownUser := svc.Login(ctx, "ghost", "secret1")

		require.Error(t, wrongPassword)
		require.Error(t, unknownUser)
		assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
		assert.True(t, requireCode(unknownUser, service.CodeInvalidCredentials))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	issuer := token.New(testSecret, time.Minute)

	t.Run("error - bad token", func(t *testing.T) {
		svc := newUserService(new(MockUserRepository))
		_, err := svc.Authenticate(ctx, "not-a-token")

		busErr, ok := service.AsBusinessError(err)
		require.True(t, ok)
		assert.Equal(t, service.CodeUnauthenticated, busErr.Code)
		assert.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("error - subject no longer exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByUsername", mock.Anything, "removed").Return(nil, repository.ErrNotFound)
		raw, err := issuer.Issue("removed")
		require.NoError(t, err)

		_, err = newUserService(mockRepo).Authenticate(ctx, raw)
		assert.True(t, requireCode(err, service.CodeUnauthenticated))
	})

	t.Run("error - storage failure surfaces as internal", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("connection reset"))
		raw, err := issuer.Issue("alice")
		require.NoError(t, err)

		_, err = newUserService(mockRepo).Authenticate(ctx, raw)
		require.Error(t, err)
		_, ok := service.AsBusinessError(err)
		assert.False(t, ok)
	})
}
