package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planner/internal/logger"
	"planner/internal/models/user"
	"planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

// UserService is the credential store: registration, password checks and
// resolving bearer tokens back to stored users.
type UserService struct {
	repo       UserRepository
	tokens     TokenService
	bcryptCost int
	dummyHash  []byte
}

func NewUserService(repo UserRepository, tokens TokenService, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against for unknown usernames so both failure paths cost a bcrypt round
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)

	return &UserService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*user.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, NewValidationError("username", "must not be empty")
	}
	if password == "" {
		return nil, NewValidationError("password", "must not be empty")
	}
	if len(password) > maxPasswordBytes {
		return nil, NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			logger.Info("Service: Username already taken", zap.String("username", username))
			return nil, NewDuplicateUsername(username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("Service: User registered", zap.String("user_id", newUser.ID.String()))
	return newUser, nil
}

func (s *UserService) Verify(ctx context.Context, username, password string) (*user.User, error) {
	found, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		if s.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		}
		return nil, NewInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return nil, NewInvalidCredentials()
	}
	return found, nil
}

// Login verifies the password and issues a bearer token for the user.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	found, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}

	signed, err := s.tokens.Issue(found.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token to the user it was issued for. The
// user is fetched again on every call, so a removed account stops working
// even while its token has not expired.
func (s *UserService) Authenticate(ctx context.Context, rawToken string) (*user.User, error) {
	subject, err := s.tokens.Verify(rawToken)
	if err != nil {
		logger.Debug("Service: Token rejected", zap.Error(err))
		return nil, NewUnauthenticated(err)
	}

	found, err := s.repo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Token subject no longer exists", zap.String("username", subject))
			return nil, NewUnauthenticated(err)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return found, nil
}
