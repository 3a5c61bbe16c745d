package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/recipemanager/recipe-server/internal/domain"
	domainerrors "github.com/recipemanager/recipe-server/internal/errors"
	"github.com/recipemanager/recipe-server/internal/store"
	"github.com/recipemanager/recipe-server/internal/validation"
)

// CreateUserRequest contains fields for creating a user.
type CreateUserRequest struct {
	Email string  `json:"email" validate:"required,email,max=254"`
	Name  *string `json:"name" validate:"omitnil,max=100"`
}

// UserService orchestrates user operations.
type UserService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// Create validates and stores a new user.
// A taken email yields an ALREADY_EXISTS error.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.store.CreateUser(ctx, req.Email, req.Name)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.AlreadyExistsf("user with email %q already exists", req.Email)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "id", u.ID, "email", u.Email)
	return u, nil
}

// Get returns a user, or nil if it does not exist.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetByEmail returns the user with the given email, or nil.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// Delete removes a user together with every recipe it owns.
// Returns nil, nil if the user does not exist.
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	existing, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	u, err := s.store.DeleteUser(ctx, existing)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user deleted", "id", u.ID)
	return u, nil
}
