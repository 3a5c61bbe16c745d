package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipemanager/recipe-server/internal/domain"
	domainerrors "github.com/recipemanager/recipe-server/internal/errors"
	"github.com/recipemanager/recipe-server/internal/service"
)

const msgUserNotFound = "User not found"

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUser",
		Method:        http.MethodPost,
		Path:          "/users/",
		Summary:       "Create user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/users/",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get user",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes a user and every recipe it owns",
		Tags:        []string{"Users"},
	}, s.handleDeleteUser)
}

// === DTOs ===

// CreateUserBody is the request body for creating a user.
type CreateUserBody struct {
	Email string  `json:"email" minLength:"3" maxLength:"254" doc:"Unique email address"`
	Name  *string `json:"name,omitempty" nullable:"true" maxLength:"100" doc:"Display name"`
}

// CreateUserInput wraps the create user request for Huma.
type CreateUserInput struct {
	Body CreateUserBody
}

// UserResponse contains user data in API responses.
type UserResponse struct {
	ID        int64     `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"Email address"`
	Name      *string   `json:"name" doc:"Display name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UserListOutput wraps a list of users for Huma.
type UserListOutput struct {
	Body []UserResponse
}

// UserIDInput contains the path ID of a user.
type UserIDInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	u, err := s.services.User.Create(ctx, service.CreateUserRequest{
		Email: input.Body.Email,
		Name:  input.Body.Name,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(u)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*UserListOutput, error) {
	users, err := s.services.User.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return &UserListOutput{Body: resp}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *UserIDInput) (*UserOutput, error) {
	u, err := s.services.User.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domainerrors.NotFound(msgUserNotFound)
	}
	return &UserOutput{Body: toUserResponse(u)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *UserIDInput) (*MessageOutput, error) {
	u, err := s.services.User.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domainerrors.NotFound(msgUserNotFound)
	}
	return &MessageOutput{Body: MessageResponse{Message: "User deleted successfully"}}, nil
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
