package api

import (
	"github.com/recipemanager/recipe-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Recipe *service.RecipeService
	User   *service.UserService
	Tag    *service.TagService
}
