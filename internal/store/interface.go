// Package store defines the persistence interface for the recipe manager.
package store

import (
	"context"

	"github.com/recipemanager/recipe-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Lookups by primary key return a nil entity and a nil error when the row
// does not exist; absence is not an error at this layer.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Recipes
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, skip, limit int) ([]*domain.Recipe, error)
	CreateRecipe(ctx context.Context, fields domain.RecipeFields) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, existing *domain.Recipe, fields domain.RecipeFields) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, existing *domain.Recipe) (*domain.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]*domain.Recipe, error)
	FilterRecipes(ctx context.Context, mealType, cuisine *string) ([]*domain.Recipe, error)
	// ListUniqueValues returns the distinct raw values of a column.
	// NULL surfaces as a nil entry and the empty string is kept as is.
	ListUniqueValues(ctx context.Context, column domain.RecipeColumn) ([]*string, error)

	// Users
	CreateUser(ctx context.Context, email string, name *string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// DeleteUser removes the user and every recipe it owns.
	DeleteUser(ctx context.Context, existing *domain.User) (*domain.User, error)

	// Tags
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, bool, error)

	// Counts
	CountRecipes(ctx context.Context) (int, error)
}
