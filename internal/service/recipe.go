// Package service holds the business rules between the HTTP layer and the store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/recipemanager/recipe-server/internal/domain"
	domainerrors "github.com/recipemanager/recipe-server/internal/errors"
	"github.com/recipemanager/recipe-server/internal/normalize"
	"github.com/recipemanager/recipe-server/internal/store"
	"github.com/recipemanager/recipe-server/internal/validation"
)

// RecipeInput carries every writable recipe field. It is used for both
// create and full update: omitted optional fields are stored as null.
type RecipeInput struct {
	Title        string   `json:"title" validate:"notblank,max=200"`
	Ingredients  string   `json:"ingredients" validate:"notblank,max=10000"`
	Instructions string   `json:"instructions" validate:"notblank,max=20000"`
	Cuisine      *string  `json:"cuisine" validate:"omitnil,max=100"`
	MealType     *string  `json:"meal_type" validate:"omitnil,max=100"`
	OwnerID      *int64   `json:"owner_id" validate:"omitnil,gt=0"`
	Tags         []string `json:"tags" validate:"omitempty,max=50,dive,max=50"`
}

// fields converts validated input into store fields with normalized tags.
func (in RecipeInput) fields() domain.RecipeFields {
	return domain.RecipeFields{
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		Cuisine:      in.Cuisine,
		MealType:     in.MealType,
		OwnerID:      in.OwnerID,
		TagNames:     normalize.TagNames(in.Tags),
	}
}

// RecipeService orchestrates recipe operations.
type RecipeService struct {
	store     store.Store
	pageSize  int
	logger    *slog.Logger
	validator *validation.Validator
}

// NewRecipeService creates a new recipe service.
// pageSize is the limit applied when a list call omits one; values
// below 1 are raised to 1.
func NewRecipeService(store store.Store, pageSize int, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		pageSize:  max(pageSize, 1),
		logger:    logger,
		validator: validation.New(),
	}
}

// PageSize returns the default list limit.
func (s *RecipeService) PageSize() int {
	return s.pageSize
}

// Get returns a recipe, or nil if it does not exist.
func (s *RecipeService) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	return s.store.GetRecipe(ctx, id)
}

// List returns a window of recipes. A nil limit uses the default page size.
func (s *RecipeService) List(ctx context.Context, skip int, limit *int) ([]*domain.Recipe, error) {
	resolved := s.pageSize
	if limit != nil {
		resolved = *limit
	}

	if skip < 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed: skip",
			map[string]string{"skip": "must be greater than or equal to 0"})
	}
	if resolved < 0 {
		return nil, domainerrors.ValidationWithDetails("validation failed: limit",
			map[string]string{"limit": "must be greater than or equal to 0"})
	}

	return s.store.ListRecipes(ctx, skip, resolved)
}

// Create validates and stores a new recipe.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (*domain.Recipe, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	r, err := s.store.CreateRecipe(ctx, in.fields())
	if err != nil {
		return nil, translateRecipeError(err)
	}

	s.logger.InfoContext(ctx, "recipe created", "id", r.ID, "title", r.Title, "tags", len(r.Tags))
	return r, nil
}

// Update overwrites every field of an existing recipe.
// Returns nil, nil if the recipe does not exist; nothing is written then.
func (s *RecipeService) Update(ctx context.Context, id int64, in RecipeInput) (*domain.Recipe, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	r, err := s.store.UpdateRecipe(ctx, existing, in.fields())
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the lookup and the write.
		return nil, nil
	}
	if err != nil {
		return nil, translateRecipeError(err)
	}

	s.logger.InfoContext(ctx, "recipe updated", "id", r.ID, "title", r.Title)
	return r, nil
}

// Delete removes a recipe and returns it as it was.
// Returns nil, nil if the recipe does not exist.
func (s *RecipeService) Delete(ctx context.Context, id int64) (*domain.Recipe, error) {
	existing, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	r, err := s.store.DeleteRecipe(ctx, existing)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "recipe deleted", "id", r.ID)
	return r, nil
}

// Search returns recipes containing query in title, cuisine, meal type
// or ingredients, ignoring case.
func (s *RecipeService) Search(ctx context.Context, query string) ([]*domain.Recipe, error) {
	return s.store.SearchRecipes(ctx, query)
}

// Filter returns recipes matching the given meal type and cuisine exactly.
// Nil or empty criteria are ignored.
func (s *RecipeService) Filter(ctx context.Context, mealType, cuisine *string) ([]*domain.Recipe, error) {
	return s.store.FilterRecipes(ctx, mealType, cuisine)
}

// UniqueMealTypes returns the distinct raw meal type values, NULL included.
func (s *RecipeService) UniqueMealTypes(ctx context.Context) ([]*string, error) {
	return s.store.ListUniqueValues(ctx, domain.ColumnMealType)
}

// UniqueCuisines returns the distinct raw cuisine values, NULL included.
func (s *RecipeService) UniqueCuisines(ctx context.Context) ([]*string, error) {
	return s.store.ListUniqueValues(ctx, domain.ColumnCuisine)
}

// Count returns the number of stored recipes.
func (s *RecipeService) Count(ctx context.Context) (int, error) {
	return s.store.CountRecipes(ctx)
}

// translateRecipeError turns a broken owner reference into a field error.
func translateRecipeError(err error) error {
	if errors.Is(err, store.ErrInvalidInput) {
		return domainerrors.ValidationWithDetails("validation failed: owner_id",
			map[string]string{"owner_id": "does not reference an existing user"}).WithCause(err)
	}
	return err
}
