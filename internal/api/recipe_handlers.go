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

const msgRecipeNotFound = "Recipe not found"

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/recipes/",
		Summary:       "Create recipe",
		Description:   "Creates a new recipe",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/recipes/",
		Summary:     "List recipes",
		Description: "Returns recipes ordered by ID with skip/limit pagination",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe by ID",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPut,
		Path:        "/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Replaces every field of a recipe, including its tags",
		Tags:        []string{"Recipes"},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecipe",
		Method:      http.MethodDelete,
		Path:        "/recipes/{id}",
		Summary:     "Delete recipe",
		Tags:        []string{"Recipes"},
	}, s.handleDeleteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/recipes/search/{query}",
		Summary:     "Search recipes",
		Description: "Case-insensitive substring search over title, cuisine, meal type and ingredients",
		Tags:        []string{"Recipes"},
	}, s.handleSearchRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID: "filterRecipes",
		Method:      http.MethodGet,
		Path:        "/recipes/filter/",
		Summary:     "Filter recipes",
		Description: "Exact match on meal type and/or cuisine",
		Tags:        []string{"Recipes"},
	}, s.handleFilterRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMealTypes",
		Method:      http.MethodGet,
		Path:        "/meal-types/",
		Summary:     "List meal types",
		Description: "Returns all distinct non-empty meal types for filter dropdowns",
		Tags:        []string{"Recipes"},
	}, s.handleListMealTypes)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCuisines",
		Method:      http.MethodGet,
		Path:        "/cuisines/",
		Summary:     "List cuisines",
		Description: "Returns all distinct non-empty cuisines for filter dropdowns",
		Tags:        []string{"Recipes"},
	}, s.handleListCuisines)
}

// === DTOs ===

// RecipeRequest is the request body for creating or replacing a recipe.
type RecipeRequest struct {
	Title        string   `json:"title" minLength:"1" maxLength:"200" doc:"Recipe title"`
	Ingredients  string   `json:"ingredients" minLength:"1" maxLength:"10000" doc:"Free-form ingredient list"`
	Instructions string   `json:"instructions" minLength:"1" maxLength:"20000" doc:"Preparation steps"`
	Cuisine      *string  `json:"cuisine,omitempty" nullable:"true" maxLength:"100" doc:"Cuisine, e.g. Italian"`
	MealType     *string  `json:"meal_type,omitempty" nullable:"true" maxLength:"100" doc:"Meal type, e.g. dinner"`
	OwnerID      *int64   `json:"owner_id,omitempty" nullable:"true" minimum:"1" doc:"ID of the owning user"`
	Tags         []string `json:"tags,omitempty" maxItems:"50" doc:"Tag names; repeats are ignored"`
}

func (r RecipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Cuisine:      r.Cuisine,
		MealType:     r.MealType,
		OwnerID:      r.OwnerID,
		Tags:         r.Tags,
	}
}

// RecipeResponse contains recipe data in API responses.
type RecipeResponse struct {
	ID           int64         `json:"id" doc:"Recipe ID"`
	Title        string        `json:"title" doc:"Recipe title"`
	Ingredients  string        `json:"ingredients" doc:"Free-form ingredient list"`
	Instructions string        `json:"instructions" doc:"Preparation steps"`
	Cuisine      *string       `json:"cuisine" doc:"Cuisine"`
	MealType     *string       `json:"meal_type" doc:"Meal type"`
	OwnerID      *int64        `json:"owner_id" doc:"ID of the owning user"`
	Tags         []TagResponse `json:"tags" doc:"Tags in the order they were given"`
	CreatedAt    time.Time     `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time     `json:"updated_at" doc:"Last update time"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// RecipeOutput wraps the recipe response for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

// RecipeListOutput wraps a list of recipes for Huma.
type RecipeListOutput struct {
	Body []RecipeResponse
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Skip  int                `query:"skip" minimum:"0" default:"0" doc:"Number of recipes to skip"`
	Limit OptionalParam[int] `query:"limit" doc:"Maximum number of recipes to return; defaults to the configured page size"`
}

// RecipeIDInput contains the path ID of a recipe.
type RecipeIDInput struct {
	ID int64 `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	ID   int64 `path:"id" doc:"Recipe ID"`
	Body RecipeRequest
}

// SearchRecipesInput contains the search query.
type SearchRecipesInput struct {
	Query string `path:"query" doc:"Substring to look for"`
}

// FilterRecipesInput contains the exact-match filters.
type FilterRecipesInput struct {
	MealType string `query:"meal_type" doc:"Exact meal type"`
	Cuisine  string `query:"cuisine" doc:"Exact cuisine"`
}

// ValueResponse is one entry of a distinct-value listing.
type ValueResponse struct {
	Value string `json:"value" doc:"Distinct value"`
}

// ValueListOutput wraps a distinct-value listing for Huma.
type ValueListOutput struct {
	Body []ValueResponse
}

// === Handlers ===

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	r, err := s.services.Recipe.Create(ctx, input.Body.input())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: toRecipeResponse(r)}, nil
}

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipeListOutput, error) {
	recipes, err := s.services.Recipe.List(ctx, input.Skip, input.Limit.Ptr())
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: toRecipeResponses(recipes)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeOutput, error) {
	r, err := s.services.Recipe.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domainerrors.NotFound(msgRecipeNotFound)
	}
	return &RecipeOutput{Body: toRecipeResponse(r)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	r, err := s.services.Recipe.Update(ctx, input.ID, input.Body.input())
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domainerrors.NotFound(msgRecipeNotFound)
	}
	return &RecipeOutput{Body: toRecipeResponse(r)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*MessageOutput, error) {
	r, err := s.services.Recipe.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domainerrors.NotFound(msgRecipeNotFound)
	}
	return &MessageOutput{Body: MessageResponse{Message: "Recipe deleted successfully"}}, nil
}

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchRecipesInput) (*RecipeListOutput, error) {
	recipes, err := s.services.Recipe.Search(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: toRecipeResponses(recipes)}, nil
}

func (s *Server) handleFilterRecipes(ctx context.Context, input *FilterRecipesInput) (*RecipeListOutput, error) {
	recipes, err := s.services.Recipe.Filter(ctx, nonEmpty(input.MealType), nonEmpty(input.Cuisine))
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: toRecipeResponses(recipes)}, nil
}

func (s *Server) handleListMealTypes(ctx context.Context, _ *struct{}) (*ValueListOutput, error) {
	values, err := s.services.Recipe.UniqueMealTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &ValueListOutput{Body: toValueResponses(values)}, nil
}

func (s *Server) handleListCuisines(ctx context.Context, _ *struct{}) (*ValueListOutput, error) {
	values, err := s.services.Recipe.UniqueCuisines(ctx)
	if err != nil {
		return nil, err
	}
	return &ValueListOutput{Body: toValueResponses(values)}, nil
}

// === Mapping ===

func toRecipeResponse(r *domain.Recipe) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = toTagResponse(t)
	}

	return RecipeResponse{
		ID:           r.ID,
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Cuisine:      r.Cuisine,
		MealType:     r.MealType,
		OwnerID:      r.OwnerID,
		Tags:         tags,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// toRecipeResponses never returns nil so empty results encode as [].
func toRecipeResponses(recipes []*domain.Recipe) []RecipeResponse {
	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i] = toRecipeResponse(r)
	}
	return resp
}

// toValueResponses drops NULL and empty values.
func toValueResponses(values []*string) []ValueResponse {
	resp := make([]ValueResponse, 0, len(values))
	for _, v := range values {
		if v == nil || *v == "" {
			continue
		}
		resp = append(resp, ValueResponse{Value: *v})
	}
	return resp
}
