// Package domain defines the persisted entities of the recipe manager.
package domain

import "time"

// Recipe is the root entity of the domain. Users and tags are referenced,
// not owned, by a recipe.
type Recipe struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"` // Free-form text, not structured
	Instructions string    `json:"instructions"`
	Cuisine      *string   `json:"cuisine"`
	MealType     *string   `json:"meal_type"`
	OwnerID      *int64    `json:"owner_id"`
	Tags         []*Tag    `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TagNames returns the names of the recipe's tags in association order.
func (r *Recipe) TagNames() []string {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return names
}

// RecipeFields carries every writable attribute of a recipe.
// Create and update both take the full set: update overwrites every scalar
// and replaces the tag association set with exactly TagNames.
type RecipeFields struct {
	Title        string
	Ingredients  string
	Instructions string
	Cuisine      *string
	MealType     *string
	OwnerID      *int64
	TagNames     []string
}

// RecipeColumn names a scalar recipe column that supports distinct-value listing.
type RecipeColumn string

const (
	// ColumnCuisine is the recipes.cuisine column.
	ColumnCuisine RecipeColumn = "cuisine"
	// ColumnMealType is the recipes.meal_type column.
	ColumnMealType RecipeColumn = "meal_type"
)

// IsValid reports whether the column can be listed.
func (c RecipeColumn) IsValid() bool {
	return c == ColumnCuisine || c == ColumnMealType
}
