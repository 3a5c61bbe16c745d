package domain

// Tag is a named label shared across recipes.
// Names are unique; recipes reference tags through the recipe_tags join table.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
