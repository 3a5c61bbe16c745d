package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(recipes []RecipeResponse) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.Title
	}
	return out
}

func recipeBody(title, ingredients string, cuisine, mealType any) map[string]any {
	return map[string]any{
		"title":        title,
		"ingredients":  ingredients,
		"instructions": "Cook it.",
		"cuisine":      cuisine,
		"meal_type":    mealType,
	}
}

func TestCreateRecipe_EchoesFields(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	body := pastaBody()
	body["tags"] = []string{"quick", "quick", " vegetarian "}

	r := ts.createRecipe(t, body)

	assert.Equal(t, "Test Pasta", r.Title)
	assert.Equal(t, "pasta, tomato sauce, cheese", r.Ingredients)
	require.NotNil(t, r.MealType)
	assert.Equal(t, "dinner", *r.MealType)
	assert.Nil(t, r.OwnerID)
	require.Len(t, r.Tags, 2)
	assert.Equal(t, "quick", r.Tags[0].Name)
	assert.Equal(t, "vegetarian", r.Tags[1].Name)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestCreateRecipe_Validation(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tests := []struct {
		name      string
		mutate    func(body map[string]any)
		wantField string
	}{
		{
			name:   "missing title",
			mutate: func(b map[string]any) { delete(b, "title") },
		},
		{
			name:   "empty instructions",
			mutate: func(b map[string]any) { b["instructions"] = "" },
		},
		{
			name:      "blank title",
			mutate:    func(b map[string]any) { b["title"] = "   " },
			wantField: "title",
		},
		{
			name:   "wrong type",
			mutate: func(b map[string]any) { b["cuisine"] = 42 },
		},
		{
			name:      "unknown owner",
			mutate:    func(b map[string]any) { b["owner_id"] = 999 },
			wantField: "owner_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := pastaBody()
			tt.mutate(body)

			resp := ts.api.Post("/recipes/", body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

			apiErr := decode[apiErrorBody](t, resp.Body.Bytes())
			assert.Equal(t, "VALIDATION", apiErr.Code)
			if tt.wantField != "" {
				assert.Contains(t, apiErr.Details, tt.wantField)
			}
		})
	}

	resp := ts.api.Get("/recipes/")
	assert.JSONEq(t, "[]", resp.Body.String(), "nothing should have been stored")
}

func TestCreateRecipe_NullOptionalFields(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	r := ts.createRecipe(t, recipeBody("Plain", "water", nil, nil))
	assert.Nil(t, r.Cuisine)
	assert.Nil(t, r.MealType)
	assert.Empty(t, r.Tags)
}

func TestRecipe_MissingIDs(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	path := recipePath(9999)

	tests := []struct {
		name string
		call func() int
	}{
		{"get", func() int { return ts.api.Get(path).Code }},
		{"put", func() int { return ts.api.Put(path, pastaBody()).Code }},
		{"delete", func() int { return ts.api.Delete(path).Code }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, tt.call())
		})
	}

	resp := ts.api.Get(path)
	apiErr := decode[apiErrorBody](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Recipe not found", apiErr.Message)

	// PUT on a missing ID must not create anything.
	assert.JSONEq(t, "[]", ts.api.Get("/recipes/").Body.String())
}

func TestRecipe_NonIntegerID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/recipes/abc")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestUpdateRecipe_FullReplace(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	body := pastaBody()
	body["tags"] = []string{"quick", "weeknight"}
	created := ts.createRecipe(t, body)

	resp := ts.api.Put(recipePath(created.ID), map[string]any{
		"title":        "Bare",
		"ingredients":  "salt",
		"instructions": "none",
		"tags":         []string{"slow"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[RecipeResponse](t, resp.Body.Bytes())
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Bare", updated.Title)
	assert.Nil(t, updated.Cuisine, "omitted optional fields become null")
	assert.Nil(t, updated.MealType)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "slow", updated.Tags[0].Name)
	assert.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC())
}

func TestListRecipes_Pagination(t *testing.T) {
	ts := setupTestServer(t, withPageSize(1))
	defer ts.cleanup()

	for _, title := range []string{"A", "B", "C"} {
		ts.createRecipe(t, recipeBody(title, "x", nil, nil))
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"default page size", "", []string{"A"}},
		{"explicit limit", "?limit=5", []string{"A", "B", "C"}},
		{"skip", "?skip=1&limit=5", []string{"B", "C"}},
		{"skip past end", "?skip=10", []string{}},
		{"zero limit", "?limit=0", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/recipes/" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.want, titles(decode[[]RecipeResponse](t, resp.Body.Bytes())))
		})
	}
}

func TestListRecipes_NegativeWindow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	for _, q := range []string{"?skip=-1", "?limit=-1"} {
		resp := ts.api.Get("/recipes/" + q)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, q)
	}
}

func TestSearchRecipes(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createRecipe(t, recipeBody("Pasta Bake", "noodles", "American", "dinner"))
	ts.createRecipe(t, recipeBody("Fruit Salad", "apples", "Pastamania", "lunch"))
	ts.createRecipe(t, recipeBody("Tomato Soup", "tomatoes", "French", "lunch"))

	resp := ts.api.Get("/recipes/search/pasta")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"Pasta Bake", "Fruit Salad"}, titles(decode[[]RecipeResponse](t, resp.Body.Bytes())))

	resp = ts.api.Get("/recipes/search/LUNCH")
	assert.Equal(t, []string{"Fruit Salad", "Tomato Soup"}, titles(decode[[]RecipeResponse](t, resp.Body.Bytes())))

	resp = ts.api.Get("/recipes/search/zzz")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestFilterRecipes(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createRecipe(t, recipeBody("One", "x", "Italian", "dinner"))
	ts.createRecipe(t, recipeBody("Two", "x", "italian ", "dinner"))
	ts.createRecipe(t, recipeBody("Three", "x", "Italian Fusion", "lunch"))
	ts.createRecipe(t, recipeBody("Four", "x", "Italian", "lunch"))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"cuisine exact", "?cuisine=Italian", []string{"One", "Four"}},
		{"both", "?cuisine=Italian&meal_type=lunch", []string{"Four"}},
		{"meal type only", "?meal_type=dinner", []string{"One", "Two"}},
		{"none", "", []string{"One", "Two", "Three", "Four"}},
		{"empty ignored", "?cuisine=&meal_type=lunch", []string{"Three", "Four"}},
		{"no match", "?cuisine=Thai", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/recipes/filter/" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.want, titles(decode[[]RecipeResponse](t, resp.Body.Bytes())))
		})
	}
}

func TestDistinctValues(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createRecipe(t, recipeBody("One", "x", "Thai", "dinner"))
	ts.createRecipe(t, recipeBody("Two", "x", "Italian", "dinner"))
	ts.createRecipe(t, recipeBody("Three", "x", nil, ""))
	ts.createRecipe(t, recipeBody("Four", "x", "", nil))

	resp := ts.api.Get("/meal-types/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []ValueResponse{{Value: "dinner"}}, decode[[]ValueResponse](t, resp.Body.Bytes()))

	resp = ts.api.Get("/cuisines/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []ValueResponse{{Value: "Italian"}, {Value: "Thai"}}, decode[[]ValueResponse](t, resp.Body.Bytes()))
}

func TestDistinctValues_Empty(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/cuisines/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestToValueResponses(t *testing.T) {
	s := func(v string) *string { return &v }

	got := toValueResponses([]*string{nil, s(""), s("a"), s("b")})
	assert.Equal(t, []ValueResponse{{Value: "a"}, {Value: "b"}}, got)
	assert.NotNil(t, toValueResponses(nil))
}
