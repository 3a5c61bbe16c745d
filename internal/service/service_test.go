package service

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recipemanager/recipe-server/internal/store/sqlite"
)

// setupStore opens a temporary SQLite store that is closed with the test.
func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ptr[T any](v T) *T { return &v }

func samplePasta() RecipeInput {
	return RecipeInput{
		Title:        "Test Pasta",
		Ingredients:  "pasta, tomato sauce, cheese",
		Instructions: "1. Boil pasta 2. Add sauce 3. Add cheese",
		Cuisine:      ptr("Italian"),
		MealType:     ptr("dinner"),
	}
}
