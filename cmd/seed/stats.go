package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/recipemanager/recipe-server/internal/service"
)

// Stats summarizes the database contents.
type Stats struct {
	Recipes   int
	Users     int
	Tags      int
	Cuisines  []string
	MealTypes []string
}

func collectStats(ctx context.Context, recipes *service.RecipeService, users *service.UserService, tags *service.TagService) (*Stats, error) {
	var (
		st  Stats
		err error
	)

	if st.Recipes, err = recipes.Count(ctx); err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	u, err := users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	st.Users = len(u)

	t, err := tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	st.Tags = len(t)

	cuisines, err := recipes.UniqueCuisines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cuisines: %w", err)
	}
	st.Cuisines = presentValues(cuisines)

	mealTypes, err := recipes.UniqueMealTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meal types: %w", err)
	}
	st.MealTypes = presentValues(mealTypes)

	return &st, nil
}

func (s *Stats) write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "recipes: %d\nusers: %d\ntags: %d\ncuisines: %s\nmeal types: %s\n",
		s.Recipes, s.Users, s.Tags, joinOrNone(s.Cuisines), joinOrNone(s.MealTypes))
	return err
}

// presentValues drops NULL and empty entries.
func presentValues(values []*string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
