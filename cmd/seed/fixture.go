package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recipemanager/recipe-server/internal/service"
)

// Fixture is the YAML document accepted by "seed load".
type Fixture struct {
	Users   []UserFixture   `yaml:"users"`
	Recipes []RecipeFixture `yaml:"recipes"`
}

// UserFixture describes one user to create.
type UserFixture struct {
	Email string  `yaml:"email"`
	Name  *string `yaml:"name"`
}

// RecipeFixture describes one recipe. OwnerEmail refers to a user from the
// same document or one already in the database.
type RecipeFixture struct {
	Title        string   `yaml:"title"`
	Ingredients  string   `yaml:"ingredients"`
	Instructions string   `yaml:"instructions"`
	Cuisine      *string  `yaml:"cuisine"`
	MealType     *string  `yaml:"meal_type"`
	OwnerEmail   string   `yaml:"owner_email"`
	Tags         []string `yaml:"tags"`
}

// LoadSummary counts what a load created.
type LoadSummary struct {
	UsersCreated  int
	UsersExisting int
	Recipes       int
}

func readFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// seeder writes fixtures through the service layer so the same validation
// as the HTTP API applies.
type seeder struct {
	users   *service.UserService
	recipes *service.RecipeService
}

// load creates users first, reusing any whose email is already taken,
// then recipes in document order. It stops at the first failure.
func (s *seeder) load(ctx context.Context, f *Fixture) (LoadSummary, error) {
	var sum LoadSummary
	owners := make(map[string]int64, len(f.Users))

	for i, uf := range f.Users {
		existing, err := s.users.GetByEmail(ctx, uf.Email)
		if err != nil {
			return sum, fmt.Errorf("users[%d]: %w", i, err)
		}
		if existing != nil {
			owners[existing.Email] = existing.ID
			sum.UsersExisting++
			continue
		}

		u, err := s.users.Create(ctx, service.CreateUserRequest{Email: uf.Email, Name: uf.Name})
		if err != nil {
			return sum, fmt.Errorf("users[%d] %q: %w", i, uf.Email, err)
		}
		owners[u.Email] = u.ID
		sum.UsersCreated++
	}

	for i, rf := range f.Recipes {
		in := service.RecipeInput{
			Title:        rf.Title,
			Ingredients:  rf.Ingredients,
			Instructions: rf.Instructions,
			Cuisine:      rf.Cuisine,
			MealType:     rf.MealType,
			Tags:         rf.Tags,
		}

		if rf.OwnerEmail != "" {
			ownerID, err := s.ownerID(ctx, owners, rf.OwnerEmail)
			if err != nil {
				return sum, fmt.Errorf("recipes[%d] %q: %w", i, rf.Title, err)
			}
			in.OwnerID = &ownerID
		}

		if _, err := s.recipes.Create(ctx, in); err != nil {
			return sum, fmt.Errorf("recipes[%d] %q: %w", i, rf.Title, err)
		}
		sum.Recipes++
	}

	return sum, nil
}

func (s *seeder) ownerID(ctx context.Context, known map[string]int64, email string) (int64, error) {
	if id, ok := known[email]; ok {
		return id, nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("owner %q not found", email)
	}
	known[email] = u.ID
	return u.ID, nil
}
