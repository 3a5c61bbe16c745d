package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/recipemanager/recipe-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "cook@example.com", strPtr("Cook"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got == nil {
		t.Fatal("GetUser: got nil")
	}
	if got.Email != "cook@example.com" {
		t.Errorf("Email: got %q", got.Email)
	}
	if got.Name == nil || *got.Name != "Cook" {
		t.Errorf("Name: got %v, want Cook", got.Name)
	}

	byEmail, err := s.GetUserByEmail(ctx, "cook@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail: got %+v, want id %d", byEmail, u.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetUser(ctx, 123)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}

	got, err = s.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "dup@example.com", nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := s.CreateUser(ctx, "dup@example.com", nil)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", users)
	}

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := s.CreateUser(ctx, email, nil); err != nil {
			t.Fatalf("CreateUser(%s): %v", email, err)
		}
	}

	users, err = s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].Email != "a@example.com" {
		t.Errorf("ListUsers: got %+v", users)
	}
}

func TestDeleteUser_CascadesRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "owner@example.com", nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	owned := makeTestFields("Owned Stew")
	owned.OwnerID = &owner.ID
	owned.TagNames = []string{"hearty"}
	r := mustCreateRecipe(t, s, owned)
	if r.OwnerID == nil || *r.OwnerID != owner.ID {
		t.Fatalf("OwnerID: got %v, want %d", r.OwnerID, owner.ID)
	}

	unowned := mustCreateRecipe(t, s, makeTestFields("Free Soup"))

	if _, err := s.DeleteUser(ctx, owner); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	got, err := s.GetRecipe(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got != nil {
		t.Error("expected owned recipe to be cascade-deleted")
	}

	kept, err := s.GetRecipe(ctx, unowned.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if kept == nil {
		t.Error("expected unowned recipe to survive")
	}

	if _, err := s.DeleteUser(ctx, owner); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
