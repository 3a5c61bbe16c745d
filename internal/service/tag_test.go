package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/recipemanager/recipe-server/internal/errors"
)

func TestTagService_Create(t *testing.T) {
	svc := NewTagService(setupStore(t), testLogger())
	ctx := context.Background()

	tag, err := svc.Create(ctx, CreateTagRequest{Name: "  weeknight "})
	require.NoError(t, err)
	assert.Equal(t, "weeknight", tag.Name)

	_, err = svc.Create(ctx, CreateTagRequest{Name: "weeknight"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	_, err = svc.Create(ctx, CreateTagRequest{Name: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagService_ListIncludesImplicitTags(t *testing.T) {
	s := setupStore(t)
	tags := NewTagService(s, testLogger())
	recipes := NewRecipeService(s, 100, testLogger())
	ctx := context.Background()

	in := samplePasta()
	in.Tags = []string{"quick"}
	_, err := recipes.Create(ctx, in)
	require.NoError(t, err)

	_, err = tags.Create(ctx, CreateTagRequest{Name: "comfort"})
	require.NoError(t, err)

	list, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "comfort", list[0].Name)
	assert.Equal(t, "quick", list[1].Name)
}
