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

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

// TagService orchestrates tag operations.
// Tags are shared by all recipes; recipes also create them implicitly.
type TagService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// Create stores a new tag under its normalized name.
func (s *TagService) Create(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	req.Name = normalize.TagName(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.CreateTag(ctx, req.Name)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.AlreadyExistsf("tag %q already exists", req.Name)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tag created", "id", t.ID, "name", t.Name)
	return t, nil
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}
