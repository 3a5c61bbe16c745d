package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/recipemanager/recipe-server/internal/domain"
	"github.com/recipemanager/recipe-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, title, ingredients, instructions, cuisine, meal_type, owner_id, created_at, updated_at`

// tagBatchSize bounds the number of recipe ids bound into a single IN list.
const tagBatchSize = 500

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a domain.Recipe.
// Tags are left empty; attachTags fills them.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		cuisine   sql.NullString
		mealType  sql.NullString
		ownerID   sql.NullInt64
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.Title,
		&r.Ingredients,
		&r.Instructions,
		&cuisine,
		&mealType,
		&ownerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Cuisine = stringPtr(cuisine)
	r.MealType = stringPtr(mealType)
	r.OwnerID = int64Ptr(ownerID)
	r.Tags = []*domain.Tag{}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// GetRecipe retrieves a recipe with its tags.
// Returns nil, nil when no recipe has the given id.
func (s *Store) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	return s.getRecipe(ctx, s.db, id)
}

func (s *Store) getRecipe(ctx context.Context, q querier, id int64) (*domain.Recipe, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)

	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := attachTags(ctx, q, []*domain.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns a window of recipes ordered by id.
func (s *Store) ListRecipes(ctx context.Context, skip, limit int) ([]*domain.Recipe, error) {
	if skip < 0 || limit < 0 {
		return nil, store.ErrInvalidInput.WithMessage("skip and limit must be non-negative")
	}
	if limit == 0 {
		return []*domain.Recipe{}, nil
	}

	return s.queryRecipes(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY id LIMIT ? OFFSET ?`,
		limit, skip)
}

// SearchRecipes returns recipes whose title, cuisine, meal type or
// ingredients contain query, compared case-insensitively.
// Results are ordered by id.
func (s *Store) SearchRecipes(ctx context.Context, query string) ([]*domain.Recipe, error) {
	pattern := containsPattern(query)

	return s.queryRecipes(ctx, `
		SELECT `+recipeColumns+` FROM recipes
		WHERE casefold(title) LIKE ? ESCAPE '\'
		   OR casefold(cuisine) LIKE ? ESCAPE '\'
		   OR casefold(meal_type) LIKE ? ESCAPE '\'
		   OR casefold(ingredients) LIKE ? ESCAPE '\'
		ORDER BY id`,
		pattern, pattern, pattern, pattern)
}

// FilterRecipes returns recipes matching every given criterion exactly.
// A nil or empty criterion is not applied.
func (s *Store) FilterRecipes(ctx context.Context, mealType, cuisine *string) ([]*domain.Recipe, error) {
	var (
		where []string
		args  []any
	)
	if mealType != nil && *mealType != "" {
		where = append(where, "meal_type = ?")
		args = append(args, *mealType)
	}
	if cuisine != nil && *cuisine != "" {
		where = append(where, "cuisine = ?")
		args = append(args, *cuisine)
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	return s.queryRecipes(ctx, query, args...)
}

// ListUniqueValues returns the distinct raw values stored in column.
// NULL comes back as a nil entry and sorts first.
func (s *Store) ListUniqueValues(ctx context.Context, column domain.RecipeColumn) ([]*string, error) {
	if !column.IsValid() {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown recipe column %q", column))
	}

	// column is checked against a closed set above.
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+string(column)+` FROM recipes ORDER BY `+string(column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []*string{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, stringPtr(v))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// CreateRecipe inserts a recipe and its tag associations in one transaction,
// creating any tag names that do not exist yet.
// Returns store.ErrInvalidInput when OwnerID names no user.
func (s *Store) CreateRecipe(ctx context.Context, fields domain.RecipeFields) (*domain.Recipe, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (title, ingredients, instructions, cuisine, meal_type, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fields.Title,
		fields.Ingredients,
		fields.Instructions,
		nullableString(fields.Cuisine),
		nullableString(fields.MealType),
		nullableInt64(fields.OwnerID),
		now,
		now,
	)
	if err != nil {
		return nil, classifyError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := setRecipeTags(ctx, tx, id, fields.TagNames); err != nil {
		return nil, err
	}

	created, err := s.getRecipe(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// UpdateRecipe overwrites every field of an existing recipe and replaces
// its tag set with fields.TagNames.
// Returns store.ErrNotFound if the recipe was removed concurrently.
func (s *Store) UpdateRecipe(ctx context.Context, existing *domain.Recipe, fields domain.RecipeFields) (*domain.Recipe, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?,
			ingredients = ?,
			instructions = ?,
			cuisine = ?,
			meal_type = ?,
			owner_id = ?,
			updated_at = ?
		WHERE id = ?`,
		fields.Title,
		fields.Ingredients,
		fields.Instructions,
		nullableString(fields.Cuisine),
		nullableString(fields.MealType),
		nullableInt64(fields.OwnerID),
		formatTime(time.Now()),
		existing.ID,
	)
	if err != nil {
		return nil, classifyError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	if err := setRecipeTags(ctx, tx, existing.ID, fields.TagNames); err != nil {
		return nil, err
	}

	updated, err := s.getRecipe(ctx, tx, existing.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteRecipe removes a recipe and its tag associations.
// The tags themselves are kept. Returns the recipe as it was before removal.
func (s *Store) DeleteRecipe(ctx context.Context, existing *domain.Recipe) (*domain.Recipe, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, existing.ID)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return existing, nil
}

// CountRecipes returns the total number of recipes.
func (s *Store) CountRecipes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// queryRecipes runs a recipe SELECT and attaches tags to every row.
func (s *Store) queryRecipes(ctx context.Context, query string, args ...any) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before the tag query; :memory: has only one.
	rows.Close()

	if err := attachTags(ctx, s.db, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// attachTags loads the tags of every recipe in batches and assigns them
// in association order.
func attachTags(ctx context.Context, q querier, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	for start := 0; start < len(recipes); start += tagBatchSize {
		end := min(start+tagBatchSize, len(recipes))
		batch := recipes[start:end]

		placeholders := make([]string, len(batch))
		args := make([]any, len(batch))
		for i, r := range batch {
			placeholders[i] = "?"
			args[i] = r.ID
		}

		rows, err := q.QueryContext(ctx, `
			SELECT rt.recipe_id, t.id, t.name
			FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id IN (`+strings.Join(placeholders, ",")+`)
			ORDER BY rt.recipe_id, rt.position`, args...)
		if err != nil {
			return fmt.Errorf("load recipe tags: %w", err)
		}

		for rows.Next() {
			var (
				recipeID int64
				tag      domain.Tag
			)
			if err := rows.Scan(&recipeID, &tag.ID, &tag.Name); err != nil {
				rows.Close()
				return err
			}
			if r, ok := byID[recipeID]; ok {
				r.Tags = append(r.Tags, &tag)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// setRecipeTags replaces all tag associations for a recipe.
// Tag names are resolved to ids, creating new tags as needed.
// Must be called within a transaction.
func setRecipeTags(ctx context.Context, tx *sql.Tx, recipeID int64, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}

	for pos, name := range names {
		tag, _, err := findOrCreateTag(ctx, tx, name)
		if err != nil {
			return err
		}

		// OR IGNORE keeps a repeated name from failing the primary key.
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id, position)
			VALUES (?, ?, ?)`,
			recipeID, tag.ID, pos); err != nil {
			return fmt.Errorf("insert recipe tag: %w", err)
		}
	}
	return nil
}
