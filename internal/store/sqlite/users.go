package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recipemanager/recipe-server/internal/domain"
	"github.com/recipemanager/recipe-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, email, name, created_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		name      sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&name,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.Name = stringPtr(name)
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists on duplicate email.
func (s *Store) CreateUser(ctx context.Context, email string, name *string) (*domain.User, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, name, created_at)
		VALUES (?, ?, ?)`,
		email,
		nullableString(name),
		formatTime(now),
	)
	if err != nil {
		return nil, classifyError(err)
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &domain.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}, nil
}

// GetUser retrieves a user by id.
// Returns nil, nil when no user has the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserWhere(ctx, `id = ?`, id)
}

// GetUserByEmail retrieves a user by exact email.
// Returns nil, nil when no user has the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, `email = ?`, email)
}

func (s *Store) getUserWhere(ctx context.Context, cond string, arg any) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+cond, arg)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user. Owned recipes and their tag associations
// go with it through ON DELETE CASCADE.
// Returns store.ErrNotFound if the user was removed concurrently.
func (s *Store) DeleteUser(ctx context.Context, existing *domain.User) (*domain.User, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, existing.ID)
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
