package domain

import "time"

// User owns zero or more recipes. Email is the natural key.
// Deleting a user deletes the recipes it owns.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
