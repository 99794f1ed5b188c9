package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tracklet/tracklet-api/internal/domain"
)

// UserFilter narrows the user list by case-insensitive substring match and
// selects a page window. Zero-value fields are ignored.
type UserFilter struct {
	Username string
	Email    string

	// Page is 1-based. PageSize defaults to DefaultPageSize when zero.
	Page     int
	PageSize int
}

// UserPage is one page of a user list along with the total number of users
// matching the filter (before pagination).
type UserPage struct {
	Users      []*domain.User
	TotalCount int
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. It validates the user and
	// hashes the plaintext password internally.
	// Returns ErrUsernameExists or ErrEmailExists on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns one page of users matching the filter, ordered by
	// username, plus the total match count.
	List(ctx context.Context, filter UserFilter) (*UserPage, error)

	// Update modifies an existing user's details. The caller must provide a
	// complete user including HashedPassword; if a plaintext Password is
	// set, it is hashed and replaces the stored hash.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrUsernameExists/ErrEmailExists on unique violations.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Tasks owned by the user are removed by
	// the database's cascade rule.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction, so that
	// multiple operations can run atomically.
	WithTx(tx *sql.Tx) UserStore
}
