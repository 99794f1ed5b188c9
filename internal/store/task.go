package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tracklet/tracklet-api/internal/domain"
)

// DefaultPageSize is the number of tasks returned per list page.
const DefaultPageSize = 10

// Orderable task fields, as exposed in the `ordering` query parameter.
const (
	OrderByCreationTime = "creation_time"
	OrderByUpdatedAt    = "updated_at"
)

// TaskOrdering is a single ordering term: a whitelisted field name and
// direction.
type TaskOrdering struct {
	Field string
	Desc  bool
}

// TaskFilter describes the predicates, ordering, and page window applied to
// a task list query. Zero-value fields are ignored; pointer fields
// distinguish "unset" from a legitimate zero value.
type TaskFilter struct {
	// Description predicates, all case-insensitive.
	Description           string // exact match
	DescriptionContains   string // substring match
	DescriptionStartsWith string // prefix match
	DescriptionRegex      string // POSIX regex match

	Completed *bool

	// Creation date predicates. CreatedOn matches the entire day of the
	// given date; CreatedAfter/CreatedBefore are inclusive date bounds.
	CreatedOn     *time.Time
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Ordering terms, applied in order. When empty, the store applies the
	// default ordering: incomplete tasks first, newest first.
	Ordering []TaskOrdering

	// Page is 1-based. PageSize defaults to DefaultPageSize when zero.
	Page     int
	PageSize int
}

// TaskPage is one page of a task list along with the total number of tasks
// matching the filter (before pagination).
type TaskPage struct {
	Tasks      []*domain.Task
	TotalCount int
}

// TaskStore defines the interface for task data persistence. All read and
// write operations are scoped to an owning user: a task belonging to a
// different user behaves exactly like a missing task.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity if the owning user
	// does not exist, and validation errors from the domain Task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the given user.
	// Returns ErrTaskNotFound if no such task exists for that user.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List returns one page of the user's tasks matching the filter, plus
	// the total match count. Ordering fields must come from the whitelist
	// above; the query builder rejects anything else.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) (*TaskPage, error)

	// Update persists the task's description, completed flag, and update
	// timestamp, scoped to the task's owner.
	// Returns ErrTaskNotFound if no such task exists for that user.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID, scoped to the given user.
	// Returns ErrTaskNotFound if no such task exists for that user.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// DeleteAllForUser removes every task owned by the given user. Deleting
	// zero tasks is not an error.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
