package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID  = errors.New("task must belong to a user")
	ErrEmptyDescription = errors.New("task description cannot be empty")
)

// summaryLength is the number of characters of the description shown in
// list responses before truncation.
const summaryLength = 50

// Task represents a to-do item owned by a single user. Tasks track their
// completion status and creation/update times; only the owner (the user
// referenced by UserID) may view or mutate them.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task for the given user, generating a new UUID and
// setting timestamps. New tasks always start incomplete.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks that the Task carries valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Summary returns the description truncated to 50 characters, with a
// trailing ellipsis when truncation occurred. Used in list responses where
// only a brief form of the task is needed.
func (t *Task) Summary() string {
	runes := []rune(t.Description)
	if len(runes) <= summaryLength {
		return t.Description
	}
	return string(runes[:summaryLength]) + "..."
}

// ToggleCompletion flips the completed flag and bumps the update timestamp.
func (t *Task) ToggleCompletion() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}
