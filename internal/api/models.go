package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracklet/tracklet-api/internal/domain"
)

// Common request/response structures

// TokenRequest defines the payload for the token obtain endpoint.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the token endpoints:
// a JWT access/refresh pair.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task. The completed
// flag is read-only on create; new tasks always start incomplete.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required,min=1"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed"`
}

// TaskResponse is the full representation of a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListItem is the brief representation used in list responses: the
// description is truncated to its summary form.
type TaskListItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func taskToListItem(task *domain.Task) TaskListItem {
	return TaskListItem{
		ID:          task.ID,
		Description: task.Summary(),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
	}
}

// RegisterUserRequest defines the payload for the public registration
// endpoint.
type RegisterUserRequest struct {
	Username  string `json:"username"   validate:"required,max=150"`
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
}

// UpdateUserRequest defines the payload for partially updating a user
// profile. Absent fields are left unchanged; a present password is
// re-hashed before storage.
type UpdateUserRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Password  *string `json:"password"   validate:"omitempty,min=8,max=72"`
}

// UserResponse is the public representation of a user. Password material is
// never included.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
