package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		user, err := NewUser("alice", "alice@example.com", "password1234")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "password1234", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.True(t, user.IsActive, "new accounts start active")
		assert.False(t, user.IsStaff)
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "empty username",
			username: "",
			email:    "alice@example.com",
			password: "password1234",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 151),
			email:    "alice@example.com",
			password: "password1234",
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "empty email",
			username: "alice",
			email:    "",
			password: "password1234",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "invalid email",
			username: "alice",
			email:    "not-an-email",
			password: "password1234",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			username: "alice",
			email:    "alice@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			username: "alice",
			email:    "alice@example.com",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "empty password",
			username: "alice",
			email:    "alice@example.com",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidateWithHashOnly(t *testing.T) {
	t.Parallel()

	// Users loaded from the database carry only the hash; that must pass
	// validation without a plaintext password.
	user := User{
		ID:             uuid.New(),
		Username:       "bob",
		Email:          "bob@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	assert.NoError(t, user.Validate())
}
