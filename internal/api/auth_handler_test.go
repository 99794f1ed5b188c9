package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet-api/internal/domain"
	"github.com/tracklet/tracklet-api/internal/mocks"
	"github.com/tracklet/tracklet-api/internal/service/auth"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedActiveUser(t *testing.T, userStore *mocks.MockUserStore, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "stored-hash",
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	userStore.AddUser(user)
	return user
}

func TestToken(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	seedActiveUser(t, userStore, "alice")

	inactive := seedActiveUser(t, userStore, "carol")
	inactive.IsActive = false

	jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"}

	tests := []struct {
		name         string
		payload      map[string]any
		verifierOK   bool
		wantStatus   int
		wantTokens   bool
		wantUniform  bool
	}{
		{
			name:       "valid credentials",
			payload:    map[string]any{"username": "alice", "password": "password1234"},
			verifierOK: true,
			wantStatus: http.StatusOK,
			wantTokens: true,
		},
		{
			name:        "unknown username",
			payload:     map[string]any{"username": "nobody", "password": "password1234"},
			verifierOK:  true,
			wantStatus:  http.StatusUnauthorized,
			wantUniform: true,
		},
		{
			name:        "wrong password",
			payload:     map[string]any{"username": "alice", "password": "wrong"},
			verifierOK:  false,
			wantStatus:  http.StatusUnauthorized,
			wantUniform: true,
		},
		{
			name:        "inactive account",
			payload:     map[string]any{"username": "carol", "password": "password1234"},
			verifierOK:  true,
			wantStatus:  http.StatusUnauthorized,
			wantUniform: true,
		},
		{
			name:       "missing password",
			payload:    map[string]any{"username": "alice"},
			verifierOK: true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tt.verifierOK}
			handler := NewAuthHandler(userStore, jwtService, verifier, nil)

			recorder := httptest.NewRecorder()
			handler.Token(recorder, jsonRequest(t, "POST", "/api/token", tt.payload))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantTokens {
				var resp TokenResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "access-token", resp.Access)
				assert.Equal(t, "refresh-token", resp.Refresh)
				assert.NotEmpty(t, resp.ExpiresAt)
			}

			if tt.wantUniform {
				// Bad credentials, inactive accounts, and unknown usernames
				// must be indistinguishable to the caller.
				assert.Contains(t, recorder.Body.String(),
					"No active account found with the given credentials")
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user := seedActiveUser(t, userStore, "alice")

	t.Run("valid refresh token", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			Token:        "new-access",
			RefreshToken: "new-refresh",
			ValidateRefreshFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return &auth.Claims{UserID: user.ID, TokenType: "refresh"}, nil
			},
		}
		handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, nil)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/token/refresh",
			map[string]any{"refresh": "old-refresh"}))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp TokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-access", resp.Access)
		assert.Equal(t, "new-refresh", resp.Refresh)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			ValidateRefreshFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidRefreshToken
			},
		}
		handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, nil)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/token/refresh",
			map[string]any{"refresh": "garbage"}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("access token presented as refresh", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			ValidateRefreshFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrWrongTokenType
			},
		}
		handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, nil)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/token/refresh",
			map[string]any{"refresh": "an-access-token"}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			Token: "new-access",
			ValidateRefreshFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return &auth.Claims{UserID: uuid.New(), TokenType: "refresh"}, nil
			},
		}
		handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, nil)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/token/refresh",
			map[string]any{"refresh": "orphaned-token"}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing refresh field", func(t *testing.T) {
		handler := NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/token/refresh",
			map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
