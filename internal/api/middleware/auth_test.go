package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet-api/internal/mocks"
	"github.com/tracklet/tracklet-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	newHandler := func(jwtService *mocks.MockJWTService) (http.Handler, *uuid.UUID) {
		var captured uuid.UUID
		mw := NewAuthMiddleware(jwtService)
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := GetUserID(r)
			require.True(t, ok)
			captured = id
			w.WriteHeader(http.StatusOK)
		}))
		return handler, &captured
	}

	t.Run("valid token", func(t *testing.T) {
		jwtService := &mocks.MockJWTService{
			ValidateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				assert.Equal(t, "good-token", tokenString)
				return &auth.Claims{UserID: userID, TokenType: "access"}, nil
			},
		}
		handler, captured := newHandler(jwtService)

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, userID, *captured)
	})

	t.Run("missing header", func(t *testing.T) {
		handler, _ := newHandler(&mocks.MockJWTService{})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/tasks", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Authorization header required")
	})

	t.Run("malformed header", func(t *testing.T) {
		handler, _ := newHandler(&mocks.MockJWTService{})

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid authorization format")
	})

	t.Run("expired token", func(t *testing.T) {
		handler, _ := newHandler(&mocks.MockJWTService{Err: auth.ErrExpiredToken})

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer stale")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Token expired")
	})

	t.Run("refresh token rejected on API routes", func(t *testing.T) {
		handler, _ := newHandler(&mocks.MockJWTService{Err: auth.ErrWrongTokenType})

		req := httptest.NewRequest("GET", "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer a-refresh-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid token")
	})
}
