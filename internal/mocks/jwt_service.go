package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tracklet/tracklet-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	Token        string
	RefreshToken string
	Err          error

	// ValidateFn overrides access token validation when set.
	ValidateFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	// ValidateRefreshFn overrides refresh token validation when set.
	ValidateRefreshFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Lifetime is returned from AccessTokenLifetime; defaults to an hour.
	Lifetime time.Duration
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, tokenString)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &auth.Claims{}, nil
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.RefreshToken != "" {
		return m.RefreshToken, nil
	}
	return m.Token, nil
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshFn != nil {
		return m.ValidateRefreshFn(ctx, tokenString)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &auth.Claims{}, nil
}

func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	if m.Lifetime != 0 {
		return m.Lifetime
	}
	return time.Hour
}
