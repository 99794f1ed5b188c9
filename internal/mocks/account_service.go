package mocks

import (
	"context"

	"github.com/google/uuid"
)

// MockAccountService implements the API's AccountService for testing. The
// default implementation deletes from the backing mock stores directly.
type MockAccountService struct {
	DeleteAccountFn func(ctx context.Context, userID uuid.UUID) error

	UserStore *MockUserStore
	TaskStore *MockTaskStore
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAccountFn != nil {
		return m.DeleteAccountFn(ctx, userID)
	}

	if m.TaskStore != nil {
		if err := m.TaskStore.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
	}
	if m.UserStore != nil {
		return m.UserStore.Delete(ctx, userID)
	}
	return nil
}
