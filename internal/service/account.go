// Package service implements operations that span multiple stores.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tracklet/tracklet-api/internal/store"
)

// AccountService coordinates operations touching both the user and task
// stores.
type AccountService struct {
	db        *sql.DB
	userStore store.UserStore
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	db *sql.DB,
	userStore store.UserStore,
	taskStore store.TaskStore,
	log *slog.Logger,
) *AccountService {
	if log == nil {
		log = slog.Default()
	}
	return &AccountService{
		db:        db,
		userStore: userStore,
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "account_service")),
	}
}

// DeleteAccount removes a user and all of their tasks in a single
// transaction. The explicit task delete keeps the operation correct even
// against a schema without the cascade rule.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.taskStore.WithTx(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user's tasks: %w", err)
		}
		if err := s.userStore.WithTx(tx).Delete(ctx, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("user_id", userID.String()))
	return nil
}
