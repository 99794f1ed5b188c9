package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tracklet/tracklet-api/internal/api/shared"
	"github.com/tracklet/tracklet-api/internal/domain"
	"github.com/tracklet/tracklet-api/internal/platform/logger"
	"github.com/tracklet/tracklet-api/internal/store"
)

// AccountService removes an account together with all data it owns.
type AccountService interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// UserHandler handles user registration and profile management. Registration
// is public; everything else requires authentication, and profile reads and
// writes are restricted to the owner or staff accounts.
type UserHandler struct {
	userStore store.UserStore
	accounts  AccountService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userStore store.UserStore, accounts AccountService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		userStore: userStore,
		accounts:  accounts,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /api/users/. It creates a new active account and
// answers 409 when the username or email is already taken.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := h.userStore.Create(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// List handles GET /api/users/. Staff accounts see every user, optionally
// filtered by username or email; regular accounts only see themselves. Both
// answer one page of the pagination envelope.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := h.requester(w, r)
	if !ok {
		return
	}

	filter, err := ParseUserFilter(r.URL.Query())
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var page *store.UserPage
	if requester.IsStaff {
		page, err = h.userStore.List(r.Context(), filter)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
				"Failed to list users", err)
			return
		}
	} else {
		page = &store.UserPage{Users: []*domain.User{requester}, TotalCount: 1}
		if filter.Page > 1 {
			page.Users = nil
		}
	}

	if pageOutOfRange(filter.Page, filter.PageSize, page.TotalCount) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Invalid page.")
		return
	}

	results := make([]UserResponse, 0, len(page.Users))
	for _, user := range page.Users {
		results = append(results, userToResponse(user))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.PaginatedResponse{
		Count:    page.TotalCount,
		Next:     pageLink(r, filter.Page+1, filter.PageSize, page.TotalCount),
		Previous: pageLink(r, filter.Page-1, filter.PageSize, page.TotalCount),
		Results:  results,
	})
}

// Get handles GET /api/users/{id}/.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Update handles PATCH /api/users/{id}/. Only the fields present in the
// body are changed; a new password is re-hashed by the store.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	requester, user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		user.Password = *req.Password
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.String("updated_by", requester.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Delete handles DELETE /api/users/{id}/. The user's tasks are removed with
// the account in the same transaction.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	requester, user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("user deleted",
		slog.String("user_id", user.ID.String()),
		slog.String("deleted_by", requester.ID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// requester fetches the authenticated user's record, writing the error
// response on failure.
func (h *UserHandler) requester(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	requesterID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return nil, false
	}

	requester, err := h.userStore.GetByID(r.Context(), requesterID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return nil, false
	}
	return requester, true
}

// loadUser resolves the requester, parses the target user ID from the path,
// enforces the owner-or-staff rule, and fetches the target record. On any
// failure it writes the response and returns ok=false.
func (h *UserHandler) loadUser(w http.ResponseWriter, r *http.Request) (requester, target *domain.User, ok bool) {
	requester, found := h.requester(w, r)
	if !found {
		return nil, nil, false
	}

	targetID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	if targetID != requester.ID && !requester.IsStaff {
		shared.RespondWithError(w, r, http.StatusForbidden,
			GetSafeErrorMessage(domain.ErrForbidden))
		return nil, nil, false
	}

	if targetID == requester.ID {
		return requester, requester, true
	}

	target, err = h.userStore.GetByID(r.Context(), targetID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return nil, nil, false
	}
	return requester, target, true
}
