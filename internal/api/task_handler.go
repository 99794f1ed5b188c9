package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tracklet/tracklet-api/internal/api/shared"
	"github.com/tracklet/tracklet-api/internal/domain"
	"github.com/tracklet/tracklet-api/internal/platform/logger"
	"github.com/tracklet/tracklet-api/internal/store"
)

// TaskHandler handles task-related HTTP requests. Every operation is scoped
// to the authenticated user; tasks owned by other users behave like missing
// tasks.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/tasks/. It returns one page of the user's tasks in
// the pagination envelope, after applying the query-parameter filters and
// ordering.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	filter, err := ParseTaskFilter(r.URL.Query())
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if len(r.URL.Query()) > 0 {
		log.Debug("listing tasks with filters",
			slog.String("user_id", userID.String()),
			slog.String("query", r.URL.RawQuery))
	}

	page, err := h.taskStore.List(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			"Failed to list tasks", err)
		return
	}

	if pageOutOfRange(filter.Page, filter.PageSize, page.TotalCount) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Invalid page.")
		return
	}

	results := make([]TaskListItem, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		results = append(results, taskToListItem(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.PaginatedResponse{
		Count:    page.TotalCount,
		Next:     pageLink(r, filter.Page+1, filter.PageSize, page.TotalCount),
		Previous: pageLink(r, filter.Page-1, filter.PageSize, page.TotalCount),
		Results:  results,
	})
}

// Create handles POST /api/tasks/. New tasks always start incomplete and
// belong to the authenticated user.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Get handles GET /api/tasks/{id}/.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("task retrieved",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /api/tasks/{id}/. Only the fields present in the
// body are changed.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task updated",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ToggleComplete handles PATCH /api/tasks/{id}/toggle-complete/. It flips
// the completed flag and returns the updated task.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	task.ToggleCompletion()

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task completion toggled",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()),
		slog.Bool("completed", task.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /api/tasks/{id}/.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// loadTask extracts the user and task IDs from the request, fetches the
// task scoped to that user, and writes the error response on failure.
func (h *TaskHandler) loadTask(w http.ResponseWriter, r *http.Request) (userID uuid.UUID, task *domain.Task, ok bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, found := getUserIDFromContext(r)
	if !found {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return userID, nil, false
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return userID, nil, false
	}

	task, err = h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return userID, nil, false
	}

	return userID, task, true
}
