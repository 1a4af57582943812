// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/evanschultz/tagboard/internal/adapters/server/common"
	"github.com/evanschultz/tagboard/internal/board"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	board  common.BoardService
	tasks  common.TaskStore
	logger common.Logger
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// EventResponse is the reply to one posted intent.
type EventResponse struct {
	Task  *common.TaskView `json:"task,omitempty"`
	Board common.BoardView `json:"board"`
}

// NewHandler constructs one HTTP API adapter over the board coordinator and task store.
func NewHandler(b common.BoardService, tasks common.TaskStore, logger common.Logger) *Handler {
	if logger == nil {
		logger = common.NopLogger{}
	}
	return &Handler{
		board:  b,
		tasks:  tasks,
		logger: logger,
	}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch {
	case path == "board":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleBoard(w, r)
	case path == "tags":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleTags(w, r)
	case path == "export":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleExport(w, r)
	case path == "events":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleEvent(w, r)
	default:
		taskID, ok := resolveTaskID(path)
		if !ok {
			writeJSONError(w, http.StatusNotFound, APIError{
				Code:    "not_found",
				Message: "endpoint not found",
			})
			return
		}
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleTask(w, r, taskID)
	}
}

// handleBoard serves GET `/board`.
func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.board.Snapshot(r.Context())
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewBoardView(snap))
}

// handleTags serves GET `/tags`.
func (h *Handler) handleTags(w http.ResponseWriter, r *http.Request) {
	snap, err := h.board.Snapshot(r.Context())
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	view := common.NewBoardView(snap)
	writeJSON(w, http.StatusOK, map[string]any{
		"available_tags": view.AvailableTags,
		"selected_tags":  view.SelectedTags,
	})
}

// handleExport serves GET `/export`.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if h.tasks == nil {
		writeJSONError(w, http.StatusNotImplemented, APIError{
			Code:    "not_implemented",
			Message: "export is not available",
		})
		return
	}
	snap, err := h.tasks.ExportSnapshot(r.Context())
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleTask serves GET `/tasks/{id}`.
func (h *Handler) handleTask(w http.ResponseWriter, r *http.Request, taskID string) {
	if h.tasks == nil {
		writeJSONError(w, http.StatusNotImplemented, APIError{
			Code:    "not_implemented",
			Message: "task lookup is not available",
		})
		return
	}
	task, err := common.RequireTask(r.Context(), h.tasks, taskID)
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, common.NewTaskView(task))
}

// handleEvent serves POST `/events`.
func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req common.EventRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	ev, err := req.Event()
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	task, err := h.board.DispatchTask(r.Context(), ev)
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	snap, err := h.board.Snapshot(r.Context())
	if err != nil {
		h.writeErrorFrom(w, r, err)
		return
	}
	resp := EventResponse{Board: common.NewBoardView(snap)}
	if task.ID != "" {
		view := common.NewTaskView(task)
		resp.Task = &view
	}
	status := http.StatusOK
	if _, created := ev.(board.SubmitCreate); created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// resolveTaskID parses `/tasks/{id}` and returns `{id}`.
func resolveTaskID(path string) (string, bool) {
	const prefix = "tasks/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom logs and maps adapter errors into structured HTTP responses.
func (h *Handler) writeErrorFrom(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("api request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeErrorFrom(w, err)
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case common.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case common.IsConflict(err):
		writeJSONError(w, http.StatusConflict, APIError{
			Code:    "conflict",
			Message: err.Error(),
			Hint:    "Confirm with the task_id of the delete you requested; another request may have replaced it.",
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case common.IsValidationError(err):
		writeJSONError(w, http.StatusUnprocessableEntity, APIError{
			Code:    "validation_failed",
			Message: err.Error(),
			Hint:    "Titles must be non-empty, statuses one of todo, in-progress, done, and tags unique.",
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
