package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/coursehub/backend/internal/auth/middleware"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondServiceError maps an error returned by a service to a status code.
// Unknown errors are logged and hidden behind a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, operation string) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: vErr.Fields})
	case errors.Is(err, models.ErrCourseNotAvailable):
		h.RespondError(w, http.StatusNotFound, models.ErrCourseNotAvailable.Error())
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, models.ErrForbidden.Error())
	case errors.Is(err, models.ErrAlreadyEnrolled),
		errors.Is(err, models.ErrAlreadyCompleted),
		errors.Is(err, models.ErrNotEnrolled):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		h.RespondError(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	default:
		h.Logger.Error("failed to "+operation, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to "+operation)
	}
}

// decodeJSON decodes the request body into v and answers 400 on failure
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// principal extracts the authenticated caller and answers 401 when missing
func (h *BaseHandler) principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return models.Principal{}, false
	}
	return principal, true
}

// idParam parses the {id} path parameter and answers 400 when it is not a positive integer
func (h *BaseHandler) idParam(w http.ResponseWriter, r *http.Request, resource string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}
