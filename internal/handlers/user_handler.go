package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for user lookup
type UserService interface {
	// List returns every user to admins and only the caller to everybody else
	List(ctx context.Context, principal models.Principal) ([]models.User, error)
	// Get returns a user to admins or to the user themselves.
	//
	// Other users are reported with an error wrapping models.ErrNotFound.
	Get(ctx context.Context, principal models.Principal, id int) (*models.User, error)
}

// UserHandler handles HTTP requests for users
type UserHandler struct {
	BaseHandler
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// List handles GET /users
// @Summary List users
// @Description Admins see every user, everybody else sees only themselves
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.User
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	users, err := h.service.List(r.Context(), principal)
	if err != nil {
		h.RespondServiceError(w, err, "list users")
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
// @Summary Get user
// @Description Get a user by ID (admins or the user themselves)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "user")
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "get user")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
