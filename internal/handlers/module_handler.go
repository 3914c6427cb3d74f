package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ModuleService is the interface that wraps methods for module business logic.
type ModuleService interface {
	// Method List retrieves the modules visible to the principal.
	//
	// Instructors see modules of the courses they teach, students those of their enrolled courses.
	List(ctx context.Context, principal models.Principal) ([]models.Module, error)
	// Method Get retrieves a module with its lessons.
	//
	// Modules the principal may not read are reported with an error wrapping models.ErrNotFound.
	Get(ctx context.Context, principal models.Principal, id int) (*models.ModuleDetail, error)
	// Method Create adds a module to a course owned by the principal.
	//
	// A taken order is reported as a *models.ValidationError on the order field.
	Create(ctx context.Context, principal models.Principal, req *models.CreateModuleRequest) (*models.Module, error)
	// Method Update applies a partial update to a module of a course owned by the principal.
	Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateModuleRequest) (*models.Module, error)
	// Method Delete deletes a module of a course owned by the principal.
	Delete(ctx context.Context, principal models.Principal, id int) error
}

// ModuleHandler handles HTTP requests for modules
type ModuleHandler struct {
	BaseHandler
	modules ModuleService
	lessons LessonService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(modules ModuleService, lessons LessonService, logger *zap.Logger) *ModuleHandler {
	return &ModuleHandler{
		BaseHandler: BaseHandler{Logger: logger},
		modules:     modules,
		lessons:     lessons,
	}
}

// RegisterRoutes registers all module handler routes
func (h *ModuleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/modules", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/lessons", h.CreateLesson)
	})
}

// List handles GET /modules
// @Summary List modules
// @Description Instructors see modules of the courses they teach, students those of their enrolled courses
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Module
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /modules [get]
func (h *ModuleHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	modules, err := h.modules.List(r.Context(), principal)
	if err != nil {
		h.RespondServiceError(w, err, "list modules")
		return
	}

	h.RespondJSON(w, http.StatusOK, modules)
}

// Create handles POST /modules
// @Summary Create a module
// @Description Add a module to a course owned by the authenticated instructor
// @Tags modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateModuleRequest true "Module creation request"
// @Success 201 {object} models.Module
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules [post]
func (h *ModuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.CreateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	module, err := h.modules.Create(r.Context(), principal, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, module)
}

// Get handles GET /modules/{id}
// @Summary Get a module
// @Description Get a module with its lessons and their completion flags
// @Tags modules
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Success 200 {object} models.ModuleDetail
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules/{id} [get]
func (h *ModuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "module")
	if !ok {
		return
	}

	module, err := h.modules.Get(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "get module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// Update handles PATCH /modules/{id}
// @Summary Update a module
// @Description Update a module of a course owned by the authenticated instructor (partial update)
// @Tags modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Param request body models.UpdateModuleRequest true "Module update request"
// @Success 200 {object} models.Module
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules/{id} [patch]
func (h *ModuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "module")
	if !ok {
		return
	}

	var req models.UpdateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	module, err := h.modules.Update(r.Context(), principal, id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update module")
		return
	}

	h.RespondJSON(w, http.StatusOK, module)
}

// Delete handles DELETE /modules/{id}
// @Summary Delete a module
// @Description Delete a module of a course owned by the authenticated instructor
// @Tags modules
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules/{id} [delete]
func (h *ModuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "module")
	if !ok {
		return
	}

	if err := h.modules.Delete(r.Context(), principal, id); err != nil {
		h.RespondServiceError(w, err, "delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateLesson handles POST /modules/{id}/lessons
// @Summary Add a lesson to a module
// @Description Add a lesson to a module of a course owned by the authenticated instructor. The module is taken from the path.
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Module ID"
// @Param request body models.CreateLessonRequest true "Lesson creation request"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /modules/{id}/lessons [post]
func (h *ModuleHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "module")
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.ModuleID = id

	lesson, err := h.lessons.Create(r.Context(), principal, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}
