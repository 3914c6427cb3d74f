package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LessonService is the interface that wraps methods for lesson business logic.
type LessonService interface {
	// Method List retrieves the lessons visible to the principal with their completion flags.
	List(ctx context.Context, principal models.Principal) ([]models.LessonDetail, error)
	// Method Get retrieves a lesson with the completion flag of the principal.
	//
	// Lessons the principal may not read are reported with an error wrapping models.ErrNotFound.
	Get(ctx context.Context, principal models.Principal, id int) (*models.LessonDetail, error)
	// Method Create adds a lesson to a module of a course owned by the principal.
	//
	// The payload field required by the content type must be set.
	Create(ctx context.Context, principal models.Principal, req *models.CreateLessonRequest) (*models.Lesson, error)
	// Method Update applies a partial update to a lesson of a course owned by the principal.
	Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateLessonRequest) (*models.Lesson, error)
	// Method Delete deletes a lesson of a course owned by the principal.
	Delete(ctx context.Context, principal models.Principal, id int) error
}

// LessonHandler handles HTTP requests for lessons and lesson completion
type LessonHandler struct {
	BaseHandler
	lessons     LessonService
	enrollments EnrollmentService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessons LessonService, enrollments EnrollmentService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler: BaseHandler{Logger: logger},
		lessons:     lessons,
		enrollments: enrollments,
	}
}

// RegisterRoutes registers all lesson handler routes
func (h *LessonHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/lessons", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/complete", h.Complete)
	})
}

// List handles GET /lessons
// @Summary List lessons
// @Description Instructors see lessons of the courses they teach, students those of their enrolled courses
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.LessonDetail
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons [get]
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	lessons, err := h.lessons.List(r.Context(), principal)
	if err != nil {
		h.RespondServiceError(w, err, "list lessons")
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// Create handles POST /lessons
// @Summary Create a lesson
// @Description Add a lesson to a module of a course owned by the authenticated instructor
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateLessonRequest true "Lesson creation request"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons [post]
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.lessons.Create(r.Context(), principal, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create lesson")
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// Get handles GET /lessons/{id}
// @Summary Get a lesson
// @Description Get a lesson with the completion flag of the caller
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.LessonDetail
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "lesson")
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "get lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// Update handles PATCH /lessons/{id}
// @Summary Update a lesson
// @Description Update a lesson of a course owned by the authenticated instructor (partial update)
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param request body models.UpdateLessonRequest true "Lesson update request"
// @Success 200 {object} models.Lesson
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id} [patch]
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "lesson")
	if !ok {
		return
	}

	var req models.UpdateLessonRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	lesson, err := h.lessons.Update(r.Context(), principal, id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// Delete handles DELETE /lessons/{id}
// @Summary Delete a lesson
// @Description Delete a lesson of a course owned by the authenticated instructor
// @Tags lessons
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "lesson")
	if !ok {
		return
	}

	if err := h.lessons.Delete(r.Context(), principal, id); err != nil {
		h.RespondServiceError(w, err, "delete lesson")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Complete handles PUT /lessons/{id}/complete
// @Summary Complete a lesson
// @Description Mark a lesson completed for the authenticated student. Completing the last lesson of a course completes the enrollment and issues the certificate.
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]string "Lesson completed"
// @Failure 400 {object} ErrorResponse "Not enrolled or already completed"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a student"
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/complete [put]
func (h *LessonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "lesson")
	if !ok {
		return
	}

	if err := h.enrollments.CompleteLesson(r.Context(), principal, id); err != nil {
		h.RespondServiceError(w, err, "complete lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson completed"})
}
