package handlers

import (
	"context"
	"net/http"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course business logic.
type CourseService interface {
	// Method List retrieves the courses visible to the principal.
	//
	// Admins see every course, instructors the courses they teach, students the published ones.
	List(ctx context.Context, principal models.Principal) ([]models.Course, error)
	// Method Get retrieves a course with its modules and lessons.
	//
	// "id" parameter is used to identify the course.
	//
	// Progress is filled in when the principal is enrolled.
	// Unpublished courses of other instructors are reported as models.ErrCourseNotAvailable.
	Get(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error)
	// Method Create creates a course taught by the principal.
	//
	// Only instructors may create courses, others get models.ErrForbidden.
	Create(ctx context.Context, principal models.Principal, req *models.CreateCourseRequest) (*models.Course, error)
	// Method Update applies a partial update to a course owned by the principal and returns the updated course.
	Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateCourseRequest) (*models.Course, error)
	// Method Delete deletes a course owned by the principal together with its content and enrollments.
	Delete(ctx context.Context, principal models.Principal, id int) error
}

// EnrollmentService is the interface that wraps methods for enrollment and lesson completion.
type EnrollmentService interface {
	// Method Enroll enrolls a student principal in a published course.
	//
	// Missing and unpublished courses are reported as models.ErrCourseNotAvailable,
	// a second enrollment as models.ErrAlreadyEnrolled.
	Enroll(ctx context.Context, principal models.Principal, courseID int) (*models.Enrollment, error)
	// Method CompleteLesson marks a lesson completed for a student principal.
	//
	// It returns models.ErrNotEnrolled without an enrollment in the lesson's course
	// and models.ErrAlreadyCompleted on repeats.
	CompleteLesson(ctx context.Context, principal models.Principal, lessonID int) error
	// Method ListEnrollments retrieves the enrollments of a course for its instructor or an admin.
	ListEnrollments(ctx context.Context, principal models.Principal, courseID int) ([]models.Enrollment, error)
}

// CourseHandler handles HTTP requests for courses and their enrollments
type CourseHandler struct {
	BaseHandler
	courses     CourseService
	modules     ModuleService
	enrollments EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseService, modules ModuleService, enrollments EnrollmentService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: BaseHandler{Logger: logger},
		courses:     courses,
		modules:     modules,
		enrollments: enrollments,
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/enroll", h.Enroll)
		r.Get("/{id}/enrollments", h.ListEnrollments)
		r.Post("/{id}/modules", h.CreateModule)
	})
}

// List handles GET /courses
// @Summary List courses
// @Description Admins see every course, instructors the courses they teach, students the published ones
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Course
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(r.Context(), principal)
	if err != nil {
		h.RespondServiceError(w, err, "list courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// Create handles POST /courses
// @Summary Create a course
// @Description Create a course taught by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateCourseRequest true "Course creation request"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courses.Create(r.Context(), principal, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// Get handles GET /courses/{id}
// @Summary Get a course
// @Description Get a course with its modules and lessons. Progress is set when the caller is enrolled.
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseDetail
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	course, err := h.courses.Get(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Update handles PATCH /courses/{id}
// @Summary Update a course
// @Description Update a course owned by the authenticated instructor (partial update)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Course update request"
// @Success 200 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [patch]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courses.Update(r.Context(), principal, id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Delete handles DELETE /courses/{id}
// @Summary Delete a course
// @Description Delete a course owned by the authenticated instructor
// @Tags courses
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	if err := h.courses.Delete(r.Context(), principal, id); err != nil {
		h.RespondServiceError(w, err, "delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Enroll handles POST /courses/{id}/enroll
// @Summary Enroll in a course
// @Description Enroll the authenticated student in a published course
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse "Already enrolled"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a student"
// @Failure 404 {object} ErrorResponse "Course not found or not published"
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "enroll")
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// ListEnrollments handles GET /courses/{id}/enrollments
// @Summary List course enrollments
// @Description List the enrollments of a course with their students (course instructor or admin)
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {array} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/enrollments [get]
func (h *CourseHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	enrollments, err := h.enrollments.ListEnrollments(r.Context(), principal, id)
	if err != nil {
		h.RespondServiceError(w, err, "list enrollments")
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollments)
}

// CreateModule handles POST /courses/{id}/modules
// @Summary Add a module to a course
// @Description Add a module to a course owned by the authenticated instructor. The course is taken from the path.
// @Tags modules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body models.CreateModuleRequest true "Module creation request"
// @Success 201 {object} models.Module
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/modules [post]
func (h *CourseHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := h.idParam(w, r, "course")
	if !ok {
		return
	}

	var req models.CreateModuleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	req.CourseID = id

	module, err := h.modules.Create(r.Context(), principal, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create module")
		return
	}

	h.RespondJSON(w, http.StatusCreated, module)
}
