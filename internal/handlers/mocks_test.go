package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/auth/middleware"
	"github.com/coursehub/backend/internal/auth/service"
	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tokenGenerator = service.NewTokenGenerator("handler-test-secret", time.Hour, 24*time.Hour)

// bearer returns an Authorization header value for the user
func bearer(t *testing.T, userID int, role models.Role) string {
	t.Helper()
	access, _, err := tokenGenerator.GenerateTokens(userID, string(role))
	require.NoError(t, err)
	return "Bearer " + access
}

// routes mounts handler routes under /api/v1 the way the server does
type routes interface {
	RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler)
}

func newRouter(h routes) chi.Router {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.AuthMiddleware(tokenGenerator))
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var nopLogger = zap.NewNop()

// mockCourseService is a mock implementation of CourseService
type mockCourseService struct {
	course        *models.Course
	detail        *models.CourseDetail
	courses       []models.Course
	err           error
	lastPrincipal models.Principal
	lastID        int
	lastCreate    *models.CreateCourseRequest
}

func (m *mockCourseService) List(ctx context.Context, principal models.Principal) ([]models.Course, error) {
	m.lastPrincipal = principal
	return m.courses, m.err
}

func (m *mockCourseService) Get(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error) {
	m.lastPrincipal = principal
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func (m *mockCourseService) Create(ctx context.Context, principal models.Principal, req *models.CreateCourseRequest) (*models.Course, error) {
	m.lastPrincipal = principal
	m.lastCreate = req
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *mockCourseService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateCourseRequest) (*models.Course, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *mockCourseService) Delete(ctx context.Context, principal models.Principal, id int) error {
	m.lastID = id
	return m.err
}

// mockModuleService is a mock implementation of ModuleService
type mockModuleService struct {
	module     *models.Module
	detail     *models.ModuleDetail
	err        error
	lastCreate *models.CreateModuleRequest
}

func (m *mockModuleService) List(ctx context.Context, principal models.Principal) ([]models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.Module{*m.module}, nil
}

func (m *mockModuleService) Get(ctx context.Context, principal models.Principal, id int) (*models.ModuleDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func (m *mockModuleService) Create(ctx context.Context, principal models.Principal, req *models.CreateModuleRequest) (*models.Module, error) {
	m.lastCreate = req
	if m.err != nil {
		return nil, m.err
	}
	return m.module, nil
}

func (m *mockModuleService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateModuleRequest) (*models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.module, nil
}

func (m *mockModuleService) Delete(ctx context.Context, principal models.Principal, id int) error {
	return m.err
}

// mockLessonService is a mock implementation of LessonService
type mockLessonService struct {
	lesson     *models.Lesson
	detail     *models.LessonDetail
	err        error
	lastCreate *models.CreateLessonRequest
}

func (m *mockLessonService) List(ctx context.Context, principal models.Principal) ([]models.LessonDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.LessonDetail{*m.detail}, nil
}

func (m *mockLessonService) Get(ctx context.Context, principal models.Principal, id int) (*models.LessonDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func (m *mockLessonService) Create(ctx context.Context, principal models.Principal, req *models.CreateLessonRequest) (*models.Lesson, error) {
	m.lastCreate = req
	if m.err != nil {
		return nil, m.err
	}
	return m.lesson, nil
}

func (m *mockLessonService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateLessonRequest) (*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lesson, nil
}

func (m *mockLessonService) Delete(ctx context.Context, principal models.Principal, id int) error {
	return m.err
}

// mockEnrollmentService is a mock implementation of EnrollmentService
type mockEnrollmentService struct {
	enrollment    *models.Enrollment
	enrollments   []models.Enrollment
	err           error
	completedID   int
	lastPrincipal models.Principal
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, principal models.Principal, courseID int) (*models.Enrollment, error) {
	m.lastPrincipal = principal
	if m.err != nil {
		return nil, m.err
	}
	return m.enrollment, nil
}

func (m *mockEnrollmentService) CompleteLesson(ctx context.Context, principal models.Principal, lessonID int) error {
	m.lastPrincipal = principal
	if m.err != nil {
		return m.err
	}
	m.completedID = lessonID
	return nil
}

func (m *mockEnrollmentService) ListEnrollments(ctx context.Context, principal models.Principal, courseID int) ([]models.Enrollment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.enrollments, nil
}

// mockCertificateService is a mock implementation of CertificateService
type mockCertificateService struct {
	detail   *models.CertificateDetail
	details  []models.CertificateDetail
	filePath string
	err      error
}

func (m *mockCertificateService) List(ctx context.Context, principal models.Principal) ([]models.CertificateDetail, error) {
	return m.details, m.err
}

func (m *mockCertificateService) Get(ctx context.Context, principal models.Principal, id int) (*models.CertificateDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func (m *mockCertificateService) OpenFile(ctx context.Context, principal models.Principal, id int) (*os.File, error) {
	if m.err != nil {
		return nil, m.err
	}
	return os.Open(m.filePath)
}

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	err          error
	lastRefresh  string
	lastRegister *models.RegisterRequest
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (string, string, error) {
	m.lastRegister = req
	if m.err != nil {
		return "", "", m.err
	}
	return "access", "refresh", nil
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return "access", "refresh", nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	m.lastRefresh = refreshToken
	if m.err != nil {
		return "", "", m.err
	}
	return "access2", "refresh2", nil
}

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	user *models.User
	err  error
}

func (m *mockUserService) List(ctx context.Context, principal models.Principal) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.User{*m.user}, nil
}

func (m *mockUserService) Get(ctx context.Context, principal models.Principal, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}
