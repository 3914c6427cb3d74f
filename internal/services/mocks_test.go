package services

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/coursehub/backend/internal/certificates"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/notifier"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

var (
	admin      = models.Principal{UserID: 1, Role: models.RoleAdmin}
	instructor = models.Principal{UserID: 2, Role: models.RoleInstructor}
	otherTutor = models.Principal{UserID: 3, Role: models.RoleInstructor}
	student    = models.Principal{UserID: 4, Role: models.RoleStudent}
)

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	course     *models.Course
	courses    []models.Course
	owner      *models.Ownership
	err        error
	ownerErr   error
	updateErr  error
	lastFilter models.CourseFilter
	created    *models.Course
	updated    *models.UpdateCourseRequest
	deletedID  int
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.err != nil {
		return m.err
	}
	course.ID = 10
	m.created = course
	return nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *mockCourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = req
	return nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

func (m *mockCourseRepository) GetOwnerOfModule(ctx context.Context, moduleID int) (*models.Ownership, error) {
	if m.ownerErr != nil {
		return nil, m.ownerErr
	}
	return m.owner, nil
}

func (m *mockCourseRepository) GetOwnerOfLesson(ctx context.Context, lessonID int) (*models.Ownership, error) {
	if m.ownerErr != nil {
		return nil, m.ownerErr
	}
	return m.owner, nil
}

// mockModuleRepository is a mock implementation of ModuleRepository
type mockModuleRepository struct {
	module     *models.Module
	modules    []models.Module
	err        error
	createErr  error
	updateErr  error
	lastFilter models.ModuleFilter
	deletedID  int
}

func (m *mockModuleRepository) Create(ctx context.Context, module *models.Module) error {
	if m.createErr != nil {
		return m.createErr
	}
	module.ID = 20
	return nil
}

func (m *mockModuleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.module, nil
}

func (m *mockModuleRepository) List(ctx context.Context, filter models.ModuleFilter) ([]models.Module, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.modules, nil
}

func (m *mockModuleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	return m.updateErr
}

func (m *mockModuleRepository) Delete(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lesson     *models.Lesson
	lessons    []models.Lesson
	err        error
	createErr  error
	updateErr  error
	lastFilter models.LessonFilter
	updated    *models.UpdateLessonRequest
}

func (m *mockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if m.createErr != nil {
		return m.createErr
	}
	lesson.ID = 30
	return nil
}

func (m *mockLessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lesson, nil
}

func (m *mockLessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.lessons, nil
}

func (m *mockLessonRepository) Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = req
	return nil
}

func (m *mockLessonRepository) Delete(ctx context.Context, id int) error {
	return m.err
}

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	enrollment  *models.Enrollment
	enrollments []models.Enrollment
	getErr      error
	createErr   error
	lockErr     error
	markErr     error
	created     *models.Enrollment
	markedID    int
	markedAt    time.Time
	lockCalls   int
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	enrollment.ID = 40
	m.created = enrollment
	return nil
}

func (m *mockEnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Enrollment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.enrollment == nil {
		return nil, models.ErrNotFound
	}
	return m.enrollment, nil
}

func (m *mockEnrollmentRepository) LockByID(ctx context.Context, id int) (*models.Enrollment, error) {
	m.lockCalls++
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	locked := *m.enrollment
	return &locked, nil
}

func (m *mockEnrollmentRepository) MarkCompleted(ctx context.Context, id int, completedAt time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.markedID = id
	m.markedAt = completedAt
	return nil
}

func (m *mockEnrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.enrollments, nil
}

// mockProgressRepository is a mock implementation of ProgressRepository
type mockProgressRepository struct {
	total        int
	completed    int
	exists       bool
	completedIDs map[int]bool
	err          error
	createErr    error
	created      []*models.LessonProgress
}

func (m *mockProgressRepository) Create(ctx context.Context, progress *models.LessonProgress) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, progress)
	m.completed++
	return nil
}

func (m *mockProgressRepository) Exists(ctx context.Context, enrollmentID, lessonID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.exists, nil
}

func (m *mockProgressRepository) CountLessonsInCourse(ctx context.Context, courseID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockProgressRepository) CountCompletedLessons(ctx context.Context, studentID, courseID int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.completed, nil
}

func (m *mockProgressRepository) CompletedLessonIDs(ctx context.Context, studentID int) (map[int]bool, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.completedIDs, nil
}

// mockCertificateRepository is a mock implementation of CertificateRepository
type mockCertificateRepository struct {
	mu           sync.Mutex
	detail       *models.CertificateDetail
	details      []models.CertificateDetail
	err          error
	createErr    error
	updateErr    error
	created      []*models.Certificate
	lastFilter   models.CertificateFilter
	updatedFiles map[int]string
}

func (m *mockCertificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	if m.createErr != nil {
		return m.createErr
	}
	certificate.ID = 50
	m.created = append(m.created, certificate)
	return nil
}

func (m *mockCertificateRepository) GetDetailByID(ctx context.Context, id int) (*models.CertificateDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	detail := *m.detail
	return &detail, nil
}

func (m *mockCertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockCertificateRepository) ListMissingFiles(ctx context.Context) ([]models.CertificateDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockCertificateRepository) UpdateFile(ctx context.Context, id int, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updatedFiles == nil {
		m.updatedFiles = make(map[int]string)
	}
	m.updatedFiles[id] = path
	return nil
}

// mockTxManager runs the function without a real transaction
type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockIssuer records issued certificates
type mockIssuer struct {
	issued []int
}

func (m *mockIssuer) Issue(certificateID int) {
	m.issued = append(m.issued, certificateID)
}

// mockRenderer is a mock implementation of CertificateRenderer
type mockRenderer struct {
	mu       sync.Mutex
	err      error
	rendered []certificates.Content
}

func (m *mockRenderer) Render(w io.Writer, content certificates.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rendered = append(m.rendered, content)
	_, err := io.Copy(w, strings.NewReader("png"))
	return err
}

// mockStorage is a mock implementation of Storage
type mockStorage struct {
	mu        sync.Mutex
	createErr error
	openErr   error
	file      *os.File
	written   map[string]string
}

type bufferCloser struct {
	strings.Builder
	onClose func(string)
}

func (b *bufferCloser) Close() error {
	b.onClose(b.String())
	return nil
}

func (m *mockStorage) Create(relPath string) (io.WriteCloser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &bufferCloser{onClose: func(data string) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.written == nil {
			m.written = make(map[string]string)
		}
		m.written[relPath] = data
	}}, nil
}

func (m *mockStorage) Open(relPath string) (*os.File, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.file, nil
}

// mockNotifier is a mock implementation of Notifier
type mockNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notifier.CertificateMessage
}

func (m *mockNotifier) CertificateIssued(ctx context.Context, msg notifier.CertificateMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user      *models.User
	users     []models.User
	exists    bool
	err       error
	existsErr error
	createErr error
	created   *models.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 5
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}
