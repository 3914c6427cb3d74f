package services

import (
	"context"
	"time"

	"github.com/coursehub/backend/internal/models"
)

// TxManager runs a function inside a database transaction
type TxManager interface {
	// WithinTx runs fn in a transaction joined by every repository call made with the context passed to fn.
	//
	// "ctx" is the context for the request.
	// "fn" is the unit of work. Returning an error rolls the transaction back.
	//
	// Returns the error of fn or of the commit.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock returns the current time. Services store the result as UTC.
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// CourseRepository defines methods for course data access
type CourseRepository interface {
	// Create creates a new course
	//
	// "ctx" is the context for the request.
	// "course" is the course to create. Its ID is set on success.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course or an error wrapping models.ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// List retrieves courses matching the filter
	//
	// "ctx" is the context for the request.
	// "filter" narrows the list. A zero filter returns every course.
	//
	// Returns a list of courses and an error if any.
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	// Update applies a partial update to a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "req" holds the fields to change. Nil fields are left untouched.
	// "updatedAt" is stored as the new update time.
	//
	// Returns an error wrapping models.ErrNotFound when the course does not exist.
	Update(ctx context.Context, id int, req *models.UpdateCourseRequest, updatedAt time.Time) error
	// Delete deletes a course and everything that belongs to it
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns an error wrapping models.ErrNotFound when the course does not exist.
	Delete(ctx context.Context, id int) error
	// GetOwnerOfModule resolves the course of a module
	//
	// "ctx" is the context for the request.
	// "moduleID" is the ID of the module.
	//
	// Returns the ownership of the module's course or an error wrapping models.ErrNotFound.
	GetOwnerOfModule(ctx context.Context, moduleID int) (*models.Ownership, error)
	// GetOwnerOfLesson resolves the course of a lesson through its module
	//
	// "ctx" is the context for the request.
	// "lessonID" is the ID of the lesson.
	//
	// Returns the ownership of the lesson's course or an error wrapping models.ErrNotFound.
	GetOwnerOfLesson(ctx context.Context, lessonID int) (*models.Ownership, error)
}

// ModuleRepository defines methods for module data access
type ModuleRepository interface {
	// Create creates a new module. A taken order returns an error wrapping models.ErrDuplicate.
	Create(ctx context.Context, module *models.Module) error
	// GetByID retrieves a module by ID
	GetByID(ctx context.Context, id int) (*models.Module, error)
	// List retrieves modules matching the filter ordered by course and order
	List(ctx context.Context, filter models.ModuleFilter) ([]models.Module, error)
	// Update applies a partial update. A taken order returns an error wrapping models.ErrDuplicate.
	Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error
	// Delete deletes a module
	Delete(ctx context.Context, id int) error
}

// LessonRepository defines methods for lesson data access
type LessonRepository interface {
	// Create creates a new lesson. A taken order returns an error wrapping models.ErrDuplicate.
	Create(ctx context.Context, lesson *models.Lesson) error
	// GetByID retrieves a lesson by ID
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// List retrieves lessons matching the filter ordered by course, module order and lesson order
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error)
	// Update applies a partial update. A taken order returns an error wrapping models.ErrDuplicate.
	Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error
	// Delete deletes a lesson
	Delete(ctx context.Context, id int) error
}

// EnrollmentRepository defines methods for enrollment data access
type EnrollmentRepository interface {
	// Create creates a new enrollment
	//
	// "ctx" is the context for the request.
	// "enrollment" is the enrollment to create. Its ID is set on success.
	//
	// Returns an error wrapping models.ErrDuplicate when the student is already enrolled.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	// GetByStudentAndCourse retrieves the enrollment of a student in a course
	//
	// "ctx" is the context for the request.
	// "studentID" is the ID of the student.
	// "courseID" is the ID of the course.
	//
	// Returns the enrollment or an error wrapping models.ErrNotFound.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Enrollment, error)
	// LockByID locks the enrollment row until the surrounding transaction ends
	//
	// "ctx" is the context carrying the transaction.
	// "id" is the ID of the enrollment.
	//
	// Returns the enrollment as seen under the lock and an error if any.
	LockByID(ctx context.Context, id int) (*models.Enrollment, error)
	// MarkCompleted sets the completion flag and time of an enrollment
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the enrollment.
	// "completedAt" is the completion time.
	//
	// Returns an error if any.
	MarkCompleted(ctx context.Context, id int, completedAt time.Time) error
	// ListByCourse retrieves the enrollments of a course with their students
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	//
	// Returns a list of enrollments and an error if any.
	ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error)
}

// ProgressRepository defines methods for lesson progress data access
type ProgressRepository interface {
	// Create records a completed lesson. A repeated lesson returns an error wrapping models.ErrDuplicate.
	Create(ctx context.Context, progress *models.LessonProgress) error
	// Exists checks if the lesson was completed within the enrollment
	Exists(ctx context.Context, enrollmentID, lessonID int) (bool, error)
	// CountLessonsInCourse counts the lessons of a course
	CountLessonsInCourse(ctx context.Context, courseID int) (int, error)
	// CountCompletedLessons counts the lessons of a course completed by a student
	CountCompletedLessons(ctx context.Context, studentID, courseID int) (int, error)
	// CompletedLessonIDs returns the set of lessons completed by a student
	CompletedLessonIDs(ctx context.Context, studentID int) (map[int]bool, error)
}

// CertificateRepository defines methods for certificate data access
type CertificateRepository interface {
	// Create creates a certificate. A second certificate for the enrollment returns an error wrapping models.ErrDuplicate.
	Create(ctx context.Context, certificate *models.Certificate) error
	// GetDetailByID retrieves a certificate with its student and course
	GetDetailByID(ctx context.Context, id int) (*models.CertificateDetail, error)
	// List retrieves certificates matching the filter
	List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error)
	// ListMissingFiles retrieves certificates whose artifact was never stored
	ListMissingFiles(ctx context.Context) ([]models.CertificateDetail, error)
	// UpdateFile stores the relative path of the rendered artifact
	UpdateFile(ctx context.Context, id int, path string) error
}
