package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/policy"
	"go.uber.org/zap"
)

// CertificateIssuer hands a freshly issued certificate over for rendering.
// Issue must not block the caller.
type CertificateIssuer interface {
	Issue(certificateID int)
}

// enrollmentService implements enrollment and lesson completion
type enrollmentService struct {
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressRepository
	txManager      TxManager
	completion     *completionCheck
	issuer         CertificateIssuer
	clock          Clock
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressRepository,
	certificateRepo CertificateRepository,
	txManager TxManager,
	issuer CertificateIssuer,
	clock Clock,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		txManager:      txManager,
		completion:     newCompletionCheck(enrollmentRepo, certificateRepo, NewProgressCalculator(progressRepo), clock),
		issuer:         issuer,
		clock:          clock,
		logger:         logger,
	}
}

// Enroll enrolls the principal in a published course
func (s *enrollmentService) Enroll(ctx context.Context, principal models.Principal, courseID int) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrCourseNotAvailable
		}
		return nil, err
	}

	if err := policy.Evaluate(principal, policy.ActionEnroll,
		policy.EnrollActionCheck{},
		policy.AvailabilityCheck{Published: course.IsPublished},
	); err != nil {
		return nil, err
	}

	_, err = s.enrollmentRepo.GetByStudentAndCourse(ctx, principal.UserID, courseID)
	if err == nil {
		return nil, models.ErrAlreadyEnrolled
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:  principal.UserID,
		CourseID:   courseID,
		EnrolledAt: s.clock(),
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		// A concurrent request enrolled first
		if errors.Is(err, models.ErrDuplicate) {
			return nil, models.ErrAlreadyEnrolled
		}
		return nil, err
	}

	return enrollment, nil
}

// CompleteLesson records a completed lesson for the principal and, when it was
// the last missing lesson of the course, completes the enrollment and issues
// the certificate. The certificate is rendered after the transaction commits.
func (s *enrollmentService) CompleteLesson(ctx context.Context, principal models.Principal, lessonID int) error {
	if err := policy.Evaluate(principal, policy.ActionComplete,
		policy.RoleCheck{Roles: []models.Role{models.RoleStudent}},
	); err != nil {
		return err
	}

	owner, err := s.courseRepo.GetOwnerOfLesson(ctx, lessonID)
	if err != nil {
		return err
	}

	enrollment, err := s.enrollmentRepo.GetByStudentAndCourse(ctx, principal.UserID, owner.CourseID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotEnrolled
		}
		return err
	}

	var issued *models.Certificate
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.enrollmentRepo.LockByID(ctx, enrollment.ID)
		if err != nil {
			return err
		}

		exists, err := s.progressRepo.Exists(ctx, locked.ID, lessonID)
		if err != nil {
			return err
		}
		if exists {
			return models.ErrAlreadyCompleted
		}

		progress := &models.LessonProgress{
			EnrollmentID: locked.ID,
			LessonID:     lessonID,
			CompletedAt:  s.clock(),
		}
		if err := s.progressRepo.Create(ctx, progress); err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				return models.ErrAlreadyCompleted
			}
			return err
		}

		issued, err = s.completion.Run(ctx, locked)
		return err
	})
	if err != nil {
		return err
	}

	if issued != nil {
		s.logger.Info("certificate issued",
			zap.Int("certificate_id", issued.ID),
			zap.Int("enrollment_id", enrollment.ID),
			zap.Int("student_id", principal.UserID),
			zap.Int("course_id", owner.CourseID),
		)
		s.issuer.Issue(issued.ID)
	}

	return nil
}

// ListEnrollments lists the enrollments of a course for its instructor or an admin
func (s *enrollmentService) ListEnrollments(ctx context.Context, principal models.Principal, courseID int) ([]models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := policy.Evaluate(principal, policy.ActionListEnrollments,
		policy.OwnershipCheck{OwnerID: course.InstructorID, AllowAdmin: true},
	); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}
