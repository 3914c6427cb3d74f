package services

import (
	"context"
	"fmt"

	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/policy"
	"github.com/coursehub/backend/internal/validation"
)

const lessonOrderTaken = "lesson with this order already exists in the module"

// lessonService implements lesson authoring and browsing
type lessonService struct {
	courseRepo     CourseRepository
	lessonRepo     LessonRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(
	courseRepo CourseRepository,
	lessonRepo LessonRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressRepository,
) *lessonService {
	return &lessonService{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
	}
}

// List returns the lessons visible to the principal with their completion flags:
// instructors see lessons of the courses they teach, students those of their enrolled courses
func (s *lessonService) List(ctx context.Context, principal models.Principal) ([]models.LessonDetail, error) {
	id := principal.UserID
	var filter models.LessonFilter
	switch {
	case principal.IsAdmin():
	case principal.IsInstructor():
		filter.InstructorID = &id
	default:
		filter.StudentID = &id
	}

	lessons, err := s.lessonRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	completed, err := completedLessons(ctx, s.progressRepo, principal)
	if err != nil {
		return nil, err
	}

	return withCompletion(lessons, completed), nil
}

// Get returns a lesson with the completion flag of the principal
func (s *lessonService) Get(ctx context.Context, principal models.Principal, id int) (*models.LessonDetail, error) {
	owner, err := s.courseRepo.GetOwnerOfLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := canReadContent(ctx, s.enrollmentRepo, principal, owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("lesson %w", models.ErrNotFound)
	}

	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	completed, err := completedLessons(ctx, s.progressRepo, principal)
	if err != nil {
		return nil, err
	}

	return &models.LessonDetail{Lesson: *lesson, Completed: completed[lesson.ID]}, nil
}

// Create adds a lesson to a module of a course owned by the principal
func (s *lessonService) Create(ctx context.Context, principal models.Principal, req *models.CreateLessonRequest) (*models.Lesson, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	owner, err := s.courseRepo.GetOwnerOfModule(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if err := policy.Evaluate(principal, policy.ActionCreate, policy.Instructor(owner.InstructorID)...); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		ModuleID:    req.ModuleID,
		Title:       req.Title,
		ContentType: req.ContentType,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		PDFURL:      req.PDFURL,
		Order:       req.Order,
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, orderTaken(err, lessonOrderTaken)
	}

	return lesson, nil
}

// Update applies a partial update to a lesson of a course owned by the principal.
// The merged lesson must still carry the payload its content type requires.
func (s *lessonService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateLessonRequest) (*models.Lesson, error) {
	owner, err := s.courseRepo.GetOwnerOfLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Evaluate(principal, policy.ActionUpdate, policy.Instructor(owner.InstructorID)...); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(mergeLesson(*current, req)); err != nil {
		return nil, err
	}

	if err := s.lessonRepo.Update(ctx, id, req); err != nil {
		return nil, orderTaken(err, lessonOrderTaken)
	}

	return s.lessonRepo.GetByID(ctx, id)
}

// Delete deletes a lesson of a course owned by the principal
func (s *lessonService) Delete(ctx context.Context, principal models.Principal, id int) error {
	owner, err := s.courseRepo.GetOwnerOfLesson(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Evaluate(principal, policy.ActionDelete, policy.Instructor(owner.InstructorID)...); err != nil {
		return err
	}

	return s.lessonRepo.Delete(ctx, id)
}

func mergeLesson(lesson models.Lesson, req *models.UpdateLessonRequest) models.Lesson {
	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.ContentType != nil {
		lesson.ContentType = *req.ContentType
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.PDFURL != nil {
		lesson.PDFURL = *req.PDFURL
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	return lesson
}

// validatePayload checks that the field required by the content type is set
func validatePayload(lesson models.Lesson) error {
	switch lesson.ContentType {
	case models.ContentTypeText:
		if lesson.Content == "" {
			return models.NewValidationError("content", "content is required for TEXT lessons")
		}
	case models.ContentTypeVideo:
		if lesson.VideoURL == "" {
			return models.NewValidationError("videoUrl", "videoUrl is required for VIDEO lessons")
		}
	case models.ContentTypePDF:
		if lesson.PDFURL == "" {
			return models.NewValidationError("pdfUrl", "pdfUrl is required for PDF lessons")
		}
	}
	return nil
}
