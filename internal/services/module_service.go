package services

import (
	"context"
	"fmt"

	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/policy"
	"github.com/coursehub/backend/internal/validation"
)

const moduleOrderTaken = "module with this order already exists in the course"

// moduleService implements module authoring and browsing
type moduleService struct {
	courseRepo     CourseRepository
	moduleRepo     ModuleRepository
	lessonRepo     LessonRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressRepository
}

// NewModuleService creates a new module service
func NewModuleService(
	courseRepo CourseRepository,
	moduleRepo ModuleRepository,
	lessonRepo LessonRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressRepository,
) *moduleService {
	return &moduleService{
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
	}
}

// List returns the modules visible to the principal:
// instructors see modules of the courses they teach, students those of their enrolled courses
func (s *moduleService) List(ctx context.Context, principal models.Principal) ([]models.Module, error) {
	id := principal.UserID
	var filter models.ModuleFilter
	switch {
	case principal.IsAdmin():
	case principal.IsInstructor():
		filter.InstructorID = &id
	default:
		filter.StudentID = &id
	}
	return s.moduleRepo.List(ctx, filter)
}

// Get returns a module with its lessons
func (s *moduleService) Get(ctx context.Context, principal models.Principal, id int) (*models.ModuleDetail, error) {
	owner, err := s.courseRepo.GetOwnerOfModule(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := canReadContent(ctx, s.enrollmentRepo, principal, owner)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}

	module, err := s.moduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.List(ctx, models.LessonFilter{ModuleID: &id})
	if err != nil {
		return nil, err
	}
	completed, err := completedLessons(ctx, s.progressRepo, principal)
	if err != nil {
		return nil, err
	}

	return &models.ModuleDetail{
		Module:  *module,
		Lessons: withCompletion(lessons, completed),
	}, nil
}

// Create adds a module to a course owned by the principal
func (s *moduleService) Create(ctx context.Context, principal models.Principal, req *models.CreateModuleRequest) (*models.Module, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if err := policy.Evaluate(principal, policy.ActionCreate, policy.Instructor(course.InstructorID)...); err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.moduleRepo.Create(ctx, module); err != nil {
		return nil, orderTaken(err, moduleOrderTaken)
	}

	return module, nil
}

// Update applies a partial update to a module of a course owned by the principal
func (s *moduleService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateModuleRequest) (*models.Module, error) {
	owner, err := s.courseRepo.GetOwnerOfModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Evaluate(principal, policy.ActionUpdate, policy.Instructor(owner.InstructorID)...); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if err := s.moduleRepo.Update(ctx, id, req); err != nil {
		return nil, orderTaken(err, moduleOrderTaken)
	}

	return s.moduleRepo.GetByID(ctx, id)
}

// Delete deletes a module of a course owned by the principal
func (s *moduleService) Delete(ctx context.Context, principal models.Principal, id int) error {
	owner, err := s.courseRepo.GetOwnerOfModule(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Evaluate(principal, policy.ActionDelete, policy.Instructor(owner.InstructorID)...); err != nil {
		return err
	}

	return s.moduleRepo.Delete(ctx, id)
}
