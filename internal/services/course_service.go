package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/policy"
	"github.com/coursehub/backend/internal/validation"
)

// courseService implements course authoring and browsing
type courseService struct {
	courseRepo     CourseRepository
	moduleRepo     ModuleRepository
	lessonRepo     LessonRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressRepository
	progress       *ProgressCalculator
	clock          Clock
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo CourseRepository,
	moduleRepo ModuleRepository,
	lessonRepo LessonRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressRepository,
	clock Clock,
) *courseService {
	return &courseService{
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		progress:       NewProgressCalculator(progressRepo),
		clock:          clock,
	}
}

// List returns the courses visible to the principal:
// admins see all, instructors their own, students the published ones
func (s *courseService) List(ctx context.Context, principal models.Principal) ([]models.Course, error) {
	var filter models.CourseFilter
	switch {
	case principal.IsAdmin():
	case principal.IsInstructor():
		id := principal.UserID
		filter.InstructorID = &id
	default:
		filter.OnlyPublished = true
	}
	return s.courseRepo.List(ctx, filter)
}

// Get returns a course with its modules and lessons.
// Progress is filled in when the principal is enrolled.
func (s *courseService) Get(ctx context.Context, principal models.Principal, id int) (*models.CourseDetail, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := &models.Ownership{CourseID: course.ID, InstructorID: course.InstructorID, IsPublished: course.IsPublished}
	if !canReadCourse(principal, owner) {
		return nil, models.ErrCourseNotAvailable
	}

	modules, err := s.moduleRepo.List(ctx, models.ModuleFilter{CourseID: &course.ID})
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.List(ctx, models.LessonFilter{CourseID: &course.ID})
	if err != nil {
		return nil, err
	}
	completed, err := completedLessons(ctx, s.progressRepo, principal)
	if err != nil {
		return nil, err
	}

	byModule := make(map[int][]models.LessonDetail, len(modules))
	for _, lesson := range withCompletion(lessons, completed) {
		byModule[lesson.ModuleID] = append(byModule[lesson.ModuleID], lesson)
	}

	detail := &models.CourseDetail{
		Course:  *course,
		Modules: make([]models.ModuleDetail, 0, len(modules)),
	}
	for _, module := range modules {
		moduleLessons := byModule[module.ID]
		if moduleLessons == nil {
			moduleLessons = []models.LessonDetail{}
		}
		detail.Modules = append(detail.Modules, models.ModuleDetail{Module: module, Lessons: moduleLessons})
	}

	_, err = s.enrollmentRepo.GetByStudentAndCourse(ctx, principal.UserID, course.ID)
	switch {
	case err == nil:
		progress, err := s.progress.Progress(ctx, course.ID, principal.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate progress: %w", err)
		}
		detail.Progress = &progress
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	return detail, nil
}

// Create creates a course taught by the principal
func (s *courseService) Create(ctx context.Context, principal models.Principal, req *models.CreateCourseRequest) (*models.Course, error) {
	if err := policy.Evaluate(principal, policy.ActionCreate,
		policy.RoleCheck{Roles: []models.Role{models.RoleInstructor}},
	); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	now := s.clock()
	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: principal.UserID,
		IsPublished:  req.IsPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Update applies a partial update to a course owned by the principal
func (s *courseService) Update(ctx context.Context, principal models.Principal, id int, req *models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Evaluate(principal, policy.ActionUpdate, policy.Instructor(course.InstructorID)...); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, id, req, s.clock()); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, id)
}

// Delete deletes a course owned by the principal
func (s *courseService) Delete(ctx context.Context, principal models.Principal, id int) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Evaluate(principal, policy.ActionDelete, policy.Instructor(course.InstructorID)...); err != nil {
		return err
	}

	return s.courseRepo.Delete(ctx, id)
}
