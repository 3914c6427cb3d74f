package services

import (
	"context"
	"errors"

	"github.com/coursehub/backend/internal/models"
)

// canReadCourse reports whether the principal may read a course and its content.
// Unpublished courses are visible to their instructor and to admins only.
func canReadCourse(principal models.Principal, owner *models.Ownership) bool {
	return principal.IsAdmin() || owner.InstructorID == principal.UserID || owner.IsPublished
}

// canReadContent additionally requires students to be enrolled in the course
func canReadContent(ctx context.Context, enrollmentRepo EnrollmentRepository, principal models.Principal, owner *models.Ownership) (bool, error) {
	if !canReadCourse(principal, owner) {
		return false, nil
	}
	if !principal.IsStudent() {
		return true, nil
	}

	_, err := enrollmentRepo.GetByStudentAndCourse(ctx, principal.UserID, owner.CourseID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// completedLessons returns the lessons completed by a student principal, or nil for other roles
func completedLessons(ctx context.Context, progressRepo ProgressRepository, principal models.Principal) (map[int]bool, error) {
	if !principal.IsStudent() {
		return nil, nil
	}
	return progressRepo.CompletedLessonIDs(ctx, principal.UserID)
}

// withCompletion attaches completion flags to lessons
func withCompletion(lessons []models.Lesson, completed map[int]bool) []models.LessonDetail {
	details := make([]models.LessonDetail, 0, len(lessons))
	for _, lesson := range lessons {
		details = append(details, models.LessonDetail{
			Lesson:    lesson,
			Completed: completed[lesson.ID],
		})
	}
	return details
}

// orderTaken converts a duplicate order into a validation error on the order field
func orderTaken(err error, message string) error {
	if errors.Is(err, models.ErrDuplicate) {
		return models.NewValidationError("order", message)
	}
	return err
}
