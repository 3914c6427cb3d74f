package services

import (
	"context"
)

// ProgressCalculator computes the completion percentage of a student in a course.
// Nothing is cached: every call counts rows, on the transaction when ctx carries one.
type ProgressCalculator struct {
	repo ProgressRepository
}

// NewProgressCalculator creates a new progress calculator
func NewProgressCalculator(repo ProgressRepository) *ProgressCalculator {
	return &ProgressCalculator{repo: repo}
}

// Progress returns completed/total*100 for the lessons of the course.
// A course without lessons has progress 0.
func (c *ProgressCalculator) Progress(ctx context.Context, courseID, studentID int) (float64, error) {
	total, err := c.repo.CountLessonsInCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := c.repo.CountCompletedLessons(ctx, studentID, courseID)
	if err != nil {
		return 0, err
	}

	return float64(completed) / float64(total) * 100, nil
}
