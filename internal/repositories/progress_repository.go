package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coursehub/backend/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new lesson progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// Create records a completed lesson. A repeated (enrollment, lesson) pair returns models.ErrDuplicate.
func (r *progressRepository) Create(ctx context.Context, progress *models.LessonProgress) error {
	query := `
		INSERT INTO lesson_progress (enrollment_id, lesson_id, completed_at)
		VALUES (?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, progress.EnrollmentID, progress.LessonID, progress.CompletedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("lesson progress already exists: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create lesson progress: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	progress.ID = int(id)
	return nil
}

// Exists checks if a lesson is already completed within an enrollment
func (r *progressRepository) Exists(ctx context.Context, enrollmentID, lessonID int) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM lesson_progress WHERE enrollment_id = ? AND lesson_id = ?)"
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx, query, enrollmentID, lessonID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check lesson progress existence: %w", err)
	}
	return exists, nil
}

// CountLessonsInCourse counts lessons whose module belongs to the course
func (r *progressRepository) CountLessonsInCourse(ctx context.Context, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		WHERE m.course_id = ?
	`

	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, courseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return total, nil
}

// CountCompletedLessons counts lessons of the course the student completed through
// their enrollment in that course
func (r *progressRepository) CountCompletedLessons(ctx context.Context, studentID, courseID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress lp
		JOIN enrollments e ON e.id = lp.enrollment_id
		JOIN lessons l ON l.id = lp.lesson_id
		JOIN modules m ON m.id = l.module_id
		WHERE e.student_id = ? AND e.course_id = ? AND m.course_id = ?
	`

	var completed int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, studentID, courseID, courseID).Scan(&completed); err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}
	return completed, nil
}

// CompletedLessonIDs returns the set of lesson IDs the student completed in any course
func (r *progressRepository) CompletedLessonIDs(ctx context.Context, studentID int) (map[int]bool, error) {
	query := `
		SELECT lp.lesson_id
		FROM lesson_progress lp
		JOIN enrollments e ON e.id = lp.enrollment_id
		WHERE e.student_id = ?
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	completed := make(map[int]bool)
	for rows.Next() {
		var lessonID int
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("failed to scan lesson id: %w", err)
		}
		completed[lessonID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return completed, nil
}
