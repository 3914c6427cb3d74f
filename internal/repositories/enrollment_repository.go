package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coursehub/backend/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

func scanEnrollment(row interface{ Scan(dest ...any) error }) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	var completedAt sql.NullTime
	err := row.Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.CourseID,
		&enrollment.EnrolledAt,
		&enrollment.Completed,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		enrollment.CompletedAt = &completedAt.Time
	}
	return &enrollment, nil
}

// Create creates a new enrollment. An existing (student, course) pair returns models.ErrDuplicate.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, enrolled_at, completed, completed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.EnrolledAt,
		enrollment.Completed,
		enrollment.CompletedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("enrollment already exists: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	enrollment.ID = int(id)
	return nil
}

// GetByStudentAndCourse retrieves the enrollment of a student in a course
func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, enrolled_at, completed, completed_at
		FROM enrollments
		WHERE student_id = ? AND course_id = ?
	`

	enrollment, err := scanEnrollment(conn(ctx, r.db).QueryRowContext(ctx, query, studentID, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return enrollment, nil
}

// LockByID takes an exclusive lock on the enrollment row and returns its current state.
// Must be called inside a transaction; the lock is held until commit or rollback.
func (r *enrollmentRepository) LockByID(ctx context.Context, id int) (*models.Enrollment, error) {
	db := conn(ctx, r.db)

	// A no-op write locks the row in InnoDB and takes the write lock in SQLite
	if _, err := db.ExecContext(ctx, "UPDATE enrollments SET id = id WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to lock enrollment: %w", err)
	}

	query := `
		SELECT id, student_id, course_id, enrolled_at, completed, completed_at
		FROM enrollments
		WHERE id = ?
	`

	enrollment, err := scanEnrollment(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("enrollment %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get locked enrollment: %w", err)
	}

	return enrollment, nil
}

// MarkCompleted sets the completion snapshot of an enrollment
func (r *enrollmentRepository) MarkCompleted(ctx context.Context, id int, completedAt time.Time) error {
	query := `
		UPDATE enrollments
		SET completed = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, true, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark enrollment completed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("enrollment %w", models.ErrNotFound)
	}

	return nil
}

// ListByCourse retrieves enrollments of a course with the enrolled student embedded
func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Enrollment, error) {
	query := `
		SELECT
			e.id, e.student_id, e.course_id, e.enrolled_at, e.completed, e.completed_at,
			u.id, u.email, u.first_name, u.last_name, u.full_name, u.bio, u.role, u.created_at
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.course_id = ?
		ORDER BY e.id
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var enrollment models.Enrollment
		var completedAt sql.NullTime
		student := &models.User{}
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.CourseID,
			&enrollment.EnrolledAt,
			&enrollment.Completed,
			&completedAt,
			&student.ID,
			&student.Email,
			&student.FirstName,
			&student.LastName,
			&student.FullName,
			&student.Bio,
			&student.Role,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		if completedAt.Valid {
			enrollment.CompletedAt = &completedAt.Time
		}
		enrollment.Student = student
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, nil
}
