package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coursehub/backend/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, instructor_id, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.InstructorID,
		course.IsPublished,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `
		SELECT id, title, description, instructor_id, is_published, created_at, updated_at
		FROM courses
		WHERE id = ?
	`

	var course models.Course
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.InstructorID,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return &course, nil
}

// List retrieves courses matching the filter ordered by ID
func (r *courseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	whereClauses := []string{}
	args := []any{}

	if filter.InstructorID != nil {
		whereClauses = append(whereClauses, "instructor_id = ?")
		args = append(args, *filter.InstructorID)
	}
	if filter.OnlyPublished {
		whereClauses = append(whereClauses, "is_published = ?")
		args = append(args, true)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, instructor_id, is_published, created_at, updated_at
		FROM courses
		%s
		ORDER BY id
	`, whereClause)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.InstructorID,
			&course.IsPublished,
			&course.CreatedAt,
			&course.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, nil
}

// Update applies a partial update to a course
func (r *courseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest, updatedAt time.Time) error {
	setParts := []string{"updated_at = ?"}
	args := []any{updatedAt}

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.IsPublished != nil {
		setParts = append(setParts, "is_published = ?")
		args = append(args, *req.IsPublished)
	}

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// updated_at always changes, so zero rows means the course is gone
	if rowsAffected == 0 {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}

	return nil
}

// Delete deletes a course by ID. Modules, lessons, enrollments and certificates cascade.
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM courses WHERE id = ?"

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("course %w", models.ErrNotFound)
	}

	return nil
}

// GetOwnerOfModule resolves the course, instructor and publication state of a module
func (r *courseRepository) GetOwnerOfModule(ctx context.Context, moduleID int) (*models.Ownership, error) {
	query := `
		SELECT c.id, c.instructor_id, c.is_published
		FROM modules m
		JOIN courses c ON c.id = m.course_id
		WHERE m.id = ?
	`

	var owner models.Ownership
	err := conn(ctx, r.db).QueryRowContext(ctx, query, moduleID).Scan(&owner.CourseID, &owner.InstructorID, &owner.IsPublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module owner: %w", err)
	}

	return &owner, nil
}

// GetOwnerOfLesson resolves the course, instructor and publication state of a lesson
// through its module
func (r *courseRepository) GetOwnerOfLesson(ctx context.Context, lessonID int) (*models.Ownership, error) {
	query := `
		SELECT c.id, c.instructor_id, c.is_published
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		JOIN courses c ON c.id = m.course_id
		WHERE l.id = ?
	`

	var owner models.Ownership
	err := conn(ctx, r.db).QueryRowContext(ctx, query, lessonID).Scan(&owner.CourseID, &owner.InstructorID, &owner.IsPublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson owner: %w", err)
	}

	return &owner, nil
}
