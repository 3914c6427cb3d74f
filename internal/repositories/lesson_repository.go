package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coursehub/backend/internal/models"
)

const lessonColumns = `l.id, l.module_id, l.title, l.content_type, l.content, l.video_url, l.pdf_url, l.sort_order`

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

func scanLesson(row interface{ Scan(dest ...any) error }) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.ModuleID,
		&lesson.Title,
		&lesson.ContentType,
		&lesson.Content,
		&lesson.VideoURL,
		&lesson.PDFURL,
		&lesson.Order,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create creates a new lesson. A taken order within the module returns models.ErrDuplicate.
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (module_id, title, content_type, content, video_url, pdf_url, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		lesson.ModuleID,
		lesson.Title,
		lesson.ContentType,
		lesson.Content,
		lesson.VideoURL,
		lesson.PDFURL,
		lesson.Order,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("lesson order %d is taken: %w", lesson.Order, models.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("module %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons l
		WHERE l.id = ?
	`, lessonColumns)

	lesson, err := scanLesson(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return lesson, nil
}

// List retrieves lessons matching the filter ordered by module and order
func (r *lessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error) {
	whereClauses := []string{}
	args := []any{}

	if filter.ModuleID != nil {
		whereClauses = append(whereClauses, "l.module_id = ?")
		args = append(args, *filter.ModuleID)
	}
	if filter.CourseID != nil {
		whereClauses = append(whereClauses, "m.course_id = ?")
		args = append(args, *filter.CourseID)
	}
	if filter.InstructorID != nil {
		whereClauses = append(whereClauses, "c.instructor_id = ?")
		args = append(args, *filter.InstructorID)
	}
	if filter.StudentID != nil {
		whereClauses = append(whereClauses, "EXISTS (SELECT 1 FROM enrollments e WHERE e.course_id = m.course_id AND e.student_id = ?)")
		args = append(args, *filter.StudentID)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM lessons l
		JOIN modules m ON m.id = l.module_id
		JOIN courses c ON c.id = m.course_id
		%s
		ORDER BY m.course_id, m.sort_order, l.sort_order
	`, lessonColumns, whereClause)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, *lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// Update applies a partial update to a lesson
func (r *lessonRepository) Update(ctx context.Context, id int, req *models.UpdateLessonRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.ContentType != nil {
		setParts = append(setParts, "content_type = ?")
		args = append(args, *req.ContentType)
	}
	if req.Content != nil {
		setParts = append(setParts, "content = ?")
		args = append(args, *req.Content)
	}
	if req.VideoURL != nil {
		setParts = append(setParts, "video_url = ?")
		args = append(args, *req.VideoURL)
	}
	if req.PDFURL != nil {
		setParts = append(setParts, "pdf_url = ?")
		args = append(args, *req.PDFURL)
	}
	if req.Order != nil {
		setParts = append(setParts, "sort_order = ?")
		args = append(args, *req.Order)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE lessons
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("lesson order %d is taken: %w", *req.Order, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	return nil
}

// Delete deletes a lesson by ID
func (r *lessonRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM lessons WHERE id = ?"

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("lesson %w", models.ErrNotFound)
	}

	return nil
}
