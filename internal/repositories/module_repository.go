package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coursehub/backend/internal/models"
)

type moduleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *sql.DB) *moduleRepository {
	return &moduleRepository{
		db: db,
	}
}

// Create creates a new module. A taken order within the course returns models.ErrDuplicate.
func (r *moduleRepository) Create(ctx context.Context, module *models.Module) error {
	query := `
		INSERT INTO modules (course_id, title, description, sort_order)
		VALUES (?, ?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		module.CourseID,
		module.Title,
		module.Description,
		module.Order,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("module order %d is taken: %w", module.Order, models.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("course %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create module: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	module.ID = int(id)
	return nil
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(ctx context.Context, id int) (*models.Module, error) {
	query := `
		SELECT id, course_id, title, description, sort_order
		FROM modules
		WHERE id = ?
	`

	var module models.Module
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&module.ID,
		&module.CourseID,
		&module.Title,
		&module.Description,
		&module.Order,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("module %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get module by id: %w", err)
	}

	return &module, nil
}

// List retrieves modules matching the filter ordered by course and order
func (r *moduleRepository) List(ctx context.Context, filter models.ModuleFilter) ([]models.Module, error) {
	whereClauses := []string{}
	args := []any{}

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
		SELECT m.id, m.course_id, m.title, m.description, m.sort_order
		FROM modules m
		JOIN courses c ON c.id = m.course_id
		%s
		ORDER BY m.course_id, m.sort_order
	`, whereClause)

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query modules: %w", err)
	}
	defer rows.Close()

	modules := []models.Module{}
	for rows.Next() {
		var module models.Module
		if err := rows.Scan(&module.ID, &module.CourseID, &module.Title, &module.Description, &module.Order); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, module)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return modules, nil
}

// Update applies a partial update to a module
func (r *moduleRepository) Update(ctx context.Context, id int, req *models.UpdateModuleRequest) error {
	var setParts []string
	var args []any

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Order != nil {
		setParts = append(setParts, "sort_order = ?")
		args = append(args, *req.Order)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE modules
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, id)

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("module order %d is taken: %w", *req.Order, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update module: %w", err)
	}

	return nil
}

// Delete deletes a module by ID. Lessons and their progress cascade.
func (r *moduleRepository) Delete(ctx context.Context, id int) error {
	query := "DELETE FROM modules WHERE id = ?"

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("module %w", models.ErrNotFound)
	}

	return nil
}
