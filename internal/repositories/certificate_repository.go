package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coursehub/backend/internal/models"
)

const certificateDetailQuery = `
	SELECT
		ct.id, ct.enrollment_id, ct.issued_at, ct.certificate_file,
		u.id, u.email, u.first_name, u.last_name, u.full_name,
		c.id, c.title, c.instructor_id,
		e.completed_at
	FROM certificates ct
	JOIN enrollments e ON e.id = ct.enrollment_id
	JOIN users u ON u.id = e.student_id
	JOIN courses c ON c.id = e.course_id
`

type certificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *sql.DB) *certificateRepository {
	return &certificateRepository{
		db: db,
	}
}

func scanCertificateDetail(row interface{ Scan(dest ...any) error }) (*models.CertificateDetail, error) {
	var detail models.CertificateDetail
	var file sql.NullString
	var completedAt sql.NullTime
	student := models.User{}
	err := row.Scan(
		&detail.ID,
		&detail.EnrollmentID,
		&detail.IssuedAt,
		&file,
		&student.ID,
		&student.Email,
		&student.FirstName,
		&student.LastName,
		&student.FullName,
		&detail.CourseID,
		&detail.CourseTitle,
		&detail.InstructorID,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if file.Valid {
		detail.CertificateFile = &file.String
	}
	if completedAt.Valid {
		detail.CompletedAt = &completedAt.Time
	}
	detail.StudentID = student.ID
	detail.StudentEmail = student.Email
	detail.StudentName = student.DisplayName()
	detail.DisplayName = models.CertificateDisplayName(student.Email, detail.CourseTitle)
	return &detail, nil
}

// Create creates a certificate. A second certificate for the same enrollment returns models.ErrDuplicate.
func (r *certificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	query := `
		INSERT INTO certificates (enrollment_id, issued_at, certificate_file)
		VALUES (?, ?, ?)
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		certificate.EnrollmentID,
		certificate.IssuedAt,
		certificate.CertificateFile,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("certificate already issued: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	certificate.ID = int(id)
	return nil
}

// GetDetailByID retrieves a certificate joined with its student and course
func (r *certificateRepository) GetDetailByID(ctx context.Context, id int) (*models.CertificateDetail, error) {
	query := certificateDetailQuery + " WHERE ct.id = ?"

	detail, err := scanCertificateDetail(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("certificate %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate by id: %w", err)
	}

	return detail, nil
}

// List retrieves certificates matching the filter ordered by ID
func (r *certificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.CertificateDetail, error) {
	whereClauses := []string{}
	args := []any{}

	if filter.StudentID != nil {
		whereClauses = append(whereClauses, "e.student_id = ?")
		args = append(args, *filter.StudentID)
	}
	if filter.InstructorID != nil {
		whereClauses = append(whereClauses, "c.instructor_id = ?")
		args = append(args, *filter.InstructorID)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := certificateDetailQuery + whereClause + " ORDER BY ct.id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	certificates := []models.CertificateDetail{}
	for rows.Next() {
		detail, err := scanCertificateDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certificates = append(certificates, *detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certificates, nil
}

// ListMissingFiles retrieves certificates that have no rendered artifact yet
func (r *certificateRepository) ListMissingFiles(ctx context.Context) ([]models.CertificateDetail, error) {
	query := certificateDetailQuery + " WHERE ct.certificate_file IS NULL ORDER BY ct.id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	certificates := []models.CertificateDetail{}
	for rows.Next() {
		detail, err := scanCertificateDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certificates = append(certificates, *detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certificates, nil
}

// UpdateFile stores the relative path of the rendered artifact
func (r *certificateRepository) UpdateFile(ctx context.Context, id int, path string) error {
	query := "UPDATE certificates SET certificate_file = ? WHERE id = ?"

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, path, id); err != nil {
		return fmt.Errorf("failed to update certificate file: %w", err)
	}

	return nil
}
