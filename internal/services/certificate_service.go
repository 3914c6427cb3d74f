package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coursehub/backend/internal/certificates"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/notifier"
	"go.uber.org/zap"
)

const renderTimeout = 2 * time.Minute

// CertificateRenderer draws a certificate image
type CertificateRenderer interface {
	// Render writes the certificate as PNG to w
	//
	// "w" is the destination of the encoded image.
	// "content" is the text printed on the certificate.
	//
	// Returns an error if drawing or encoding fails.
	Render(w io.Writer, content certificates.Content) error
}

// Storage stores rendered artifacts under slash-separated relative paths
type Storage interface {
	// Create creates or replaces the file at relPath
	Create(relPath string) (io.WriteCloser, error)
	// Open opens the file at relPath for reading
	Open(relPath string) (*os.File, error)
}

// Notifier tells a student their certificate is ready
type Notifier interface {
	CertificateIssued(ctx context.Context, msg notifier.CertificateMessage) error
}

// certificateService implements certificate listing, downloads and rendering
type certificateService struct {
	certificateRepo CertificateRepository
	renderer        CertificateRenderer
	storage         Storage
	notifier        Notifier
	mediaBasePath   string
	logger          *zap.Logger
	wg              sync.WaitGroup
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certificateRepo CertificateRepository,
	renderer CertificateRenderer,
	storage Storage,
	notifier Notifier,
	mediaBasePath string,
	logger *zap.Logger,
) *certificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		renderer:        renderer,
		storage:         storage,
		notifier:        notifier,
		mediaBasePath:   mediaBasePath,
		logger:          logger,
	}
}

// certificateFilter returns the certificates a principal may see:
// instructors see the certificates of the courses they teach, everybody else their own
func certificateFilter(principal models.Principal) models.CertificateFilter {
	id := principal.UserID
	if principal.IsInstructor() {
		return models.CertificateFilter{InstructorID: &id}
	}
	return models.CertificateFilter{StudentID: &id}
}

func canSeeCertificate(principal models.Principal, certificate *models.CertificateDetail) bool {
	if principal.IsInstructor() {
		return certificate.InstructorID == principal.UserID
	}
	return certificate.StudentID == principal.UserID
}

// List returns the certificates visible to the principal
func (s *certificateService) List(ctx context.Context, principal models.Principal) ([]models.CertificateDetail, error) {
	return s.certificateRepo.List(ctx, certificateFilter(principal))
}

// Get returns a certificate visible to the principal.
// Certificates of other users look like missing ones.
func (s *certificateService) Get(ctx context.Context, principal models.Principal, id int) (*models.CertificateDetail, error) {
	certificate, err := s.certificateRepo.GetDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeCertificate(principal, certificate) {
		return nil, fmt.Errorf("certificate %w", models.ErrNotFound)
	}
	return certificate, nil
}

// OpenFile opens the rendered artifact of a visible certificate.
// The caller closes the returned file.
func (s *certificateService) OpenFile(ctx context.Context, principal models.Principal, id int) (*os.File, error) {
	certificate, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if certificate.CertificateFile == nil {
		return nil, fmt.Errorf("certificate file %w", models.ErrNotFound)
	}

	file, err := s.storage.Open(*certificate.CertificateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("certificate file %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open certificate file: %w", err)
	}
	return file, nil
}

// Issue renders the certificate in the background. Failures are logged only.
func (s *certificateService) Issue(certificateID int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()

		if err := s.Render(ctx, certificateID); err != nil {
			s.logger.Error("failed to render certificate",
				zap.Int("certificate_id", certificateID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every background rendering has finished
func (s *certificateService) Wait() {
	s.wg.Wait()
}

// Render draws the certificate, stores the artifact and records its path.
// Rendering again overwrites the artifact.
func (s *certificateService) Render(ctx context.Context, certificateID int) error {
	certificate, err := s.certificateRepo.GetDetailByID(ctx, certificateID)
	if err != nil {
		return err
	}
	return s.render(ctx, certificate)
}

func (s *certificateService) render(ctx context.Context, certificate *models.CertificateDetail) error {
	completedOn := certificate.IssuedAt
	if certificate.CompletedAt != nil {
		completedOn = *certificate.CompletedAt
	}

	var buf bytes.Buffer
	err := s.renderer.Render(&buf, certificates.Content{
		StudentName: certificate.StudentName,
		CourseTitle: certificate.CourseTitle,
		CompletedOn: completedOn,
	})
	if err != nil {
		return err
	}

	path := certificates.FilePath(certificate.StudentID, certificate.CourseID)
	w, err := s.storage.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create certificate file: %w", err)
	}
	_, err = io.Copy(w, &buf)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write certificate file: %w", err)
	}

	if err := s.certificateRepo.UpdateFile(ctx, certificate.ID, path); err != nil {
		return err
	}

	s.logger.Info("certificate rendered",
		zap.Int("certificate_id", certificate.ID),
		zap.String("path", path),
	)

	err = s.notifier.CertificateIssued(ctx, notifier.CertificateMessage{
		To:             certificate.StudentEmail,
		StudentName:    certificate.StudentName,
		CourseTitle:    certificate.CourseTitle,
		AttachmentPath: filepath.Join(s.mediaBasePath, filepath.FromSlash(path)),
	})
	if err != nil {
		s.logger.Warn("failed to email certificate",
			zap.Int("certificate_id", certificate.ID),
			zap.Error(err),
		)
	}

	return nil
}

// RenderMissing renders every certificate whose artifact was never stored.
// It keeps going past failures and returns how many were rendered.
func (s *certificateService) RenderMissing(ctx context.Context) (int, error) {
	missing, err := s.certificateRepo.ListMissingFiles(ctx)
	if err != nil {
		return 0, err
	}

	rendered := 0
	var errs []error
	for i := range missing {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.render(ctx, &missing[i]); err != nil {
			s.logger.Error("failed to render certificate",
				zap.Int("certificate_id", missing[i].ID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("certificate %d: %w", missing[i].ID, err))
			continue
		}
		rendered++
	}

	return rendered, errors.Join(errs...)
}
