package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursehub/backend/internal/models"
)

// completionCheck moves an enrollment to completed and issues its certificate
// when the student's progress reaches 100
type completionCheck struct {
	enrollmentRepo  EnrollmentRepository
	certificateRepo CertificateRepository
	progress        *ProgressCalculator
	clock           Clock
}

func newCompletionCheck(enrollmentRepo EnrollmentRepository, certificateRepo CertificateRepository, progress *ProgressCalculator, clock Clock) *completionCheck {
	return &completionCheck{
		enrollmentRepo:  enrollmentRepo,
		certificateRepo: certificateRepo,
		progress:        progress,
		clock:           clock,
	}
}

// Run evaluates the completion of a locked enrollment inside the caller's transaction.
//
// It returns the issued certificate, or nil when nothing changed: the enrollment
// was already completed, progress is below 100, or a certificate already exists.
func (c *completionCheck) Run(ctx context.Context, enrollment *models.Enrollment) (*models.Certificate, error) {
	if enrollment.Completed {
		return nil, nil
	}

	progress, err := c.progress.Progress(ctx, enrollment.CourseID, enrollment.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate progress: %w", err)
	}
	if progress != 100 {
		return nil, nil
	}

	now := c.clock()
	if err := c.enrollmentRepo.MarkCompleted(ctx, enrollment.ID, now); err != nil {
		return nil, err
	}
	enrollment.Completed = true
	enrollment.CompletedAt = &now

	certificate := &models.Certificate{
		EnrollmentID: enrollment.ID,
		IssuedAt:     now,
	}
	if err := c.certificateRepo.Create(ctx, certificate); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, nil
		}
		return nil, err
	}

	return certificate, nil
}
