package models

import (
	"fmt"
	"time"
)

// Certificate is issued once per completed enrollment
type Certificate struct {
	ID              int       `json:"id"`
	EnrollmentID    int       `json:"enrollmentId"`
	IssuedAt        time.Time `json:"issuedAt"`
	CertificateFile *string   `json:"certificateFile"`
}

// CertificateDetail represents a certificate joined with its enrollment, student and course
type CertificateDetail struct {
	Certificate
	StudentID    int        `json:"studentId"`
	StudentEmail string     `json:"studentEmail"`
	StudentName  string     `json:"studentName"`
	CourseID     int        `json:"courseId"`
	CourseTitle  string     `json:"courseTitle"`
	InstructorID int        `json:"instructorId"`
	CompletedAt  *time.Time `json:"completedAt"`
	DisplayName  string     `json:"displayName"`
}

// CertificateDisplayName formats the label of a certificate
func CertificateDisplayName(email, courseTitle string) string {
	return fmt.Sprintf("%s - %s Certificate", email, courseTitle)
}

// CertificateFilter narrows certificate lists. Nil fields are ignored.
type CertificateFilter struct {
	StudentID    *int
	InstructorID *int
}
