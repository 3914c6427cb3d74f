package models

import "time"

// Enrollment links a student to a course.
// Completed is a snapshot set when progress reaches 100 and is never recomputed on read.
type Enrollment struct {
	ID          int        `json:"id"`
	StudentID   int        `json:"studentId"`
	CourseID    int        `json:"courseId"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Student     *User      `json:"student,omitempty"`
}

// LessonProgress records a lesson completed within an enrollment
type LessonProgress struct {
	ID           int       `json:"id"`
	EnrollmentID int       `json:"enrollmentId"`
	LessonID     int       `json:"lessonId"`
	CompletedAt  time.Time `json:"completedAt"`
}
