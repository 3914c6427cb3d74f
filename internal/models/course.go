package models

import "time"

// Course represents a course authored by an instructor
type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID int       `json:"instructorId"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CourseDetail represents a course with its modules and lessons.
// Progress is set only when the requesting user is enrolled.
type CourseDetail struct {
	Course
	Modules  []ModuleDetail `json:"modules"`
	Progress *float64       `json:"progress"`
}

// CourseFilter narrows course lists
type CourseFilter struct {
	InstructorID  *int
	OnlyPublished bool
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}

// Ownership describes the course a course, module or lesson resolves to
type Ownership struct {
	CourseID     int
	InstructorID int
	IsPublished  bool
}
