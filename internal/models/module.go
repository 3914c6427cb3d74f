package models

// Module represents an ordered section of a course
type Module struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// ModuleDetail represents a module with its lessons
type ModuleDetail struct {
	Module
	Lessons []LessonDetail `json:"lessons"`
}

// CreateModuleRequest represents a request to create a module
type CreateModuleRequest struct {
	CourseID    int    `json:"courseId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"required,gt=0"`
}

// UpdateModuleRequest represents a request to update a module (partial update)
type UpdateModuleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gt=0"`
}

// ModuleFilter narrows module lists. Nil fields are ignored.
type ModuleFilter struct {
	CourseID     *int
	InstructorID *int
	StudentID    *int
}
