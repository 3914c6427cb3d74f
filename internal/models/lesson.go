package models

// ContentType represents the kind of payload a lesson carries
type ContentType string

const (
	ContentTypeVideo ContentType = "VIDEO"
	ContentTypePDF   ContentType = "PDF"
	ContentTypeText  ContentType = "TEXT"
)

// Lesson represents a lesson inside a module
type Lesson struct {
	ID          int         `json:"id"`
	ModuleID    int         `json:"moduleId"`
	Title       string      `json:"title"`
	ContentType ContentType `json:"contentType"`
	Content     string      `json:"content,omitempty"`
	VideoURL    string      `json:"videoUrl,omitempty"`
	PDFURL      string      `json:"pdfUrl,omitempty"`
	Order       int         `json:"order"`
}

// LessonDetail represents a lesson with the completion flag of the requesting user
type LessonDetail struct {
	Lesson
	Completed bool `json:"completed"`
}

// CreateLessonRequest represents a request to create a lesson
type CreateLessonRequest struct {
	ModuleID    int         `json:"moduleId" validate:"required,gt=0"`
	Title       string      `json:"title" validate:"required,notblank,max=255"`
	ContentType ContentType `json:"contentType" validate:"required,oneof=VIDEO PDF TEXT"`
	Content     string      `json:"content" validate:"required_if=ContentType TEXT"`
	VideoURL    string      `json:"videoUrl" validate:"required_if=ContentType VIDEO,omitempty,url"`
	PDFURL      string      `json:"pdfUrl" validate:"required_if=ContentType PDF,omitempty,url"`
	Order       int         `json:"order" validate:"required,gt=0"`
}

// UpdateLessonRequest represents a request to update a lesson (partial update)
type UpdateLessonRequest struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	ContentType *ContentType `json:"contentType,omitempty" validate:"omitempty,oneof=VIDEO PDF TEXT"`
	Content     *string      `json:"content,omitempty"`
	VideoURL    *string      `json:"videoUrl,omitempty" validate:"omitempty,url"`
	PDFURL      *string      `json:"pdfUrl,omitempty" validate:"omitempty,url"`
	Order       *int         `json:"order,omitempty" validate:"omitempty,gt=0"`
}

// LessonFilter narrows lesson lists. Nil fields are ignored.
type LessonFilter struct {
	ModuleID     *int
	CourseID     *int
	InstructorID *int
	StudentID    *int
}
