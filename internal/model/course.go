package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/grading"
)

// CourseStatus enumerates the lifecycle states of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Video is a video lesson embedded in a course's content document.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"durationSeconds"`
	OrderNum        int    `json:"orderNum"`
}

// CourseContent is the embedded content document of a course: its videos and
// exams (with questions). Stored as a single JSONB column so one row update
// replaces the whole document atomically.
type CourseContent struct {
	Videos []Video        `json:"videos"`
	Exams  []grading.Exam `json:"exams"`
	// RawExams preserves the authoring payload as submitted. Draft
	// normalization fills gaps (default points, assumed true/false answers)
	// in Exams, so publishing renormalizes from here with strict defaults
	// instead of trusting draft-defaulted values.
	RawExams []grading.RawExam `json:"rawExams,omitempty"`
}

// TotalItems counts the completable items of the course.
func (c CourseContent) TotalItems() int {
	return len(c.Videos) + len(c.Exams)
}

// FindExam returns the embedded exam with the given id, or nil.
func (c CourseContent) FindExam(examID string) *grading.Exam {
	for i := range c.Exams {
		if c.Exams[i].ID == examID {
			return &c.Exams[i]
		}
	}
	return nil
}

// Course represents a course entity. Content holds the embedded document;
// list queries skip it and leave the field zero-valued.
type Course struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	InstructorID uuid.UUID     `json:"instructor_id"`
	Status       CourseStatus  `json:"status"`
	PriceCents   int64         `json:"price_cents"`
	Currency     string        `json:"currency"`
	Content      CourseContent `json:"content,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Free reports whether enrolling requires no payment.
func (c *Course) Free() bool { return c.PriceCents == 0 }

// CreateCourseRequest is the payload for creating a new draft course.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
}

// UpdateCourseRequest is the payload for updating course metadata.
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	PriceCents  *int64 `json:"price_cents" binding:"omitempty,min=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
}

// SaveContentRequest carries the raw authoring payload for a course's
// content. Exams arrive in the duck-typed raw shape and are normalized
// before storage.
type SaveContentRequest struct {
	Videos []Video           `json:"videos" binding:"dive"`
	Exams  []grading.RawExam `json:"exams"`
}

// StudentCourseContent is the published content with exam answer material
// stripped, safe to serve to enrolled students.
type StudentCourseContent struct {
	Videos []Video               `json:"videos"`
	Exams  []grading.StudentExam `json:"exams"`
}

// ForStudent strips answers from every embedded exam.
func (c CourseContent) ForStudent() StudentCourseContent {
	exams := make([]grading.StudentExam, len(c.Exams))
	for i := range c.Exams {
		exams[i] = c.Exams[i].ForStudent()
	}
	return StudentCourseContent{Videos: c.Videos, Exams: exams}
}
