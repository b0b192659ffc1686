package model

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus enumerates enrollment states. PENDING enrollments are
// waiting for a payment confirmation; ACTIVE grants content access.
type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "PENDING"
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment links a student to a course.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	StudentID uuid.UUID        `json:"student_id"`
	CourseID  uuid.UUID        `json:"course_id"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Active reports whether the enrollment grants content access.
func (e *Enrollment) Active() bool {
	return e.Status == EnrollmentStatusActive || e.Status == EnrollmentStatusCompleted
}

// EnrolledCourse is an enrollment joined with its course metadata and the
// student's progress, for listing endpoints.
type EnrolledCourse struct {
	Enrollment
	CourseTitle     string `json:"course_title"`
	CourseStatus    string `json:"course_status"`
	OverallProgress int    `json:"overall_progress"`
	IsCompleted     bool   `json:"is_completed"`
}
