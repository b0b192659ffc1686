package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/grading"
)

// ExamResult is the persisted outcome of one student's exam submission.
// One row per student x course x exam; resubmissions are rejected, so a row
// is immutable once written.
type ExamResult struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	CourseID    uuid.UUID `json:"course_id"`
	ExamID      string    `json:"exam_id"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	Percentage  int       `json:"percentage"`
	Grade       string    `json:"grade"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewExamResult builds a persistable result from a scored submission.
func NewExamResult(studentID, courseID uuid.UUID, examID string, r grading.Result) *ExamResult {
	return &ExamResult{
		ID:          uuid.New(),
		StudentID:   studentID,
		CourseID:    courseID,
		ExamID:      examID,
		Score:       r.Score,
		MaxScore:    r.MaxScore,
		Percentage:  r.Percentage,
		Grade:       r.Grade,
		Passed:      r.Passed,
		SubmittedAt: r.SubmittedAt,
	}
}

// SubmitExamRequest is the payload for submitting exam answers.
type SubmitExamRequest struct {
	Answers []grading.SubmittedAnswer `json:"answers" binding:"required"`
}
