package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/progress"
)

// CourseProgress is the per-student-per-course progress row. The Record is
// stored as a JSONB document; the row's per-document atomicity is the only
// write guarantee, which is sufficient because every save runs the
// aggregator's de-dup pass first.
type CourseProgress struct {
	StudentID uuid.UUID       `json:"student_id"`
	CourseID  uuid.UUID       `json:"course_id"`
	Record    progress.Record `json:"record"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CompleteVideoRequest is the payload for marking a video watched.
type CompleteVideoRequest struct {
	WatchedSeconds int `json:"watched_seconds" binding:"min=0"`
}
