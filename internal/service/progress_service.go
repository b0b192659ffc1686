package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/grading"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/progress"
	"github.com/learngate/learngate-backend/internal/repository"
)

// ErrVideoNotFound means the completed video is not part of the course.
var ErrVideoNotFound = errors.New("video not found in course")

// ProgressService maintains per-student course progress. Every completion
// runs a read-modify-write over the single progress document: append, de-dup,
// recompute, then queue the updated document for the progress worker. The
// de-dup pass makes the whole update idempotent, which is what makes the
// lock-free read-modify-write acceptable.
type ProgressService struct {
	courseService *CourseService
	progressRepo  *repository.ProgressRepository
	enrollRepo    *repository.EnrollmentRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	courseService *CourseService,
	progressRepo *repository.ProgressRepository,
	enrollRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		courseService: courseService,
		progressRepo:  progressRepo,
		enrollRepo:    enrollRepo,
		rdb:           rdb,
		log:           log.With().Str("component", "progress_service").Logger(),
	}
}

// CompleteVideo records a watched video and recomputes overall progress.
func (s *ProgressService) CompleteVideo(ctx context.Context, studentID, courseID uuid.UUID, videoID string, watchedSeconds int) (*model.CourseProgress, error) {
	enrollment, err := s.enrollRepo.GetByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if !enrollment.Active() {
		return nil, ErrNotEnrolled
	}

	content, err := s.courseService.GetStudentContent(ctx, courseID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range content.Videos {
		if content.Videos[i].ID == videoID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrVideoNotFound
	}

	return s.apply(ctx, studentID, courseID, func(rec *progress.Record) {
		rec.AddVideo(videoID, watchedSeconds)
	})
}

// CompleteExam records a graded exam into the progress document. Called by
// the exam service after a successful submission.
func (s *ProgressService) CompleteExam(ctx context.Context, studentID, courseID uuid.UUID, examID string, result grading.Result) error {
	_, err := s.apply(ctx, studentID, courseID, func(rec *progress.Record) {
		rec.AddExam(examID, result.Score, result.MaxScore, result.Percentage, result.Passed)
	})
	return err
}

// apply runs one read-modify-write cycle over the progress document and
// queues the updated row for persistence.
func (s *ProgressService) apply(ctx context.Context, studentID, courseID uuid.UUID, mutate func(*progress.Record)) (*model.CourseProgress, error) {
	row, err := s.progressRepo.Get(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	mutate(&row.Record)

	totals, err := s.courseService.GetCourseTotals(ctx, courseID)
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) {
			return nil, fmt.Errorf("get totals: %w", err)
		}
		// Course row gone mid-flight. Zero totals degrade the recompute to
		// overallProgress 0 instead of failing the student's request.
		s.log.Warn().Str("course_id", courseID.String()).Msg("Course missing during recompute, using zero totals")
		totals = progress.CourseTotals{}
	}
	progress.Recompute(&row.Record, totals)
	row.UpdatedAt = time.Now()

	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, raw).Err(); err != nil {
		return nil, fmt.Errorf("queue progress: %w", err)
	}

	s.log.Debug().
		Str("student_id", studentID.String()).
		Str("course_id", courseID.String()).
		Int("overall", row.Record.OverallProgress).
		Bool("completed", row.Record.IsCompleted).
		Msg("Progress updated")
	return row, nil
}

// Get retrieves a student's progress in one course.
func (s *ProgressService) Get(ctx context.Context, studentID, courseID uuid.UUID) (*model.CourseProgress, error) {
	return s.progressRepo.Get(ctx, studentID, courseID)
}

// ListByStudent retrieves all progress rows for a student.
func (s *ProgressService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.CourseProgress, error) {
	return s.progressRepo.ListByStudent(ctx, studentID)
}
