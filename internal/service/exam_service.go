package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/grading"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/repository"
)

// Domain Errors
var (
	ErrExamNotFound     = errors.New("exam not found in course")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrNotEnrolled      = errors.New("student is not actively enrolled in this course")
)

// ExamService handles exam delivery and submission grading. Grading happens
// in-request against the cached exam document; the resulting row is persisted
// asynchronously by the results worker.
type ExamService struct {
	courseService   *CourseService
	progressService *ProgressService
	enrollRepo      *repository.EnrollmentRepository
	resultRepo      *repository.ExamResultRepository
	rdb             *redis.Client
	log             zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	courseService *CourseService,
	progressService *ProgressService,
	enrollRepo *repository.EnrollmentRepository,
	resultRepo *repository.ExamResultRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		courseService:   courseService,
		progressService: progressService,
		enrollRepo:      enrollRepo,
		resultRepo:      resultRepo,
		rdb:             rdb,
		log:             log.With().Str("component", "exam_service").Logger(),
	}
}

// requireActiveEnrollment verifies the student can access the course content.
func (s *ExamService) requireActiveEnrollment(ctx context.Context, studentID, courseID uuid.UUID) error {
	enrollment, err := s.enrollRepo.GetByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("get enrollment: %w", err)
	}
	if !enrollment.Active() {
		return ErrNotEnrolled
	}
	return nil
}

// GetPaper returns the student-facing exam paper (answer material stripped).
func (s *ExamService) GetPaper(ctx context.Context, studentID, courseID uuid.UUID, examID string) (*grading.StudentExam, error) {
	if err := s.requireActiveEnrollment(ctx, studentID, courseID); err != nil {
		return nil, err
	}

	exam, err := s.courseService.GetExamWithKey(ctx, courseID, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	paper := exam.ForStudent()
	return &paper, nil
}

// Submit grades a student's answers against the published exam and queues the
// result for persistence. Each exam accepts exactly one submission per
// student; the Redis marker claims it atomically and the database unique
// constraint backs the marker up.
func (s *ExamService) Submit(ctx context.Context, studentID, courseID uuid.UUID, examID string, answers []grading.SubmittedAnswer) (*grading.Result, error) {
	if err := s.requireActiveEnrollment(ctx, studentID, courseID); err != nil {
		return nil, err
	}

	exam, err := s.courseService.GetExamWithKey(ctx, courseID, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	// Claim the submission. First writer wins; everyone else is a resubmit.
	submittedKey := config.CacheKey.ExamSubmittedKey(studentID.String(), courseID.String(), examID)
	claimed, err := s.rdb.SetNX(ctx, submittedKey, 1, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("claim submission: %w", err)
	}
	if !claimed {
		return nil, ErrAlreadySubmitted
	}

	// The marker can be lost to eviction; the persisted row is the durable
	// record, so double-check it before grading.
	if _, err := s.resultRepo.GetByStudentCourseExam(ctx, studentID, courseID, examID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing result: %w", err)
	}

	result := grading.Score(*exam, answers)

	row := model.NewExamResult(studentID, courseID, examID, result)
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		return nil, fmt.Errorf("queue result: %w", err)
	}

	if err := s.progressService.CompleteExam(ctx, studentID, courseID, examID, result); err != nil {
		// Progress is recomputed on every completion, so the next one heals
		// a failed update. Don't fail the submission over it.
		s.log.Warn().Err(err).
			Str("student_id", studentID.String()).
			Str("exam_id", examID).
			Msg("Failed to update progress after submission")
	}

	s.log.Info().
		Str("student_id", studentID.String()).
		Str("course_id", courseID.String()).
		Str("exam_id", examID).
		Int("score", result.Score).
		Str("grade", result.Grade).
		Msg("Exam submitted and graded")

	return &result, nil
}

// GetResult retrieves a student's persisted result for one exam.
func (s *ExamService) GetResult(ctx context.Context, studentID, courseID uuid.UUID, examID string) (*model.ExamResult, error) {
	res, err := s.resultRepo.GetByStudentCourseExam(ctx, studentID, courseID, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListResults retrieves all of a student's results in a course.
func (s *ExamService) ListResults(ctx context.Context, studentID, courseID uuid.UUID) ([]model.ExamResult, error) {
	return s.resultRepo.ListByStudentCourse(ctx, studentID, courseID)
}
