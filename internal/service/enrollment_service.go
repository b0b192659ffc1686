package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/repository"
)

// Domain Errors
var (
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// EnrollmentService handles enrollment business logic. Free courses activate
// immediately; paid courses start PENDING until a payment is confirmed.
type EnrollmentService struct {
	enrollRepo    *repository.EnrollmentRepository
	courseService *CourseService
	log           zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollRepo *repository.EnrollmentRepository, courseService *CourseService, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollRepo:    enrollRepo,
		courseService: courseService,
		log:           log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll creates an enrollment for a published course.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.courseService.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}

	status := enrollStatus(course)

	enrollment := &model.Enrollment{
		ID:        uuid.New(),
		StudentID: studentID,
		CourseID:  courseID,
		Status:    status,
	}
	if err := s.enrollRepo.Create(ctx, enrollment); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("create enrollment: %w", err)
		}
		// Conflict: a row for this pair already exists. Only a CANCELLED
		// enrollment can be taken over; anything else is a duplicate.
		existing, getErr := s.enrollRepo.GetByStudentCourse(ctx, studentID, courseID)
		if getErr != nil {
			return nil, fmt.Errorf("load existing enrollment: %w", getErr)
		}
		if !canReenroll(existing.Status) {
			return nil, ErrAlreadyEnrolled
		}
		if err := s.enrollRepo.UpdateStatus(ctx, existing.ID, status); err != nil {
			return nil, fmt.Errorf("reactivate enrollment: %w", err)
		}
		existing.Status = status
		enrollment = existing
	}

	s.log.Info().
		Str("student_id", studentID.String()).
		Str("course_id", courseID.String()).
		Str("status", string(status)).
		Msg("Student enrolled")
	return enrollment, nil
}

// enrollStatus picks the initial enrollment status for a course. Free
// courses activate immediately; paid ones wait for a confirmed payment.
func enrollStatus(course *model.Course) model.EnrollmentStatus {
	if course.Free() {
		return model.EnrollmentStatusActive
	}
	return model.EnrollmentStatusPending
}

// canReenroll reports whether an existing enrollment row can be taken over
// by a new enrollment attempt.
func canReenroll(existing model.EnrollmentStatus) bool {
	return existing == model.EnrollmentStatusCancelled
}

// Cancel marks an enrollment CANCELLED. Students can only cancel their own.
func (s *EnrollmentService) Cancel(ctx context.Context, studentID, courseID uuid.UUID) error {
	enrollment, err := s.enrollRepo.GetByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	return s.enrollRepo.UpdateStatus(ctx, enrollment.ID, model.EnrollmentStatusCancelled)
}

// ListByStudent retrieves a student's enrollments with course and progress
// snapshots attached.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.EnrolledCourse, error) {
	return s.enrollRepo.ListByStudent(ctx, studentID)
}

// Get retrieves a student's enrollment in a course.
func (s *EnrollmentService) Get(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollRepo.GetByStudentCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}
