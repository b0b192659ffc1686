package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/repository"
)

// ErrNotYourChild means the requested student is not linked to the parent.
var ErrNotYourChild = errors.New("student is not linked to this parent account")

// ChildOverview is one child's consolidated dashboard entry: enrollments with
// progress plus their most recent exam results.
type ChildOverview struct {
	Child         model.User             `json:"child"`
	Enrollments   []model.EnrolledCourse `json:"enrollments"`
	RecentResults []model.ExamResult     `json:"recent_results"`
}

// InstructorCourseOverview consolidates one course's enrollment and exam
// metrics for its instructor.
type InstructorCourseOverview struct {
	Course           model.Course                   `json:"course"`
	EnrollmentCounts map[model.EnrollmentStatus]int `json:"enrollment_counts"`
	ExamStats        []repository.CourseExamStats   `json:"exam_stats"`
}

// DashboardService builds the parent and instructor dashboard views.
type DashboardService struct {
	userRepo   *repository.UserRepository
	enrollRepo *repository.EnrollmentRepository
	resultRepo *repository.ExamResultRepository
	courseRepo *repository.CourseRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	userRepo *repository.UserRepository,
	enrollRepo *repository.EnrollmentRepository,
	resultRepo *repository.ExamResultRepository,
	courseRepo *repository.CourseRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:   userRepo,
		enrollRepo: enrollRepo,
		resultRepo: resultRepo,
		courseRepo: courseRepo,
	}
}

const recentResultsLimit = 5

// GetParentDashboard builds the overview of every child linked to a parent.
func (s *DashboardService) GetParentDashboard(ctx context.Context, parentID uuid.UUID) ([]ChildOverview, error) {
	children, err := s.userRepo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	overviews := make([]ChildOverview, 0, len(children))
	for _, child := range children {
		overview, err := s.buildChildOverview(ctx, child)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, *overview)
	}
	return overviews, nil
}

// GetChildOverview builds the dashboard entry for one child, verifying the
// parent link first.
func (s *DashboardService) GetChildOverview(ctx context.Context, parentID, childID uuid.UUID) (*ChildOverview, error) {
	child, err := s.userRepo.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child.ParentID == nil || *child.ParentID != parentID || child.Role != model.RoleStudent {
		return nil, ErrNotYourChild
	}
	return s.buildChildOverview(ctx, *child)
}

func (s *DashboardService) buildChildOverview(ctx context.Context, child model.User) (*ChildOverview, error) {
	enrollments, err := s.enrollRepo.ListByStudent(ctx, child.ID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	recent, err := s.resultRepo.ListRecentByStudent(ctx, child.ID, recentResultsLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent results: %w", err)
	}
	return &ChildOverview{
		Child:         child,
		Enrollments:   enrollments,
		RecentResults: recent,
	}, nil
}

// GetInstructorCourseOverview builds the metrics view for one of the
// instructor's courses.
func (s *DashboardService) GetInstructorCourseOverview(ctx context.Context, courseID, instructorID uuid.UUID) (*InstructorCourseOverview, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotCourseOwner
	}

	counts, err := s.enrollRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	stats, err := s.resultRepo.StatsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("stats by course: %w", err)
	}

	return &InstructorCourseOverview{
		Course:           *course,
		EnrollmentCounts: counts,
		ExamStats:        stats,
	}, nil
}
