package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learngate/learngate-backend/internal/model"
)

// ExamResultRepository handles exam result data access. Results are
// write-once: the unique (student_id, course_id, exam_id) constraint plus
// ON CONFLICT DO NOTHING make resubmission a no-op at the storage layer.
type ExamResultRepository struct {
	pool *pgxpool.Pool
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(pool *pgxpool.Pool) *ExamResultRepository {
	return &ExamResultRepository{pool: pool}
}

const resultColumns = `id, student_id, course_id, exam_id, score, max_score, percentage, grade, passed, submitted_at`

// Create inserts a result. Returns pgx.ErrNoRows when a result already
// exists for the same student/course/exam (conflict swallowed the insert).
func (r *ExamResultRepository) Create(ctx context.Context, res *model.ExamResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_results (id, student_id, course_id, exam_id, score, max_score, percentage, grade, passed, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (student_id, course_id, exam_id) DO NOTHING
		 RETURNING id`,
		res.ID, res.StudentID, res.CourseID, res.ExamID,
		res.Score, res.MaxScore, res.Percentage, res.Grade, res.Passed, res.SubmittedAt,
	).Scan(&res.ID)
}

// GetByStudentCourseExam retrieves the result for one submission slot.
func (r *ExamResultRepository) GetByStudentCourseExam(ctx context.Context, studentID, courseID uuid.UUID, examID string) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE student_id = $1 AND course_id = $2 AND exam_id = $3`,
		studentID, courseID, examID,
	).Scan(&res.ID, &res.StudentID, &res.CourseID, &res.ExamID,
		&res.Score, &res.MaxScore, &res.Percentage, &res.Grade, &res.Passed, &res.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByStudentCourse retrieves all of a student's results in one course.
func (r *ExamResultRepository) ListByStudentCourse(ctx context.Context, studentID, courseID uuid.UUID) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE student_id = $1 AND course_id = $2
		 ORDER BY submitted_at DESC`, studentID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// ListRecentByStudent retrieves a student's most recent results across all
// courses, for dashboards.
func (r *ExamResultRepository) ListRecentByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]model.ExamResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE student_id = $1
		 ORDER BY submitted_at DESC LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// CourseExamStats aggregates submissions for one exam of a course.
type CourseExamStats struct {
	ExamID            string   `json:"exam_id"`
	Submissions       int      `json:"submissions"`
	PassedCount       int      `json:"passed_count"`
	AveragePercentage *float64 `json:"average_percentage"`
}

// StatsByCourse aggregates result stats per exam for an instructor's course.
func (r *ExamResultRepository) StatsByCourse(ctx context.Context, courseID uuid.UUID) ([]CourseExamStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT exam_id,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE passed),
		        AVG(percentage)
		 FROM exam_results
		 WHERE course_id = $1
		 GROUP BY exam_id
		 ORDER BY exam_id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CourseExamStats
	for rows.Next() {
		var s CourseExamStats
		if err := rows.Scan(&s.ExamID, &s.Submissions, &s.PassedCount, &s.AveragePercentage); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if stats == nil {
		stats = []CourseExamStats{}
	}
	return stats, rows.Err()
}

func scanResults(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.ExamResult, error) {
	var results []model.ExamResult
	for rows.Next() {
		var res model.ExamResult
		if err := rows.Scan(&res.ID, &res.StudentID, &res.CourseID, &res.ExamID,
			&res.Score, &res.MaxScore, &res.Percentage, &res.Grade, &res.Passed, &res.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
