package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learngate/learngate-backend/internal/model"
)

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts a new enrollment. Returns pgx.ErrNoRows when the student is
// already enrolled (the unique constraint swallowed the insert).
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (id, student_id, course_id, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, course_id) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		e.ID, e.StudentID, e.CourseID, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an enrollment by id.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, course_id, status, created_at, updated_at
		 FROM enrollments WHERE id = $1`, id,
	).Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByStudentCourse retrieves a student's enrollment in a course.
func (r *EnrollmentRepository) GetByStudentCourse(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, course_id, status, created_at, updated_at
		 FROM enrollments WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	).Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateStatus changes an enrollment's status.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EnrollmentStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE enrollments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// ListByStudent retrieves a student's enrollments joined with course titles
// and the progress snapshot pulled out of the JSONB progress document.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.EnrolledCourse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.student_id, e.course_id, e.status, e.created_at, e.updated_at,
		        c.title, c.status,
		        COALESCE((p.record->>'overallProgress')::int, 0),
		        COALESCE((p.record->>'isCompleted')::boolean, false)
		 FROM enrollments e
		 JOIN courses c ON e.course_id = c.id
		 LEFT JOIN course_progress p ON p.student_id = e.student_id AND p.course_id = e.course_id
		 WHERE e.student_id = $1
		 ORDER BY e.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EnrolledCourse
	for rows.Next() {
		var ec model.EnrolledCourse
		if err := rows.Scan(&ec.ID, &ec.StudentID, &ec.CourseID, &ec.Status, &ec.CreatedAt, &ec.UpdatedAt,
			&ec.CourseTitle, &ec.CourseStatus, &ec.OverallProgress, &ec.IsCompleted); err != nil {
			return nil, err
		}
		out = append(out, ec)
	}
	if out == nil {
		out = []model.EnrolledCourse{}
	}
	return out, rows.Err()
}

// CountByCourse counts enrollments per status for an instructor dashboard.
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (map[model.EnrollmentStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM enrollments WHERE course_id = $1 GROUP BY status`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.EnrollmentStatus]int)
	for rows.Next() {
		var status model.EnrollmentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
