package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learngate/learngate-backend/internal/model"
)

// ProgressRepository handles course progress data access. Each row holds one
// student's progress document for one course as JSONB; the upsert replaces
// the whole document, so last write wins (acceptable because recompute's
// de-dup makes the document convergent).
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Get retrieves a progress row, or an empty record when none exists yet.
func (r *ProgressRepository) Get(ctx context.Context, studentID, courseID uuid.UUID) (*model.CourseProgress, error) {
	p := &model.CourseProgress{StudentID: studentID, CourseID: courseID}
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT record, updated_at FROM course_progress
		 WHERE student_id = $1 AND course_id = $2`, studentID, courseID,
	).Scan(&doc, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &p.Record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return p, nil
}

// Upsert writes the full progress document for a student/course pair.
func (r *ProgressRepository) Upsert(ctx context.Context, p *model.CourseProgress) error {
	doc, err := json.Marshal(p.Record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO course_progress (student_id, course_id, record)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (student_id, course_id) DO UPDATE
		 SET record = EXCLUDED.record, updated_at = NOW()`,
		p.StudentID, p.CourseID, doc)
	return err
}

// ListByStudent retrieves all progress rows for a student.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.CourseProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id, record, updated_at FROM course_progress
		 WHERE student_id = $1 ORDER BY updated_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CourseProgress
	for rows.Next() {
		p := model.CourseProgress{StudentID: studentID}
		var doc []byte
		if err := rows.Scan(&p.CourseID, &doc, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(doc, &p.Record); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
