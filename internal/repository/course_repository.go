package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learngate/learngate-backend/internal/model"
)

// CourseRepository handles course data access. The content column is a JSONB
// document holding the embedded videos, exams and questions; updating it
// replaces the whole document in one atomic row write.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course with empty content.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	content, err := json.Marshal(c.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (id, title, description, instructor_id, status, price_cents, currency, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		c.ID, c.Title, c.Description, c.InstructorID, c.Status, c.PriceCents, c.Currency, content,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a course including its content document.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	var content []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, instructor_id, status, price_cents, currency, content, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Status, &c.PriceCents, &c.Currency, &content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &c.Content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	return c, nil
}

// UpdateMeta updates course metadata without touching the content document.
func (r *CourseRepository) UpdateMeta(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses
		 SET title = $1, description = $2, price_cents = $3, currency = $4, updated_at = NOW()
		 WHERE id = $5`,
		c.Title, c.Description, c.PriceCents, c.Currency, c.ID)
	return err
}

// SaveContent replaces the course's content document.
func (r *CourseRepository) SaveContent(ctx context.Context, id uuid.UUID, content model.CourseContent) error {
	doc, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE courses SET content = $1, updated_at = NOW() WHERE id = $2`,
		doc, id)
	return err
}

// UpdateStatus changes a course's lifecycle status.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CourseStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// ListByInstructorPaginated lists courses for an instructor (or all courses
// when instructorID is the zero UUID), skipping the content documents.
func (r *CourseRepository) ListByInstructorPaginated(ctx context.Context, instructorID uuid.UUID, limit, offset int) ([]model.Course, int, error) {
	where := ""
	args := []any{}
	if instructorID != uuid.Nil {
		where = "WHERE instructor_id = $1"
		args = append(args, instructorID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, title, description, instructor_id, status, price_cents, currency, created_at, updated_at
		 FROM courses %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Status, &c.PriceCents, &c.Currency, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

// ListPublished lists all published courses including content, used for
// cache prewarming on startup.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, instructor_id, status, price_cents, currency, content, created_at, updated_at
		 FROM courses WHERE status = $1`, model.CourseStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		var content []byte
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Status, &c.PriceCents, &c.Currency, &content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(content, &c.Content); err != nil {
			return nil, fmt.Errorf("unmarshal content for %s: %w", c.ID, err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListCatalogPaginated lists published courses without content, for the
// public catalog.
func (r *CourseRepository) ListCatalogPaginated(ctx context.Context, limit, offset int) ([]model.Course, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses WHERE status = $1`, model.CourseStatusPublished,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, instructor_id, status, price_cents, currency, created_at, updated_at
		 FROM courses WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		model.CourseStatusPublished, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Status, &c.PriceCents, &c.Currency, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}
