package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learngate/learngate-backend/internal/model"
)

const paymentColumns = `id, enrollment_id, student_id, amount_cents, currency, method,
	reference, status, reviewed_by, review_note, created_at, updated_at`

// PaymentRepository handles payment data access.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.EnrollmentID, &p.StudentID, &p.AmountCents, &p.Currency,
		&p.Method, &p.Reference, &p.Status, &p.ReviewedBy, &p.ReviewNote,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO payments (id, enrollment_id, student_id, amount_cents, currency, method, reference, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		p.ID, p.EnrollmentID, p.StudentID, p.AmountCents, p.Currency, p.Method, p.Reference, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a payment by id.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// UpdateReview records an admin's decision on a pending payment. The WHERE
// clause guards against double review; callers check RowsAffected.
func (r *PaymentRepository) UpdateReview(ctx context.Context, id uuid.UUID, status model.PaymentStatus, reviewerID uuid.UUID, note string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments
		 SET status = $1, reviewed_by = $2, review_note = $3, updated_at = NOW()
		 WHERE id = $4 AND status = $5`,
		status, reviewerID, note, id, model.PaymentStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListPending retrieves payments awaiting review, oldest first.
func (r *PaymentRepository) ListPending(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`,
		model.PaymentStatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ListByStudent retrieves a student's payments, newest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE student_id = $1
		 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]model.Payment, error) {
	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.EnrollmentID, &p.StudentID, &p.AmountCents, &p.Currency,
			&p.Method, &p.Reference, &p.Status, &p.ReviewedBy, &p.ReviewNote,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if out == nil {
		out = []model.Payment{}
	}
	return out, rows.Err()
}
