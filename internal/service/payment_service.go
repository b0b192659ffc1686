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
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPaymentReviewed    = errors.New("payment has already been reviewed")
	ErrNotPaymentOwner    = errors.New("payment belongs to another student")
	ErrEnrollmentInactive = errors.New("enrollment is not awaiting payment")
)

// PaymentService tracks manual payments against enrollments. No gateway is
// involved: students record a payment, admins confirm or reject it, and a
// confirmation activates the enrollment.
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	enrollRepo  *repository.EnrollmentRepository
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo *repository.PaymentRepository, enrollRepo *repository.EnrollmentRepository, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		enrollRepo:  enrollRepo,
		log:         log.With().Str("component", "payment_service").Logger(),
	}
}

// Record creates a PENDING payment against the student's own enrollment.
func (s *PaymentService) Record(ctx context.Context, studentID uuid.UUID, req *model.RecordPaymentRequest) (*model.Payment, error) {
	enrollment, err := s.enrollRepo.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.StudentID != studentID {
		return nil, ErrEnrollmentNotFound
	}
	if enrollment.Status != model.EnrollmentStatusPending {
		return nil, ErrEnrollmentInactive
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	payment := &model.Payment{
		ID:           uuid.New(),
		EnrollmentID: enrollment.ID,
		StudentID:    studentID,
		AmountCents:  req.AmountCents,
		Currency:     currency,
		Method:       model.PaymentMethod(req.Method),
		Reference:    req.Reference,
		Status:       model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("enrollment_id", enrollment.ID.String()).
		Int64("amount_cents", payment.AmountCents).
		Msg("Payment recorded")
	return payment, nil
}

// Confirm marks a pending payment CONFIRMED and activates its enrollment.
func (s *PaymentService) Confirm(ctx context.Context, paymentID, reviewerID uuid.UUID, note string) (*model.Payment, error) {
	payment, err := s.review(ctx, paymentID, reviewerID, model.PaymentStatusConfirmed, note)
	if err != nil {
		return nil, err
	}

	if err := s.enrollRepo.UpdateStatus(ctx, payment.EnrollmentID, model.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("activate enrollment: %w", err)
	}

	s.log.Info().
		Str("payment_id", paymentID.String()).
		Str("enrollment_id", payment.EnrollmentID.String()).
		Msg("Payment confirmed, enrollment activated")
	return payment, nil
}

// Reject marks a pending payment REJECTED. The enrollment stays PENDING so
// the student can record another payment.
func (s *PaymentService) Reject(ctx context.Context, paymentID, reviewerID uuid.UUID, note string) (*model.Payment, error) {
	payment, err := s.review(ctx, paymentID, reviewerID, model.PaymentStatusRejected, note)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("payment_id", paymentID.String()).Msg("Payment rejected")
	return payment, nil
}

func (s *PaymentService) review(ctx context.Context, paymentID, reviewerID uuid.UUID, status model.PaymentStatus, note string) (*model.Payment, error) {
	updated, err := s.paymentRepo.UpdateReview(ctx, paymentID, status, reviewerID, note)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if !updated {
		// Either the payment doesn't exist or someone reviewed it first.
		if _, err := s.paymentRepo.GetByID(ctx, paymentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPaymentNotFound
			}
			return nil, err
		}
		return nil, ErrPaymentReviewed
	}
	return s.paymentRepo.GetByID(ctx, paymentID)
}

// ListPending retrieves payments awaiting admin review.
func (s *PaymentService) ListPending(ctx context.Context, page, perPage int) ([]model.Payment, error) {
	page, perPage = clampPage(page, perPage)
	return s.paymentRepo.ListPending(ctx, perPage, (page-1)*perPage)
}

// ListByStudent retrieves a student's payment history.
func (s *PaymentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Payment, error) {
	return s.paymentRepo.ListByStudent(ctx, studentID)
}
