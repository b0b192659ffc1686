package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus enumerates the manual payment review states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// PaymentMethod names how the student paid. Tracking only — no gateway is
// called; an admin confirms or rejects each payment by hand.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// Payment tracks a single payment against an enrollment.
type Payment struct {
	ID           uuid.UUID     `json:"id"`
	EnrollmentID uuid.UUID     `json:"enrollment_id"`
	StudentID    uuid.UUID     `json:"student_id"`
	AmountCents  int64         `json:"amount_cents"`
	Currency     string        `json:"currency"`
	Method       PaymentMethod `json:"method"`
	Reference    string        `json:"reference,omitempty"`
	Status       PaymentStatus `json:"status"`
	ReviewedBy   *uuid.UUID    `json:"reviewed_by,omitempty"`
	ReviewNote   string        `json:"review_note,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// RecordPaymentRequest is the payload for a student recording a payment.
type RecordPaymentRequest struct {
	EnrollmentID uuid.UUID `json:"enrollment_id" binding:"required"`
	AmountCents  int64     `json:"amount_cents" binding:"required,min=1"`
	Currency     string    `json:"currency" binding:"omitempty,len=3"`
	Method       string    `json:"method" binding:"required,oneof=BANK_TRANSFER CASH OTHER"`
	Reference    string    `json:"reference" binding:"omitempty,max=255"`
}

// ReviewPaymentRequest is the payload for an admin reviewing a payment.
type ReviewPaymentRequest struct {
	Note string `json:"note" binding:"omitempty,max=1000"`
}
