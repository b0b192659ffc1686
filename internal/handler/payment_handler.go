package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/middleware"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/response"
	"github.com/learngate/learngate-backend/internal/service"
	"github.com/learngate/learngate-backend/internal/validator"
)

// PaymentHandler handles payment recording (students) and review (admins).
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPayment godoc
// POST /api/v1/student/payments
// Records a payment against the student's own pending enrollment.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RecordPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	payment, err := h.paymentService.Record(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrEnrollmentInactive):
			response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentInactive)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": payment})
}

// ListMyPayments godoc
// GET /api/v1/student/payments
// Lists the student's payment history.
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	payments, err := h.paymentService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

// ListPendingPayments godoc
// GET /api/v1/admin/payments/pending
// Lists payments awaiting review, oldest first.
func (h *PaymentHandler) ListPendingPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	payments, err := h.paymentService.ListPending(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

// ConfirmPayment godoc
// POST /api/v1/admin/payments/:payment_id/confirm
// Confirms a pending payment and activates its enrollment.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	h.reviewPayment(c, true)
}

// RejectPayment godoc
// POST /api/v1/admin/payments/:payment_id/reject
// Rejects a pending payment. The enrollment stays PENDING.
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	h.reviewPayment(c, false)
}

func (h *PaymentHandler) reviewPayment(c *gin.Context, confirm bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReviewPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var payment *model.Payment
	if confirm {
		payment, err = h.paymentService.Confirm(c.Request.Context(), paymentID, claims.UserID, req.Note)
	} else {
		payment, err = h.paymentService.Reject(c.Request.Context(), paymentID, claims.UserID, req.Note)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrPaymentReviewed):
			response.Fail(c, http.StatusConflict, response.ErrPaymentReviewed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}
