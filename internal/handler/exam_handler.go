package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/middleware"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/response"
	"github.com/learngate/learngate-backend/internal/service"
	"github.com/learngate/learngate-backend/internal/validator"
)

// ExamHandler handles student exam delivery and submission.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

func failExam(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCourseNotPublished):
		response.Fail(c, http.StatusBadRequest, response.ErrCourseNotPublished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// GetPaper godoc
// GET /api/v1/student/courses/:course_id/exams/:exam_id
// Returns the exam paper with answer material stripped.
func (h *ExamHandler) GetPaper(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	examID := c.Param("exam_id")

	paper, err := h.examService.GetPaper(c.Request.Context(), claims.UserID, courseID, examID)
	if err != nil {
		failExam(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": paper})
}

// SubmitExam godoc
// POST /api/v1/student/courses/:course_id/exams/:exam_id/submit
// Grades the submitted answers immediately and returns the full result.
// Exactly one submission is accepted per student per exam.
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	examID := c.Param("exam_id")

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.Submit(c.Request.Context(), claims.UserID, courseID, examID, req.Answers)
	if err != nil {
		failExam(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetResult godoc
// GET /api/v1/student/courses/:course_id/exams/:exam_id/result
// Returns the student's persisted result for one exam.
func (h *ExamHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	examID := c.Param("exam_id")

	result, err := h.examService.GetResult(c.Request.Context(), claims.UserID, courseID, examID)
	if err != nil {
		failExam(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// ListResults godoc
// GET /api/v1/student/courses/:course_id/results
// Lists all of the student's results in a course.
func (h *ExamHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.examService.ListResults(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
