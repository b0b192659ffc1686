package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learngate/learngate-backend/internal/middleware"
	"github.com/learngate/learngate-backend/internal/response"
	"github.com/learngate/learngate-backend/internal/service"
)

// EnrollmentHandler handles student enrollment endpoints, including serving
// the published content of an enrolled course.
type EnrollmentHandler struct {
	enrollService *service.EnrollmentService
	courseService *service.CourseService
	examService   *service.ExamService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(
	enrollService *service.EnrollmentService,
	courseService *service.CourseService,
	examService *service.ExamService,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollService: enrollService,
		courseService: courseService,
		examService:   examService,
	}
}

// Enroll godoc
// POST /api/v1/student/courses/:course_id/enroll
// Enrolls the student. Free courses activate immediately; paid ones stay
// PENDING until a payment is confirmed.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
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

	enrollment, err := h.enrollService.Enroll(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrCourseNotPublished):
			response.Fail(c, http.StatusBadRequest, response.ErrCourseNotPublished)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// CancelEnrollment godoc
// POST /api/v1/student/courses/:course_id/enroll/cancel
// Cancels the student's own enrollment.
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
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

	if err := h.enrollService.Cancel(c.Request.Context(), claims.UserID, courseID); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "enrollment cancelled"})
}

// ListMyCourses godoc
// GET /api/v1/student/courses
// Lists the student's enrollments with course and progress snapshots.
func (h *EnrollmentHandler) ListMyCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.enrollService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// GetCourseContent godoc
// GET /api/v1/student/courses/:course_id/content
// Serves the published content of a course the student is actively enrolled
// in, exam answer material stripped.
func (h *EnrollmentHandler) GetCourseContent(c *gin.Context) {
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

	enrollment, err := h.enrollService.Get(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		return
	}
	if !enrollment.Active() {
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		return
	}

	content, err := h.courseService.GetStudentContent(c.Request.Context(), courseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrCourseNotPublished):
			response.Fail(c, http.StatusBadRequest, response.ErrCourseNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"content": content})
}
