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

// ProgressHandler handles student progress endpoints. Exam completions flow
// in through the exam submission path; only video completions are reported
// here directly.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// CompleteVideo godoc
// POST /api/v1/student/courses/:course_id/videos/:video_id/complete
// Marks a video watched and returns the recomputed progress. Repeating a
// completion is a no-op thanks to de-duplication.
func (h *ProgressHandler) CompleteVideo(c *gin.Context) {
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
	videoID := c.Param("video_id")

	var req model.CompleteVideoRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	prog, err := h.progressService.CompleteVideo(c.Request.Context(), claims.UserID, courseID, videoID, req.WatchedSeconds)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, service.ErrVideoNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrVideoNotFound)
		case errors.Is(err, service.ErrCourseNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrCourseNotPublished):
			response.Fail(c, http.StatusBadRequest, response.ErrCourseNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": prog})
}

// GetProgress godoc
// GET /api/v1/student/courses/:course_id/progress
// Returns the student's progress document for one course.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
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

	prog, err := h.progressService.Get(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": prog})
}
