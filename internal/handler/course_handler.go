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

// CourseHandler handles instructor course authoring and the public catalog.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

func failCourse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotCourseOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotCourseOwner)
	case errors.Is(err, service.ErrCourseNotDraft):
		response.Fail(c, http.StatusBadRequest, response.ErrCourseNotDraft)
	case errors.Is(err, service.ErrCourseNotPublished):
		response.Fail(c, http.StatusBadRequest, response.ErrCourseNotPublished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// ListCatalog godoc
// GET /api/v1/catalog/courses
// Lists published courses, paginated. No authentication required.
func (h *CourseHandler) ListCatalog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	courses, pagination, err := h.courseService.ListCatalog(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, pagination)
}

// ListCourses godoc
// GET /api/v1/instructor/courses
// Lists the instructor's own courses with pagination.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	courses, pagination, err := h.courseService.ListByInstructor(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, pagination)
}

// GetCourse godoc
// GET /api/v1/instructor/courses/:course_id
// Retrieves one of the instructor's courses with its full content document.
func (h *CourseHandler) GetCourse(c *gin.Context) {
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

	course, err := h.courseService.GetOwned(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// CreateCourse godoc
// POST /api/v1/instructor/courses
// Creates a new draft course.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/v1/instructor/courses/:course_id
// Updates a draft course's metadata.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
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

	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.UpdateMeta(c.Request.Context(), courseID, claims.UserID, &req)
	if err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// SaveContent godoc
// PUT /api/v1/instructor/courses/:course_id/content
// Replaces a draft course's content document. Exam questions are normalized
// permissively; nothing is rejected here.
func (h *CourseHandler) SaveContent(c *gin.Context) {
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

	var req model.SaveContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.SaveContent(c.Request.Context(), courseID, claims.UserID, &req)
	if err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// PublishCourse godoc
// POST /api/v1/instructor/courses/:course_id/publish
// Validates content strictly, publishes the course and warms the cache.
// Validation failures return the full list of problems.
func (h *CourseHandler) PublishCourse(c *gin.Context) {
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

	if err := h.courseService.Publish(c.Request.Context(), courseID, claims.UserID); err != nil {
		var pubErr *service.PublishValidationError
		if errors.As(err, &pubErr) {
			response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrPublishValidation, pubErr.Errors)
			return
		}
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course published successfully"})
}

// ArchiveCourse godoc
// POST /api/v1/instructor/courses/:course_id/archive
// Archives a published course and drops its cache entries.
func (h *CourseHandler) ArchiveCourse(c *gin.Context) {
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

	if err := h.courseService.Archive(c.Request.Context(), courseID, claims.UserID); err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course archived"})
}

// DeleteCourse godoc
// DELETE /api/v1/instructor/courses/:course_id
// Deletes a draft course.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
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

	if err := h.courseService.Delete(c.Request.Context(), courseID, claims.UserID); err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "course deleted"})
}

// RefreshCache godoc
// POST /api/v1/instructor/courses/:course_id/refresh-cache
// Re-caches a published course's content after a live fix.
func (h *CourseHandler) RefreshCache(c *gin.Context) {
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

	if err := h.courseService.RefreshCache(c.Request.Context(), courseID, claims.UserID); err != nil {
		failCourse(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "cache refreshed"})
}
