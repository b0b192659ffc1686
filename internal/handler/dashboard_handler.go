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

// DashboardHandler serves the parent and instructor dashboard views.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetParentDashboard godoc
// GET /api/v1/parent/dashboard
// Returns every linked child with enrollments, progress and recent results.
func (h *DashboardHandler) GetParentDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	overviews, err := h.dashboardService.GetParentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"children": overviews})
}

// GetChildOverview godoc
// GET /api/v1/parent/children/:child_id
// Returns one child's dashboard entry. The child must be linked to the
// requesting parent.
func (h *DashboardHandler) GetChildOverview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	childID, err := uuid.Parse(c.Param("child_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	overview, err := h.dashboardService.GetChildOverview(c.Request.Context(), claims.UserID, childID)
	if err != nil {
		if errors.Is(err, service.ErrNotYourChild) {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"child": overview})
}

// GetCourseOverview godoc
// GET /api/v1/instructor/courses/:course_id/overview
// Returns enrollment counts and per-exam result stats for one course.
func (h *DashboardHandler) GetCourseOverview(c *gin.Context) {
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

	overview, err := h.dashboardService.GetInstructorCourseOverview(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotCourseOwner) {
			response.Fail(c, http.StatusForbidden, response.ErrNotCourseOwner)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"overview": overview})
}
