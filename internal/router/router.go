package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/handler"
	"github.com/learngate/learngate-backend/internal/middleware"
	"github.com/learngate/learngate-backend/internal/response"
	"github.com/learngate/learngate-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Exam       *handler.ExamHandler
	Progress   *handler.ProgressHandler
	Enrollment *handler.EnrollmentHandler
	Payment    *handler.PaymentHandler
	Dashboard  *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/logout", middleware.RequireAnyJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Catalog Group (Public) ─────────────────────────────────────
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.CacheControl(60))
	{
		catalog.GET("/courses", handlers.Course.ListCatalog)
	}

	// ─── 3. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/courses", handlers.Enrollment.ListMyCourses)
		studentAPI.POST("/courses/:course_id/enroll", handlers.Enrollment.Enroll)
		studentAPI.POST("/courses/:course_id/enroll/cancel", handlers.Enrollment.CancelEnrollment)
		studentAPI.GET("/courses/:course_id/content", handlers.Enrollment.GetCourseContent)

		studentAPI.GET("/courses/:course_id/exams/:exam_id", handlers.Exam.GetPaper)
		studentAPI.POST("/courses/:course_id/exams/:exam_id/submit", handlers.Exam.SubmitExam)
		studentAPI.GET("/courses/:course_id/exams/:exam_id/result", handlers.Exam.GetResult)
		studentAPI.GET("/courses/:course_id/results", handlers.Exam.ListResults)

		studentAPI.POST("/courses/:course_id/videos/:video_id/complete", handlers.Progress.CompleteVideo)
		studentAPI.GET("/courses/:course_id/progress", handlers.Progress.GetProgress)

		studentAPI.POST("/payments", handlers.Payment.RecordPayment)
		studentAPI.GET("/payments", handlers.Payment.ListMyPayments)
	}

	// ─── 4. Parent Group (JWT) ─────────────────────────────────────────
	parentAPI := router.Group("/api/v1/parent")
	parentAPI.Use(middleware.RequireParentJWT(authService))
	{
		parentAPI.GET("/dashboard", handlers.Dashboard.GetParentDashboard)
		parentAPI.GET("/children/:child_id", handlers.Dashboard.GetChildOverview)
	}

	// ─── 5. Instructor Group (JWT) ─────────────────────────────────────
	instructorAPI := router.Group("/api/v1/instructor")
	instructorAPI.Use(middleware.RequireInstructorJWT(authService))
	{
		instructorAPI.GET("/courses", handlers.Course.ListCourses)
		instructorAPI.POST("/courses", handlers.Course.CreateCourse)
		instructorAPI.GET("/courses/:course_id", handlers.Course.GetCourse)
		instructorAPI.PUT("/courses/:course_id", handlers.Course.UpdateCourse)
		instructorAPI.DELETE("/courses/:course_id", handlers.Course.DeleteCourse)
		instructorAPI.PUT("/courses/:course_id/content", handlers.Course.SaveContent)
		instructorAPI.POST("/courses/:course_id/publish", handlers.Course.PublishCourse)
		instructorAPI.POST("/courses/:course_id/archive", handlers.Course.ArchiveCourse)
		instructorAPI.POST("/courses/:course_id/refresh-cache", handlers.Course.RefreshCache)
		instructorAPI.GET("/courses/:course_id/overview", handlers.Dashboard.GetCourseOverview)
	}

	// ─── 6. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/payments/pending", handlers.Payment.ListPendingPayments)
		adminAPI.POST("/payments/:payment_id/confirm", handlers.Payment.ConfirmPayment)
		adminAPI.POST("/payments/:payment_id/reject", handlers.Payment.RejectPayment)
	}

	return router
}
