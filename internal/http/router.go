package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/brightclass/brightclass-backend/internal/http/handlers"
	httpMW "github.com/brightclass/brightclass-backend/internal/http/middleware"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	CourseHandler     *httpH.CourseHandler
	AssessmentHandler *httpH.AssessmentHandler
	ProgressHandler   *httpH.ProgressHandler
	EnrollmentHandler *httpH.EnrollmentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("brightclass"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	r.GET("/healthcheck", httpH.HealthCheck)

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Learner surface.
	if cfg.CourseHandler != nil {
		api.GET("/courses/:id", cfg.CourseHandler.Get)
	}
	if cfg.EnrollmentHandler != nil {
		api.POST("/courses/:id/enroll", cfg.EnrollmentHandler.Enroll)
		api.GET("/enrollments", cfg.EnrollmentHandler.ListMine)
		api.GET("/lessons/:id/access", cfg.EnrollmentHandler.CanAccessLesson)
	}
	if cfg.ProgressHandler != nil {
		api.POST("/lessons/:id/complete", cfg.ProgressHandler.CompleteLesson)
		api.GET("/courses/:id/progress", cfg.ProgressHandler.GetCourseProgress)
	}
	if cfg.AssessmentHandler != nil {
		api.POST("/assessments/:id/attempts", cfg.AssessmentHandler.StartAttempt)
		api.GET("/assessments/:id/attempts", cfg.AssessmentHandler.ListAttempts)
		api.POST("/submissions/:id/answers", cfg.AssessmentHandler.SubmitAnswer)
		api.POST("/submissions/:id/submit", cfg.AssessmentHandler.SubmitAttempt)
		api.GET("/submissions/:id", cfg.AssessmentHandler.GetSubmission)
	}

	// Authoring surface.
	authoring := api.Group("/")
	if cfg.AuthMiddleware != nil {
		authoring.Use(cfg.AuthMiddleware.RequireAuthor())
	}
	if cfg.CourseHandler != nil {
		authoring.POST("/courses", cfg.CourseHandler.Create)
		authoring.PUT("/courses/:id", cfg.CourseHandler.Update)
		authoring.DELETE("/courses/:id", cfg.CourseHandler.Delete)
		authoring.POST("/courses/:id/weeks", cfg.CourseHandler.AddWeek)
		authoring.GET("/courses/:id/publish-check", cfg.CourseHandler.Validate)
		authoring.POST("/courses/:id/publish", cfg.CourseHandler.Publish)
		authoring.POST("/courses/:id/archive", cfg.CourseHandler.Archive)
		authoring.POST("/weeks/:id/lessons", cfg.CourseHandler.AddLesson)
		authoring.POST("/lessons/:id/assets", cfg.CourseHandler.AttachAsset)
		authoring.PUT("/lessons/:id/assessment", cfg.CourseHandler.ConfigureAssessment)
		authoring.POST("/assessments/:id/questions", cfg.CourseHandler.AddQuestion)
		authoring.PUT("/questions/:id", cfg.CourseHandler.UpdateQuestion)
		authoring.DELETE("/questions/:id", cfg.CourseHandler.DeleteQuestion)
		authoring.POST("/reorder/:id", cfg.CourseHandler.Reorder)
	}

	// Grading surface.
	grading := api.Group("/")
	if cfg.AuthMiddleware != nil {
		grading.Use(cfg.AuthMiddleware.RequireGrader())
	}
	if cfg.AssessmentHandler != nil {
		grading.POST("/submissions/:id/grade", cfg.AssessmentHandler.GradeQuestion)
		grading.POST("/submissions/:id/review", cfg.AssessmentHandler.Review)
	}

	return r
}
