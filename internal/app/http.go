package app

import (
	"github.com/gin-gonic/gin"

	brighthttp "github.com/brightclass/brightclass-backend/internal/http"
	httpH "github.com/brightclass/brightclass-backend/internal/http/handlers"
	httpMW "github.com/brightclass/brightclass-backend/internal/http/middleware"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type Handlers struct {
	Course     *httpH.CourseHandler
	Assessment *httpH.AssessmentHandler
	Progress   *httpH.ProgressHandler
	Enrollment *httpH.EnrollmentHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Course:     httpH.NewCourseHandler(log, services.Content),
		Assessment: httpH.NewAssessmentHandler(log, services.Assessment),
		Progress:   httpH.NewProgressHandler(log, services.Progress),
		Enrollment: httpH.NewEnrollmentHandler(log, services.Enrollment),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return brighthttp.NewRouter(brighthttp.RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.Auth,
		CourseHandler:     handlers.Course,
		AssessmentHandler: handlers.Assessment,
		ProgressHandler:   handlers.Progress,
		EnrollmentHandler: handlers.Enrollment,
	})
}
