package app

import (
	"gorm.io/gorm"

	redisclient "github.com/brightclass/brightclass-backend/internal/clients/redis"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Content    services.ContentService
	Assessment services.AssessmentService
	Progress   services.ProgressService
	Enrollment services.EnrollmentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log, cfg.JWTSecretKey)
	if err != nil {
		return Services{}, err
	}

	// Object storage and the progress cache degrade to nil on init failure
	// so the API can still serve content without them.
	store, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("object store unavailable, asset uploads disabled", "error", err)
		store = nil
	}
	cache, err := redisclient.NewProgressCache(log)
	if err != nil {
		log.Warn("progress cache unavailable, serving uncached", "error", err)
		cache = nil
	}

	issuer := services.NewLogCertificateIssuer(log)

	contentService := services.NewContentService(
		db, log, store, cache,
		r.Course, r.Week, r.Lesson, r.Asset,
		r.Assessment, r.Question, r.AnswerOption, r.Submission,
	)
	progressService := services.NewProgressService(
		db, log,
		r.Course, r.Week, r.Lesson, r.Assessment,
		r.LessonProgress, r.CourseProgress, r.Enrollment,
		cache, issuer,
	)
	assessmentService := services.NewAssessmentService(
		db, log,
		r.Assessment, r.Submission, r.Lesson,
		progressService,
	)
	enrollmentService := services.NewEnrollmentService(
		db, log,
		r.Course, r.Week, r.Lesson, r.Enrollment,
	)

	return Services{
		Auth:       authService,
		Content:    contentService,
		Assessment: assessmentService,
		Progress:   progressService,
		Enrollment: enrollmentService,
	}, nil
}
