package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/brightclass/brightclass-backend/internal/clients/redis"
	"github.com/brightclass/brightclass-backend/internal/data/repos"
	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/platform/retry"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

type ProgressService interface {
	OnLessonCompleted(ctx context.Context, lessonID uuid.UUID) (*domain.CourseRollup, error)
	OnAssessmentGraded(ctx context.Context, sub *domain.Submission) error
	GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*domain.CourseRollup, error)
}

type progressService struct {
	db                 *gorm.DB
	log                *logger.Logger
	courseRepo         repos.CourseRepo
	weekRepo           repos.WeekRepo
	lessonRepo         repos.LessonRepo
	assessmentRepo     repos.AssessmentRepo
	lessonProgressRepo repos.LessonProgressRepo
	courseProgressRepo repos.CourseProgressRepo
	enrollmentRepo     repos.EnrollmentRepo
	cache              redisclient.ProgressCache
	issuer             CertificateIssuer
	issuePolicy        retry.Policy
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	weekRepo repos.WeekRepo,
	lessonRepo repos.LessonRepo,
	assessmentRepo repos.AssessmentRepo,
	lessonProgressRepo repos.LessonProgressRepo,
	courseProgressRepo repos.CourseProgressRepo,
	enrollmentRepo repos.EnrollmentRepo,
	cache redisclient.ProgressCache,
	issuer CertificateIssuer,
) ProgressService {
	serviceLog := baseLog.With("service", "ProgressService")
	return &progressService{
		db:                 db,
		log:                serviceLog,
		courseRepo:         courseRepo,
		weekRepo:           weekRepo,
		lessonRepo:         lessonRepo,
		assessmentRepo:     assessmentRepo,
		lessonProgressRepo: lessonProgressRepo,
		courseProgressRepo: courseProgressRepo,
		enrollmentRepo:     enrollmentRepo,
		cache:              cache,
		issuer:             issuer,
		issuePolicy: retry.Policy{
			Name:        "certificate-issue",
			MaxAttempts: 5,
			Delay:       2 * time.Second,
			Exponential: true,
		},
	}
}

// OnLessonCompleted upserts the completion keyed on the unique learner and
// lesson pair, so marking the same lesson twice cannot move the percentage.
func (s *progressService) OnLessonCompleted(ctx context.Context, lessonID uuid.UUID) (*domain.CourseRollup, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || !rd.CanLearn() {
		return nil, apierr.Forbidden(fmt.Errorf("learner context required"))
	}
	return s.markComplete(ctx, rd.UserID, lessonID)
}

// OnAssessmentGraded marks the owning lesson complete once the graded
// attempt passes. Failed attempts leave progress untouched.
func (s *progressService) OnAssessmentGraded(ctx context.Context, sub *domain.Submission) error {
	if sub == nil || sub.Status != domain.SubmissionGraded || !sub.Passed {
		return nil
	}
	if sub.AssessmentID == nil {
		return nil
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, nil, *sub.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return wrapServiceErr(err, "resolve graded assessment")
	}
	_, err = s.markComplete(ctx, sub.LearnerID, assessment.LessonID)
	return err
}

func (s *progressService) markComplete(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.CourseRollup, error) {
	var (
		rollup   domain.CourseRollup
		courseID uuid.UUID
		issue    bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lesson, err := s.lessonRepo.GetByID(ctx, tx, lessonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("lesson")
			}
			return err
		}
		week, err := s.weekRepo.GetByID(ctx, tx, lesson.WeekID)
		if err != nil {
			return err
		}
		if week.Locked(time.Now()) {
			return apierr.InvalidState(fmt.Errorf("week %q is locked until %s", week.Title, week.UnlockAt.Format(time.RFC3339)))
		}
		courseID = week.CourseID

		if err := s.lessonProgressRepo.Upsert(ctx, tx, &domain.LessonProgress{
			ID:          uuid.New(),
			LearnerID:   learnerID,
			LessonID:    lessonID,
			CourseID:    courseID,
			CompletedAt: time.Now(),
		}); err != nil {
			return err
		}

		rollup, err = s.recompute(ctx, tx, learnerID, courseID)
		if err != nil {
			return err
		}

		issue, err = s.syncEnrollment(ctx, tx, learnerID, courseID, rollup)
		return err
	})
	if err != nil {
		return nil, wrapServiceErr(err, "record lesson completion")
	}

	s.writeCache(ctx, learnerID, courseID, rollup)
	if issue {
		s.issueCertificate(ctx, learnerID, courseID)
	}
	return &rollup, nil
}

// recompute rebuilds the rollup from the course aggregate and the learner's
// completions, and persists it.
func (s *progressService) recompute(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) (domain.CourseRollup, error) {
	course, err := s.courseRepo.GetAggregate(ctx, tx, courseID)
	if err != nil {
		return domain.CourseRollup{}, err
	}

	rows, err := s.lessonProgressRepo.GetByLearnerAndCourse(ctx, tx, learnerID, courseID)
	if err != nil {
		return domain.CourseRollup{}, err
	}
	completed := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		completed[row.LessonID] = true
	}

	rollup := domain.Rollup(course, completed)

	progress := &domain.CourseProgress{
		ID:         uuid.New(),
		LearnerID:  learnerID,
		CourseID:   courseID,
		Percentage: rollup.Percentage,
	}
	if err := progress.SetWeeks(rollup.Weeks); err != nil {
		return domain.CourseRollup{}, err
	}
	if err := s.courseProgressRepo.Upsert(ctx, tx, progress); err != nil {
		return domain.CourseRollup{}, err
	}
	return rollup, nil
}

// syncEnrollment derives the enrollment status from the rollup and reports
// whether a certificate should be issued. The issued flag flips inside the
// same transaction, which is what makes the trigger fire exactly once.
func (s *progressService) syncEnrollment(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID, rollup domain.CourseRollup) (bool, error) {
	enrollment, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, tx, learnerID, courseID)
	if err != nil {
		return false, err
	}
	if enrollment == nil {
		return false, nil
	}

	enrollment.Status = domain.EnrollmentStatusFor(rollup)

	issue := false
	if rollup.Complete() {
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
		course, err := s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			return false, err
		}
		if course.Settings.CertificateEnabled && !enrollment.CertificateIssued {
			enrollment.CertificateIssued = true
			issue = true
		}
	}

	if err := s.enrollmentRepo.Update(ctx, tx, enrollment); err != nil {
		return false, err
	}
	return issue, nil
}

// GetCourseProgress serves from the cache and recomputes on a miss.
func (s *progressService) GetCourseProgress(ctx context.Context, courseID uuid.UUID) (*domain.CourseRollup, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || !rd.CanLearn() {
		return nil, apierr.Forbidden(fmt.Errorf("learner context required"))
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, rd.UserID, courseID)
		if err != nil {
			s.log.Warn("progress cache read failed", "course_id", courseID, "error", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	var rollup domain.CourseRollup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rollup, err = s.recompute(ctx, tx, rd.UserID, courseID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("course")
		}
		return nil, wrapServiceErr(err, "compute course progress")
	}

	s.writeCache(ctx, rd.UserID, courseID, rollup)
	return &rollup, nil
}

func (s *progressService) writeCache(ctx context.Context, learnerID, courseID uuid.UUID, rollup domain.CourseRollup) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, learnerID, courseID, rollup); err != nil {
		s.log.Warn("progress cache write failed", "course_id", courseID, "error", err)
	}
}

// issueCertificate runs after the transaction that flipped the issued flag
// committed. The flag stays set even when every attempt fails; the fallback
// leaves an actionable log line instead of re-firing on later completions.
func (s *progressService) issueCertificate(ctx context.Context, learnerID, courseID uuid.UUID) {
	if s.issuer == nil {
		return
	}
	err := s.issuePolicy.Do(ctx, func(ctx context.Context) error {
		return s.issuer.Issue(ctx, learnerID, courseID)
	}, func(lastErr error) {
		s.log.Error("certificate issuance exhausted retries",
			"learner_id", learnerID, "course_id", courseID, "error", lastErr)
	})
	if err == nil {
		s.log.Info("certificate issuance triggered", "learner_id", learnerID, "course_id", courseID)
	}
}
