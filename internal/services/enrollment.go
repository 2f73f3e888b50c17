package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/data/repos"
	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uuid.UUID) (*domain.Enrollment, error)
	ListMine(ctx context.Context) ([]*domain.Enrollment, error)
	CanAccessLesson(ctx context.Context, lessonID uuid.UUID) (bool, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	weekRepo       repos.WeekRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	weekRepo repos.WeekRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
) EnrollmentService {
	serviceLog := baseLog.With("service", "EnrollmentService")
	return &enrollmentService{
		db:             db,
		log:            serviceLog,
		courseRepo:     courseRepo,
		weekRepo:       weekRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Enroll admits the learner into a published course, respecting the
// enrollment limit and the approval requirement from the course settings.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uuid.UUID) (*domain.Enrollment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || !rd.CanLearn() {
		return nil, apierr.Forbidden(fmt.Errorf("learner context required"))
	}

	var enrollment *domain.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("course")
			}
			return err
		}
		if course.Status != domain.CoursePublished {
			return apierr.InvalidState(fmt.Errorf("course is %s, only published courses accept enrollment", course.Status))
		}
		if !course.Settings.AllowSelfEnrollment && !rd.CanAuthor() {
			return apierr.Forbidden(fmt.Errorf("course does not allow self enrollment"))
		}

		existing, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, tx, rd.UserID, courseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apierr.Conflict(fmt.Errorf("already enrolled"))
		}

		if limit := course.Settings.EnrollmentLimit; limit > 0 {
			count, err := s.enrollmentRepo.CountByCourseID(ctx, tx, courseID)
			if err != nil {
				return err
			}
			if count >= limit {
				return apierr.Conflict(fmt.Errorf("course is full"))
			}
		}

		approval := domain.ApprovalNone
		if course.Settings.RequireApproval {
			approval = domain.ApprovalPending
		}
		enrollment = &domain.Enrollment{
			ID:         uuid.New(),
			LearnerID:  rd.UserID,
			CourseID:   courseID,
			Status:     domain.EnrollmentNotStarted,
			Approval:   approval,
			EnrolledAt: time.Now(),
		}
		_, err = s.enrollmentRepo.Create(ctx, tx, enrollment)
		return err
	})
	if err != nil {
		return nil, wrapServiceErr(err, "enroll")
	}
	s.log.Info("learner enrolled", "course_id", courseID, "learner_id", rd.UserID, "approval", enrollment.Approval)
	return enrollment, nil
}

func (s *enrollmentService) ListMine(ctx context.Context) ([]*domain.Enrollment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || !rd.CanLearn() {
		return nil, apierr.Forbidden(fmt.Errorf("learner context required"))
	}
	enrollments, err := s.enrollmentRepo.GetByLearnerID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list enrollments: %w", err))
	}
	return enrollments, nil
}

// CanAccessLesson gates lesson reads: preview lessons are open to anyone,
// everything else needs an active enrollment in the owning course. A week
// with a future unlock date stays closed to learners no matter what,
// preview lessons included; only authors see through the gate.
func (s *enrollmentService) CanAccessLesson(ctx context.Context, lessonID uuid.UUID) (bool, error) {
	rd := requestdata.GetRequestData(ctx)

	lesson, err := s.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apierr.NotFound("lesson")
		}
		return false, apierr.Internal(fmt.Errorf("load lesson: %w", err))
	}
	week, err := s.weekRepo.GetByID(ctx, nil, lesson.WeekID)
	if err != nil {
		return false, apierr.Internal(fmt.Errorf("load week: %w", err))
	}

	if rd != nil && rd.CanAuthor() {
		return true, nil
	}
	if week.Locked(time.Now()) {
		return false, nil
	}
	if lesson.IsPreview {
		return true, nil
	}
	if rd == nil || !rd.CanLearn() {
		return false, nil
	}

	enrollment, err := s.enrollmentRepo.GetByLearnerAndCourse(ctx, nil, rd.UserID, week.CourseID)
	if err != nil {
		return false, apierr.Internal(fmt.Errorf("load enrollment: %w", err))
	}
	return enrollment != nil && enrollment.Active(), nil
}
