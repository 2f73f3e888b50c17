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

type AssessmentService interface {
	StartAttempt(ctx context.Context, assessmentID uuid.UUID, idempotencyKey string) (*domain.Submission, error)
	SubmitAnswer(ctx context.Context, submissionID, questionID uuid.UUID, value string) (*domain.Submission, error)
	SubmitAttempt(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)
	GradeQuestion(ctx context.Context, submissionID, questionID uuid.UUID, points float64, feedback string) (*domain.Submission, error)
	ReviewSubmission(ctx context.Context, submissionID uuid.UUID, note string) (*domain.Submission, error)
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)
	ListAttempts(ctx context.Context, assessmentID uuid.UUID) ([]*domain.Submission, error)
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	submissionRepo repos.SubmissionRepo
	lessonRepo     repos.LessonRepo
	progress       ProgressService
	now            func() time.Time
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	submissionRepo repos.SubmissionRepo,
	lessonRepo repos.LessonRepo,
	progress ProgressService,
) AssessmentService {
	serviceLog := baseLog.With("service", "AssessmentService")
	return &assessmentService{
		db:             db,
		log:            serviceLog,
		assessmentRepo: assessmentRepo,
		submissionRepo: submissionRepo,
		lessonRepo:     lessonRepo,
		progress:       progress,
		now:            time.Now,
	}
}

func (s *assessmentService) learner(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Forbidden(fmt.Errorf("request data not set in context"))
	}
	if !rd.CanLearn() {
		return nil, apierr.Forbidden(fmt.Errorf("role %s cannot take assessments", rd.Role))
	}
	return rd, nil
}

func (s *assessmentService) grader(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Forbidden(fmt.Errorf("request data not set in context"))
	}
	if !rd.CanGrade() {
		return nil, apierr.Forbidden(fmt.Errorf("role %s cannot grade", rd.Role))
	}
	return rd, nil
}

// StartAttempt creates one attempt under the assessment row lock, so two
// concurrent starts at the last remaining attempt cannot both succeed. A
// repeated idempotency key returns the attempt it already created.
func (s *assessmentService) StartAttempt(ctx context.Context, assessmentID uuid.UUID, idempotencyKey string) (*domain.Submission, error) {
	rd, err := s.learner(ctx)
	if err != nil {
		return nil, err
	}

	var sub *domain.Submission
	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.submissionRepo.GetByIdempotencyKey(ctx, tx, assessmentID, rd.UserID, idempotencyKey)
		if err != nil {
			return err
		}
		if existing != nil {
			sub = existing
			return nil
		}

		if _, err := s.assessmentRepo.GetByIDForUpdate(ctx, tx, assessmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("assessment")
			}
			return err
		}
		assessment, err := s.assessmentRepo.GetWithQuestions(ctx, tx, assessmentID)
		if err != nil {
			return err
		}
		if len(assessment.Questions) == 0 {
			return apierr.InvalidState(fmt.Errorf("assessment has no questions"))
		}

		prior, err := s.submissionRepo.CountByAssessmentAndLearner(ctx, tx, assessmentID, rd.UserID)
		if err != nil {
			return err
		}

		sub, err = domain.NewAttempt(assessment, rd.UserID, prior, s.now())
		if err != nil {
			return err
		}
		sub.IdempotencyKey = idempotencyKey
		_, err = s.submissionRepo.Create(ctx, tx, sub)
		return err
	})
	if err != nil {
		return nil, wrapServiceErr(err, "start attempt")
	}
	s.log.Info("attempt started", "assessment_id", assessmentID, "learner_id", rd.UserID, "attempt", sub.AttemptNumber)
	return sub, nil
}

// SubmitAnswer records one response. After the deadline the attempt is
// finalized with the answers recorded before expiry and the call still
// reports time-expired to the client.
func (s *assessmentService) SubmitAnswer(ctx context.Context, submissionID, questionID uuid.UUID, value string) (*domain.Submission, error) {
	rd, err := s.learner(ctx)
	if err != nil {
		return nil, err
	}

	var (
		sub     *domain.Submission
		expired error
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.lockOwnSubmission(ctx, tx, submissionID, rd.UserID)
		if err != nil {
			return err
		}
		assessment, err := s.attachedAssessment(ctx, tx, sub)
		if err != nil {
			return err
		}

		applyErr := sub.ApplyAnswer(assessment, questionID, value, s.now())
		if apierr.Is(applyErr, apierr.CodeTimeExpired) {
			// Time up is an implicit submission: the finalize must commit
			// even though the call itself fails.
			expired = applyErr
			if err := sub.Finalize(assessment, s.now()); err != nil && !apierr.Is(err, apierr.CodeTimeExpired) {
				return err
			}
			return s.submissionRepo.Update(ctx, tx, sub)
		}
		if applyErr != nil {
			return applyErr
		}
		return s.submissionRepo.Update(ctx, tx, sub)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "submit answer")
	}
	if expired != nil {
		s.log.Info("attempt auto-submitted at deadline", "submission_id", submissionID)
		s.notifyIfGraded(ctx, sub)
		return sub, expired
	}
	return sub, nil
}

// SubmitAttempt freezes the attempt. A submit past the deadline still
// commits with the answers recorded in time, and the call reports
// time-expired like a late answer would.
func (s *assessmentService) SubmitAttempt(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	rd, err := s.learner(ctx)
	if err != nil {
		return nil, err
	}

	var (
		sub     *domain.Submission
		expired error
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.lockOwnSubmission(ctx, tx, submissionID, rd.UserID)
		if err != nil {
			return err
		}
		assessment, err := s.attachedAssessment(ctx, tx, sub)
		if err != nil {
			return err
		}
		if finErr := sub.Finalize(assessment, s.now()); finErr != nil {
			if !apierr.Is(finErr, apierr.CodeTimeExpired) {
				return finErr
			}
			expired = finErr
		}
		return s.submissionRepo.Update(ctx, tx, sub)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "submit attempt")
	}

	s.notifyIfGraded(ctx, sub)
	if expired != nil {
		s.log.Info("attempt auto-submitted at deadline", "submission_id", submissionID)
		return sub, expired
	}
	s.log.Info("attempt submitted", "submission_id", submissionID, "status", sub.Status)
	return sub, nil
}

func (s *assessmentService) GradeQuestion(ctx context.Context, submissionID, questionID uuid.UUID, points float64, feedback string) (*domain.Submission, error) {
	rd, err := s.grader(ctx)
	if err != nil {
		return nil, err
	}

	var sub *domain.Submission
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.submissionRepo.GetByIDForUpdate(ctx, tx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("submission")
			}
			return err
		}
		assessment, err := s.attachedAssessment(ctx, tx, sub)
		if err != nil {
			return err
		}
		if err := sub.ApplyGrade(assessment, rd.UserID, questionID, points, feedback, s.now()); err != nil {
			return err
		}
		return s.submissionRepo.Update(ctx, tx, sub)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "grade question")
	}

	s.notifyIfGraded(ctx, sub)
	return sub, nil
}

func (s *assessmentService) ReviewSubmission(ctx context.Context, submissionID uuid.UUID, note string) (*domain.Submission, error) {
	rd, err := s.grader(ctx)
	if err != nil {
		return nil, err
	}

	var sub *domain.Submission
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = s.submissionRepo.GetByIDForUpdate(ctx, tx, submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("submission")
			}
			return err
		}
		if err := sub.ApplyReview(rd.UserID, note, s.now()); err != nil {
			return err
		}
		return s.submissionRepo.Update(ctx, tx, sub)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "review submission")
	}
	return sub, nil
}

func (s *assessmentService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Forbidden(fmt.Errorf("request data not set in context"))
	}

	sub, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("submission")
		}
		return nil, apierr.Internal(fmt.Errorf("load submission: %w", err))
	}
	if sub.LearnerID != rd.UserID && !rd.CanGrade() {
		return nil, apierr.Forbidden(fmt.Errorf("submission belongs to another learner"))
	}
	return sub, nil
}

func (s *assessmentService) ListAttempts(ctx context.Context, assessmentID uuid.UUID) ([]*domain.Submission, error) {
	rd, err := s.learner(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.GetByAssessmentAndLearner(ctx, nil, assessmentID, rd.UserID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list attempts: %w", err))
	}
	return subs, nil
}

func (s *assessmentService) lockOwnSubmission(ctx context.Context, tx *gorm.DB, submissionID, learnerID uuid.UUID) (*domain.Submission, error) {
	sub, err := s.submissionRepo.GetByIDForUpdate(ctx, tx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("submission")
		}
		return nil, err
	}
	if sub.LearnerID != learnerID {
		return nil, apierr.Forbidden(fmt.Errorf("submission belongs to another learner"))
	}
	return sub, nil
}

func (s *assessmentService) attachedAssessment(ctx context.Context, tx *gorm.DB, sub *domain.Submission) (*domain.Assessment, error) {
	if sub.AssessmentID == nil {
		return nil, apierr.InvalidState(fmt.Errorf("submission is detached from its assessment"))
	}
	assessment, err := s.assessmentRepo.GetByID(ctx, tx, *sub.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("assessment")
		}
		return nil, err
	}
	return assessment, nil
}

// notifyIfGraded feeds a fully graded attempt into the progress aggregator.
// Progress failures never fail the grading call; the rollup self-heals on the
// next read.
func (s *assessmentService) notifyIfGraded(ctx context.Context, sub *domain.Submission) {
	if s.progress == nil || sub == nil || sub.Status != domain.SubmissionGraded {
		return
	}
	if err := s.progress.OnAssessmentGraded(ctx, sub); err != nil {
		s.log.Warn("progress update after grading failed", "submission_id", sub.ID, "error", err)
	}
}
