package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *domain.Submission) (*domain.Submission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Submission, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Submission, error)
	GetByIdempotencyKey(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID, key string) (*domain.Submission, error)
	GetByAssessmentAndLearner(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID) ([]*domain.Submission, error)
	GetByLearnerID(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*domain.Submission, error)
	CountByAssessmentAndLearner(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID) (int, error)
	HasGradedByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, submission *domain.Submission) error
	DetachByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *domain.Submission) (*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var submission domain.Submission
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByIDForUpdate serializes every mutation of one attempt behind a row
// lock: answer, submit, grade and review always read the latest state.
func (r *submissionRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var submission domain.Submission
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetByIdempotencyKey returns nil without error when no attempt carries the
// key, so StartAttempt can fall through to creating one.
func (r *submissionRepo) GetByIdempotencyKey(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID, key string) (*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if key == "" {
		return nil, nil
	}

	var submission domain.Submission
	err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND learner_id = ? AND idempotency_key = ?", assessmentID, learnerID, key).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) GetByAssessmentAndLearner(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID) ([]*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Submission
	if assessmentID == uuid.Nil || learnerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND learner_id = ?", assessmentID, learnerID).
		Order("attempt_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) GetByLearnerID(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*domain.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Submission
	if learnerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) CountByAssessmentAndLearner(ctx context.Context, tx *gorm.DB, assessmentID, learnerID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("assessment_id = ? AND learner_id = ?", assessmentID, learnerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *submissionRepo) HasGradedByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assessmentIDs) == 0 {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("assessment_id IN ? AND status IN ?", assessmentIDs,
			[]domain.SubmissionStatus{domain.SubmissionGraded, domain.SubmissionReviewed}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *submissionRepo) Update(ctx context.Context, tx *gorm.DB, submission *domain.Submission) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if submission == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(submission).Error; err != nil {
		return err
	}
	return nil
}

// DetachByAssessmentIDs clears the assessment FK so graded history outlives a
// force-deleted assessment lesson. Submissions are never deleted.
func (r *submissionRepo) DetachByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assessmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("assessment_id IN ?", assessmentIDs).
		Update("assessment_id", nil).Error; err != nil {
		return err
	}
	return nil
}
