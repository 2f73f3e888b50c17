package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *domain.Question) (*domain.Question, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error)
	GetWithOptions(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error)
	GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*domain.Question, error)
	NextIndex(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, question *domain.Question) error
	UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *domain.Question) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var question domain.Question
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) GetWithOptions(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var question domain.Question
	if err := transaction.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("answer_option.index ASC") }).
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*domain.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Question
	if assessmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) NextIndex(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Question{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *questionRepo) Update(ctx context.Context, tx *gorm.DB, question *domain.Question) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if question == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(question).Error; err != nil {
		return err
	}
	return nil
}

func (r *questionRepo) UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for i, id := range orderedIDs {
		if err := transaction.WithContext(ctx).
			Model(&domain.Question{}).
			Where("id = ?", id).
			Update("index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *questionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Question{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *questionRepo) SoftDeleteByAssessmentIDs(ctx context.Context, tx *gorm.DB, assessmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assessmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("assessment_id IN ?", assessmentIDs).
		Delete(&domain.Question{}).Error; err != nil {
		return err
	}
	return nil
}
