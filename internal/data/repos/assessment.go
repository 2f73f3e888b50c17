package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *domain.Assessment) (*domain.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error)
	GetWithQuestions(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error)
	GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*domain.Assessment, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.Assessment, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *domain.Assessment) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *domain.Assessment) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (r *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var assessment domain.Assessment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) GetWithQuestions(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var assessment domain.Assessment
	if err := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("question.index ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("answer_option.index ASC") }).
		Where("id = ?", id).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// GetByIDForUpdate locks the assessment row for the rest of the transaction.
// StartAttempt takes this lock before counting prior submissions so two
// concurrent starts cannot both pass a last-attempt check.
func (r *assessmentRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var assessment domain.Assessment
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var assessment domain.Assessment
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Assessment
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *domain.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if assessment == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(assessment).Error; err != nil {
		return err
	}
	return nil
}

func (r *assessmentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Assessment{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *assessmentRepo) SoftDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&domain.Assessment{}).Error; err != nil {
		return err
	}
	return nil
}
