package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type AnswerOptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, options []*domain.AnswerOption) ([]*domain.AnswerOption, error)
	GetByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*domain.AnswerOption, error)
	Update(ctx context.Context, tx *gorm.DB, option *domain.AnswerOption) error
	UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) error
}

type answerOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerOptionRepo(db *gorm.DB, baseLog *logger.Logger) AnswerOptionRepo {
	repoLog := baseLog.With("repo", "AnswerOptionRepo")
	return &answerOptionRepo{db: db, log: repoLog}
}

func (r *answerOptionRepo) Create(ctx context.Context, tx *gorm.DB, options []*domain.AnswerOption) ([]*domain.AnswerOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(options) == 0 {
		return []*domain.AnswerOption{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *answerOptionRepo) GetByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*domain.AnswerOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.AnswerOption
	if questionID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *answerOptionRepo) Update(ctx context.Context, tx *gorm.DB, option *domain.AnswerOption) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if option == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(option).Error; err != nil {
		return err
	}
	return nil
}

func (r *answerOptionRepo) UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for i, id := range orderedIDs {
		if err := transaction.WithContext(ctx).
			Model(&domain.AnswerOption{}).
			Where("id = ?", id).
			Update("index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *answerOptionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.AnswerOption{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *answerOptionRepo) SoftDeleteByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Delete(&domain.AnswerOption{}).Error; err != nil {
		return err
	}
	return nil
}
