package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) (*domain.Lesson, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error)
	GetWithContent(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error)
	GetByWeekID(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) ([]*domain.Lesson, error)
	GetByWeekIDs(ctx context.Context, tx *gorm.DB, weekIDs []uuid.UUID) ([]*domain.Lesson, error)
	NextIndex(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) error
	UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) (*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, err
	}
	return lesson, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson domain.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetWithContent loads the lesson with whichever content branch it carries:
// ordered assets for media lessons, the assessment config with questions and
// options for assessment lessons.
func (r *lessonRepo) GetWithContent(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson domain.Lesson
	if err := transaction.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("asset.index ASC") }).
		Preload("Assessment").
		Preload("Assessment.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("question.index ASC") }).
		Preload("Assessment.Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("answer_option.index ASC") }).
		Where("id = ?", id).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) GetByWeekID(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if weekID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByWeekIDs(ctx context.Context, tx *gorm.DB, weekIDs []uuid.UUID) ([]*domain.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Lesson
	if len(weekIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("week_id IN ?", weekIDs).
		Order("week_id, index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) NextIndex(ctx context.Context, tx *gorm.DB, weekID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Lesson{}).
		Where("week_id = ?", weekID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *lessonRepo) Update(ctx context.Context, tx *gorm.DB, lesson *domain.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if lesson == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(lesson).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonRepo) UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for i, id := range orderedIDs {
		if err := transaction.WithContext(ctx).
			Model(&domain.Lesson{}).
			Where("id = ?", id).
			Update("index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *lessonRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Lesson{}).Error; err != nil {
		return err
	}
	return nil
}
