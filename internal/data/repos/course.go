package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *domain.Course) (*domain.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error)
	GetAggregate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error)
	GetByAuthorID(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*domain.Course, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status domain.CourseStatus) ([]*domain.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *domain.Course) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.CourseStatus) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *domain.Course) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}
	return course, nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var course domain.Course
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetAggregate loads the full authoring tree in display order: weeks,
// lessons, assets, assessment configs, questions and options. The publication
// validator and the progress rollup both work over this shape.
func (r *courseRepo) GetAggregate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var course domain.Course
	if err := transaction.WithContext(ctx).
		Preload("Weeks", func(db *gorm.DB) *gorm.DB { return db.Order("week.index ASC") }).
		Preload("Weeks.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lesson.index ASC") }).
		Preload("Weeks.Lessons.Assets", func(db *gorm.DB) *gorm.DB { return db.Order("asset.index ASC") }).
		Preload("Weeks.Lessons.Assessment").
		Preload("Weeks.Lessons.Assessment.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("question.index ASC") }).
		Preload("Weeks.Lessons.Assessment.Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("answer_option.index ASC") }).
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByAuthorID(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if authorID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status domain.CourseStatus) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if err := transaction.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *domain.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if course == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(course).Error; err != nil {
		return err
	}
	return nil
}

func (r *courseRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.CourseStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *courseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Course{}).Error; err != nil {
		return err
	}
	return nil
}
