package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type WeekRepo interface {
	Create(ctx context.Context, tx *gorm.DB, week *domain.Week) (*domain.Week, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Week, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Week, error)
	NextIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, week *domain.Week) error
	UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type weekRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekRepo(db *gorm.DB, baseLog *logger.Logger) WeekRepo {
	repoLog := baseLog.With("repo", "WeekRepo")
	return &weekRepo{db: db, log: repoLog}
}

func (r *weekRepo) Create(ctx context.Context, tx *gorm.DB, week *domain.Week) (*domain.Week, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(week).Error; err != nil {
		return nil, err
	}
	return week, nil
}

func (r *weekRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Week, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var week domain.Week
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&week).Error; err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *weekRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*domain.Week, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Week
	if courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// NextIndex returns the next dense position under the course. Callers must
// hold the transaction that also inserts the row.
func (r *weekRepo) NextIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Week{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *weekRepo) Update(ctx context.Context, tx *gorm.DB, week *domain.Week) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if week == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(week).Error; err != nil {
		return err
	}
	return nil
}

// UpdateIndexes renumbers the whole sibling set to match the given order.
// One transaction covers every row so readers never observe a partial
// renumber.
func (r *weekRepo) UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for i, id := range orderedIDs {
		if err := transaction.WithContext(ctx).
			Model(&domain.Week{}).
			Where("id = ?", id).
			Update("index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *weekRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Week{}).Error; err != nil {
		return err
	}
	return nil
}
