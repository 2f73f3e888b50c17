package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type AssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, asset *domain.Asset) (*domain.Asset, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Asset, error)
	GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*domain.Asset, error)
	NextIndex(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (int, error)
	UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	SoftDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	repoLog := baseLog.With("repo", "AssetRepo")
	return &assetRepo{db: db, log: repoLog}
}

func (r *assetRepo) Create(ctx context.Context, tx *gorm.DB, asset *domain.Asset) (*domain.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *assetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var asset domain.Asset
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) GetByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*domain.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Asset
	if lessonID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assetRepo) NextIndex(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *assetRepo) UpdateIndexes(ctx context.Context, tx *gorm.DB, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	for i, id := range orderedIDs {
		if err := transaction.WithContext(ctx).
			Model(&domain.Asset{}).
			Where("id = ?", id).
			Update("index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *assetRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.Asset{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *assetRepo) SoftDeleteByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&domain.Asset{}).Error; err != nil {
		return err
	}
	return nil
}
