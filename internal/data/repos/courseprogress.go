package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type CourseProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.CourseProgress) error
	GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) (*domain.CourseProgress, error)
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	repoLog := baseLog.With("repo", "CourseProgressRepo")
	return &courseProgressRepo{db: db, log: repoLog}
}

func (r *courseProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.CourseProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", row.LearnerID, row.CourseID).
		Assign(map[string]interface{}{
			"percentage": row.Percentage,
			"weeks":      row.Weeks,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *courseProgressRepo) GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) (*domain.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row domain.CourseProgress
	err := transaction.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
