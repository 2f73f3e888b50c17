package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.LessonProgress) error
	GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) ([]*domain.LessonProgress, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

// Upsert is keyed on the unique learner_id + lesson_id pair, which makes a
// repeated completion a no-op rather than a duplicate row.
func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.LessonProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("learner_id = ? AND lesson_id = ?", row.LearnerID, row.LessonID).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *lessonProgressRepo) GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) ([]*domain.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.LessonProgress
	if learnerID == uuid.Nil || courseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
