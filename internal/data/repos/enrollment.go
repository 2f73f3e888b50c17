package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) (*domain.Enrollment, error)
	GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) (*domain.Enrollment, error)
	GetByLearnerID(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*domain.Enrollment, error)
	CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetByLearnerAndCourse returns nil without error when the learner is not
// enrolled.
func (r *enrollmentRepo) GetByLearnerAndCourse(ctx context.Context, tx *gorm.DB, learnerID, courseID uuid.UUID) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var enrollment domain.Enrollment
	err := transaction.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) GetByLearnerID(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if learnerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("enrolled_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *enrollmentRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *enrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if enrollment == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(enrollment).Error; err != nil {
		return err
	}
	return nil
}
