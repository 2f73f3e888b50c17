package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/data/repos"
	"github.com/brightclass/brightclass-backend/internal/data/repos/testutil"
	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

func newProgressService(t *testing.T, tx *gorm.DB) ProgressService {
	t.Helper()
	log := testutil.Logger(t)
	return NewProgressService(
		tx, log,
		repos.NewCourseRepo(tx, log),
		repos.NewWeekRepo(tx, log),
		repos.NewLessonRepo(tx, log),
		repos.NewAssessmentRepo(tx, log),
		repos.NewLessonProgressRepo(tx, log),
		repos.NewCourseProgressRepo(tx, log),
		repos.NewEnrollmentRepo(tx, log),
		nil,
		NewLogCertificateIssuer(log),
	)
}

func learnerCtx(learnerID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: learnerID,
		Role:   requestdata.RoleLearner,
	})
}

func seedMediaLesson(t *testing.T, tx *gorm.DB, week *domain.Week) *domain.Lesson {
	t.Helper()
	lesson := &domain.Lesson{
		ID:     uuid.New(),
		WeekID: week.ID,
		Index:  0,
		Title:  "Intro video",
		Kind:   domain.LessonVideo,
	}
	if err := tx.Create(lesson).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return lesson
}

func TestOnLessonCompleted_Idempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	course := testutil.SeedCourse(t, tx)
	lesson := seedMediaLesson(t, tx, course.Weeks[0])

	svc := newProgressService(t, tx)
	learnerID := uuid.New()
	ctx := learnerCtx(learnerID)

	first, err := svc.OnLessonCompleted(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	second, err := svc.OnLessonCompleted(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}

	if first.Percentage != 100 || second.Percentage != first.Percentage {
		t.Fatalf("repeat completion moved percentage: first %.2f, second %.2f", first.Percentage, second.Percentage)
	}

	progressRepo := repos.NewLessonProgressRepo(tx, log)
	rows, err := progressRepo.GetByLearnerAndCourse(ctx, tx, learnerID, course.ID)
	if err != nil {
		t.Fatalf("GetByLearnerAndCourse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want a single completion row, got %d", len(rows))
	}
}

func TestOnLessonCompleted_LockedWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	course := testutil.SeedCourse(t, tx)
	unlockAt := time.Now().Add(time.Hour)
	locked := &domain.Week{
		ID:       uuid.New(),
		CourseID: course.ID,
		Index:    1,
		Title:    "Locked week",
		UnlockAt: &unlockAt,
	}
	if err := tx.Create(locked).Error; err != nil {
		t.Fatalf("seed locked week: %v", err)
	}
	lesson := seedMediaLesson(t, tx, locked)

	svc := newProgressService(t, tx)
	ctx := learnerCtx(uuid.New())

	_, err := svc.OnLessonCompleted(ctx, lesson.ID)
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("completing a lesson in a locked week: want %s, got %v", apierr.CodeInvalidState, err)
	}
}
