package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/data/repos/testutil"
	"github.com/brightclass/brightclass-backend/internal/domain"
)

func TestSubmissionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubmissionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	course := testutil.SeedCourse(t, tx)
	lesson := testutil.SeedAssessmentLesson(t, tx, course.Weeks[0])
	assessment := lesson.Assessment
	learnerID := uuid.New()

	sub, err := domain.NewAttempt(assessment, learnerID, 0, time.Now())
	if err != nil {
		t.Fatalf("NewAttempt: %v", err)
	}
	sub.IdempotencyKey = "retry-abc"
	if _, err := repo.Create(ctx, tx, sub); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err := repo.CountByAssessmentAndLearner(ctx, tx, assessment.ID, learnerID)
	if err != nil {
		t.Fatalf("CountByAssessmentAndLearner: %v", err)
	}
	if count != 1 {
		t.Fatalf("count: want 1, got %d", count)
	}

	byKey, err := repo.GetByIdempotencyKey(ctx, tx, assessment.ID, learnerID, "retry-abc")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey: %v", err)
	}
	if byKey == nil || byKey.ID != sub.ID {
		t.Fatalf("idempotency lookup missed: %+v", byKey)
	}

	missing, err := repo.GetByIdempotencyKey(ctx, tx, assessment.ID, learnerID, "other-key")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown key must return nil, got %+v", missing)
	}

	locked, err := repo.GetByIDForUpdate(ctx, tx, sub.ID)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if locked.ID != sub.ID {
		t.Fatalf("lock read wrong row: %s", locked.ID)
	}
}

func TestSubmissionRepo_DetachKeepsHistory(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSubmissionRepo(db, testutil.Logger(t))
	ctx := context.Background()

	course := testutil.SeedCourse(t, tx)
	lesson := testutil.SeedAssessmentLesson(t, tx, course.Weeks[0])
	assessment := lesson.Assessment
	learnerID := uuid.New()

	sub, err := domain.NewAttempt(assessment, learnerID, 0, time.Now())
	if err != nil {
		t.Fatalf("NewAttempt: %v", err)
	}
	sub.Status = domain.SubmissionGraded
	if _, err := repo.Create(ctx, tx, sub); err != nil {
		t.Fatalf("Create: %v", err)
	}

	graded, err := repo.HasGradedByAssessmentIDs(ctx, tx, []uuid.UUID{assessment.ID})
	if err != nil {
		t.Fatalf("HasGradedByAssessmentIDs: %v", err)
	}
	if !graded {
		t.Fatal("graded submission not detected")
	}

	if err := repo.DetachByAssessmentIDs(ctx, tx, []uuid.UUID{assessment.ID}); err != nil {
		t.Fatalf("DetachByAssessmentIDs: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID after detach: %v", err)
	}
	if got.AssessmentID != nil {
		t.Fatalf("assessment fk must be cleared, got %v", got.AssessmentID)
	}
	if got.Status != domain.SubmissionGraded || len(got.Snapshot) == 0 {
		t.Fatal("detach must keep the graded record and its snapshot")
	}
}
