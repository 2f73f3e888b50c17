package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/data/repos/testutil"
	"github.com/brightclass/brightclass-backend/internal/domain"
)

func TestWeekRepo_IndexLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewWeekRepo(db, testutil.Logger(t))
	ctx := context.Background()

	course := testutil.SeedCourse(t, tx)

	next, err := repo.NextIndex(ctx, tx, course.ID)
	if err != nil {
		t.Fatalf("NextIndex: %v", err)
	}
	if next != 1 {
		t.Fatalf("NextIndex after one seeded week: want 1, got %d", next)
	}

	var ids []uuid.UUID
	ids = append(ids, course.Weeks[0].ID)
	for i := 1; i < 3; i++ {
		w, err := repo.Create(ctx, tx, &domain.Week{
			ID:       uuid.New(),
			CourseID: course.ID,
			Index:    i,
			Title:    "Extra week",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, w.ID)
	}

	reordered, err := domain.Reorder(ids, ids[2], 0)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if err := repo.UpdateIndexes(ctx, tx, reordered); err != nil {
		t.Fatalf("UpdateIndexes: %v", err)
	}

	weeks, err := repo.GetByCourseID(ctx, tx, course.ID)
	if err != nil {
		t.Fatalf("GetByCourseID: %v", err)
	}
	if len(weeks) != 3 {
		t.Fatalf("want 3 weeks, got %d", len(weeks))
	}
	for i, w := range weeks {
		if w.Index != i {
			t.Fatalf("indices not dense: position %d has index %d", i, w.Index)
		}
		if w.ID != reordered[i] {
			t.Fatalf("order not applied at %d", i)
		}
	}
}
