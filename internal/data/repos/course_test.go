package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/data/repos/testutil"
	"github.com/brightclass/brightclass-backend/internal/domain"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCourseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, &domain.Course{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Title:    "Course repo test",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.CourseDraft {
		t.Fatalf("new course must default to draft, got %s", created.Status)
	}

	got, err := repo.GetByID(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != created.Title {
		t.Fatalf("GetByID: unexpected course: %+v", got)
	}

	if err := repo.UpdateStatus(ctx, tx, created.ID, domain.CoursePublished); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("GetByID after status update: %v", err)
	}
	if got.Status != domain.CoursePublished {
		t.Fatalf("status not persisted: %s", got.Status)
	}

	byAuthor, err := repo.GetByAuthorID(ctx, tx, created.AuthorID)
	if err != nil {
		t.Fatalf("GetByAuthorID: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].ID != created.ID {
		t.Fatalf("GetByAuthorID: unexpected result: %+v", byAuthor)
	}
}

func TestCourseRepo_GetAggregate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewCourseRepo(db, testutil.Logger(t))
	ctx := context.Background()

	course := testutil.SeedCourse(t, tx)
	lesson := testutil.SeedAssessmentLesson(t, tx, course.Weeks[0])

	got, err := repo.GetAggregate(ctx, tx, course.ID)
	if err != nil {
		t.Fatalf("GetAggregate: %v", err)
	}
	if len(got.Weeks) != 1 || len(got.Weeks[0].Lessons) != 1 {
		t.Fatalf("aggregate shape wrong: %+v", got)
	}
	loaded := got.Weeks[0].Lessons[0]
	if loaded.ID != lesson.ID {
		t.Fatalf("wrong lesson loaded: %s", loaded.ID)
	}
	if loaded.Assessment == nil || len(loaded.Assessment.Questions) != 1 {
		t.Fatalf("assessment branch not preloaded: %+v", loaded.Assessment)
	}
	options := loaded.Assessment.Questions[0].Options
	if len(options) != 3 {
		t.Fatalf("options not preloaded: %d", len(options))
	}
	for i, o := range options {
		if o.Index != i {
			t.Fatalf("options out of order at %d: index %d", i, o.Index)
		}
	}
	if !loaded.HasContent() {
		t.Fatal("seeded assessment lesson must count as having content")
	}
}
