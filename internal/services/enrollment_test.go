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
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

func newEnrollmentService(t *testing.T, tx *gorm.DB) EnrollmentService {
	t.Helper()
	log := testutil.Logger(t)
	return NewEnrollmentService(
		tx, log,
		repos.NewCourseRepo(tx, log),
		repos.NewWeekRepo(tx, log),
		repos.NewLessonRepo(tx, log),
		repos.NewEnrollmentRepo(tx, log),
	)
}

func TestCanAccessLesson_LockedWeek(t *testing.T) {
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

	newLesson := func(week *domain.Week, preview bool) *domain.Lesson {
		lesson := &domain.Lesson{
			ID:        uuid.New(),
			WeekID:    week.ID,
			Index:     0,
			Title:     "Lesson",
			Kind:      domain.LessonVideo,
			IsPreview: preview,
		}
		if err := tx.Create(lesson).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
		return lesson
	}
	lockedPreview := newLesson(locked, true)
	openPreview := newLesson(course.Weeks[0], true)

	svc := newEnrollmentService(t, tx)

	anonymous := context.Background()
	learner := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   requestdata.RoleLearner,
	})
	author := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: uuid.New(),
		Role:   requestdata.RoleInstructor,
	})

	cases := []struct {
		name   string
		ctx    context.Context
		lesson *domain.Lesson
		want   bool
	}{
		{"anonymous locked preview", anonymous, lockedPreview, false},
		{"learner locked preview", learner, lockedPreview, false},
		{"author locked preview", author, lockedPreview, true},
		{"anonymous open preview", anonymous, openPreview, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.CanAccessLesson(tc.ctx, tc.lesson.ID)
			if err != nil {
				t.Fatalf("CanAccessLesson: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want access=%v, got %v", tc.want, got)
			}
		})
	}
}
