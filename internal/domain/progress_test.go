package domain

import (
	"testing"

	"github.com/google/uuid"
)

func progressCourse() *Course {
	c := &Course{ID: uuid.New(), Title: "Go from zero"}
	for w := 0; w < 2; w++ {
		week := &Week{ID: uuid.New(), Title: "week"}
		lessons := 2
		if w == 1 {
			lessons = 4
		}
		for l := 0; l < lessons; l++ {
			week.Lessons = append(week.Lessons, &Lesson{ID: uuid.New(), Kind: LessonVideo})
		}
		c.Weeks = append(c.Weeks, week)
	}
	return c
}

func TestRollup_WeightsWeeksByLessonCount(t *testing.T) {
	c := progressCourse()
	completed := map[uuid.UUID]bool{
		c.Weeks[0].Lessons[0].ID: true,
		c.Weeks[0].Lessons[1].ID: true,
		c.Weeks[1].Lessons[0].ID: true,
	}

	r := Rollup(c, completed)
	if r.TotalLessons != 6 || r.CompletedLessons != 3 {
		t.Fatalf("lesson counts: got %d/%d", r.CompletedLessons, r.TotalLessons)
	}
	// 3 of 6 lessons, not the 62.5 an unweighted week average would give.
	if r.Percentage != 50 {
		t.Fatalf("course percentage: want 50, got %v", r.Percentage)
	}
	if r.Weeks[0].Percentage != 100 || r.Weeks[1].Percentage != 25 {
		t.Fatalf("week percentages: got %v and %v", r.Weeks[0].Percentage, r.Weeks[1].Percentage)
	}
}

func TestRollup_EmptyAndComplete(t *testing.T) {
	c := progressCourse()

	r := Rollup(c, nil)
	if r.Percentage != 0 || r.Complete() {
		t.Fatalf("untouched course: pct=%v complete=%v", r.Percentage, r.Complete())
	}

	all := map[uuid.UUID]bool{}
	for _, w := range c.Weeks {
		for _, l := range w.Lessons {
			all[l.ID] = true
		}
	}
	r = Rollup(c, all)
	if r.Percentage != 100 || !r.Complete() {
		t.Fatalf("finished course: pct=%v complete=%v", r.Percentage, r.Complete())
	}

	// A course with no lessons never reads as complete.
	empty := Rollup(&Course{Weeks: []*Week{{ID: uuid.New()}}}, nil)
	if empty.Complete() {
		t.Fatal("empty course reported complete")
	}
}

func TestEnrollmentStatusFor(t *testing.T) {
	cases := []struct {
		completed int
		total     int
		want      EnrollmentStatus
	}{
		{0, 4, EnrollmentNotStarted},
		{1, 4, EnrollmentInProgress},
		{3, 4, EnrollmentInProgress},
		{4, 4, EnrollmentCompleted},
		{0, 0, EnrollmentNotStarted},
	}
	for _, tc := range cases {
		r := CourseRollup{CompletedLessons: tc.completed, TotalLessons: tc.total}
		if got := EnrollmentStatusFor(r); got != tc.want {
			t.Fatalf("%d/%d: want %s, got %s", tc.completed, tc.total, tc.want, got)
		}
	}
}

func TestRollup_RoundsDisplayPercentage(t *testing.T) {
	c := &Course{Weeks: []*Week{{ID: uuid.New()}}}
	for i := 0; i < 3; i++ {
		c.Weeks[0].Lessons = append(c.Weeks[0].Lessons, &Lesson{ID: uuid.New(), Kind: LessonPDF})
	}
	r := Rollup(c, map[uuid.UUID]bool{c.Weeks[0].Lessons[0].ID: true})
	if r.Percentage != 33.33 {
		t.Fatalf("want 33.33, got %v", r.Percentage)
	}
}
