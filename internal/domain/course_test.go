package domain

import (
	"testing"
	"time"
)

func TestEstimatedDuration(t *testing.T) {
	c := &Course{
		Weeks: []*Week{
			{Lessons: []*Lesson{
				{DurationMinutes: 10},
				{DurationMinutes: 25},
			}},
			{Lessons: []*Lesson{
				{DurationMinutes: 5},
			}},
		},
	}

	if got := c.EstimatedDuration(); got != 40*time.Minute {
		t.Fatalf("estimated duration: want 40m, got %s", got)
	}
	if got := c.LessonCount(); got != 3 {
		t.Fatalf("lesson count: want 3, got %d", got)
	}

	empty := &Course{}
	if got := empty.EstimatedDuration(); got != 0 {
		t.Fatalf("empty course duration: want 0, got %s", got)
	}
}

func TestCourseStatusTransitions(t *testing.T) {
	cases := []struct {
		from CourseStatus
		to   CourseStatus
		want bool
	}{
		{CourseDraft, CoursePublished, true},
		{CoursePublished, CourseArchived, true},
		{CourseDraft, CourseArchived, false},
		{CoursePublished, CourseDraft, false},
		{CourseArchived, CoursePublished, false},
		{CourseArchived, CourseDraft, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestWeekLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	if (&Week{}).Locked(now) {
		t.Fatal("week without unlock date must be open")
	}
	if !(&Week{UnlockAt: &future}).Locked(now) {
		t.Fatal("future unlock date must lock the week")
	}
	if (&Week{UnlockAt: &past}).Locked(now) {
		t.Fatal("past unlock date must open the week")
	}
}
