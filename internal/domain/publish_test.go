package domain

import (
	"testing"

	"github.com/google/uuid"
)

func publishableCourse() *Course {
	return &Course{
		ID:           uuid.New(),
		Title:        "Intro to Databases",
		Description:  "Relational modeling from scratch.",
		Category:     "engineering",
		ThumbnailKey: "courses/dbs/thumb.png",
		Status:       CourseDraft,
		Weeks: []*Week{
			{
				ID:    uuid.New(),
				Title: "Week 1",
				Lessons: []*Lesson{
					{ID: uuid.New(), Title: "Tables", Kind: LessonVideo, Assets: []*Asset{{ID: uuid.New(), Kind: AssetVideo, StorageKey: "a"}}},
					{ID: uuid.New(), Title: "Quiz", Kind: LessonAssessment, Assessment: &Assessment{
						ID:        uuid.New(),
						Kind:      AssessmentQuiz,
						Questions: []*Question{{ID: uuid.New(), Kind: QuestionEssay, Marks: 5, Prompt: "Explain normalization."}},
					}},
				},
			},
		},
	}
}

func TestValidateForPublish_EligibleCourse(t *testing.T) {
	check := ValidateForPublish(publishableCourse())
	if !check.Eligible {
		t.Fatalf("expected eligible, got failures: %+v", check.Failures)
	}
	if len(check.Failures) != 0 {
		t.Fatalf("eligible course must carry no failures, got %d", len(check.Failures))
	}
}

func TestValidateForPublish_CollectsAllFailures(t *testing.T) {
	c := &Course{
		Title: "  ",
		Weeks: []*Week{
			{Title: "Empty week"},
			{Title: "Hollow week", Lessons: []*Lesson{
				{Title: "No video yet", Kind: LessonVideo},
				{Title: "No questions yet", Kind: LessonAssessment, Assessment: &Assessment{Kind: AssessmentQuiz}},
			}},
		},
	}

	check := ValidateForPublish(c)
	if check.Eligible {
		t.Fatal("expected ineligible course")
	}

	counts := map[ValidationRule]int{}
	for _, f := range check.Failures {
		counts[f.Rule]++
	}
	want := map[ValidationRule]int{
		RuleTitleRequired:       1,
		RuleDescriptionRequired: 1,
		RuleWeekHasLessons:      1,
		RuleLessonHasContent:    2,
		RuleThumbnailRequired:   1,
		RuleCategoryRequired:    1,
	}
	for rule, n := range want {
		if counts[rule] != n {
			t.Fatalf("rule %s: want %d failures, got %d (all: %+v)", rule, n, counts[rule], check.Failures)
		}
	}
	if counts[RuleHasWeeks] != 0 {
		t.Fatalf("course with weeks must not fail %s", RuleHasWeeks)
	}
}

func TestValidateForPublish_EmptyCourse(t *testing.T) {
	check := ValidateForPublish(&Course{})
	if check.Eligible {
		t.Fatal("empty course cannot be eligible")
	}
	found := false
	for _, f := range check.Failures {
		if f.Rule == RuleHasWeeks {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s failure, got %+v", RuleHasWeeks, check.Failures)
	}
}

func TestValidateForPublish_Deterministic(t *testing.T) {
	c := &Course{Title: "x", Weeks: []*Week{{Title: "w"}}}
	first := ValidateForPublish(c)
	for i := 0; i < 5; i++ {
		again := ValidateForPublish(c)
		if len(again.Failures) != len(first.Failures) || again.Eligible != first.Eligible {
			t.Fatalf("validator output changed between identical calls: %+v vs %+v", first, again)
		}
		for j := range again.Failures {
			if again.Failures[j] != first.Failures[j] {
				t.Fatalf("failure order changed: %+v vs %+v", first.Failures, again.Failures)
			}
		}
	}
}
