package domain

import (
	"fmt"
	"strings"
)

// ValidationRule identifies one publication gate rule.
type ValidationRule string

const (
	RuleTitleRequired       ValidationRule = "course_title_required"
	RuleDescriptionRequired ValidationRule = "course_description_required"
	RuleHasWeeks            ValidationRule = "course_needs_week"
	RuleWeekHasLessons      ValidationRule = "week_needs_lesson"
	RuleLessonHasContent    ValidationRule = "lesson_needs_content"
	RuleThumbnailRequired   ValidationRule = "course_thumbnail_required"
	RuleCategoryRequired    ValidationRule = "course_category_required"
)

type RuleFailure struct {
	Rule   ValidationRule `json:"rule"`
	Detail string         `json:"detail"`
}

type PublishCheck struct {
	Eligible bool          `json:"eligible"`
	Failures []RuleFailure `json:"failures,omitempty"`
}

// ValidateForPublish decides whether a fully-loaded course may leave draft.
// Every rule is evaluated independently so the caller can present the full
// list of problems at once. The check is pure: no side effects, identical
// output for identical input.
func ValidateForPublish(c *Course) PublishCheck {
	var failures []RuleFailure

	if strings.TrimSpace(c.Title) == "" {
		failures = append(failures, RuleFailure{Rule: RuleTitleRequired, Detail: "course title is empty"})
	}
	if strings.TrimSpace(c.Description) == "" {
		failures = append(failures, RuleFailure{Rule: RuleDescriptionRequired, Detail: "course description is empty"})
	}
	if len(c.Weeks) == 0 {
		failures = append(failures, RuleFailure{Rule: RuleHasWeeks, Detail: "course has no weeks"})
	}
	for _, w := range c.Weeks {
		if len(w.Lessons) == 0 {
			failures = append(failures, RuleFailure{
				Rule:   RuleWeekHasLessons,
				Detail: fmt.Sprintf("week %q has no lessons", w.Title),
			})
		}
		for _, l := range w.Lessons {
			if !l.HasContent() {
				failures = append(failures, RuleFailure{
					Rule:   RuleLessonHasContent,
					Detail: fmt.Sprintf("lesson %q has no content", l.Title),
				})
			}
		}
	}
	if strings.TrimSpace(c.ThumbnailKey) == "" && strings.TrimSpace(c.ThumbnailURL) == "" {
		failures = append(failures, RuleFailure{Rule: RuleThumbnailRequired, Detail: "course has no thumbnail"})
	}
	if strings.TrimSpace(c.Category) == "" {
		failures = append(failures, RuleFailure{Rule: RuleCategoryRequired, Detail: "course has no category"})
	}

	return PublishCheck{Eligible: len(failures) == 0, Failures: failures}
}
