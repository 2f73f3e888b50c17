package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentKind string

const (
	AssessmentQuiz     AssessmentKind = "quiz"
	AssessmentExam     AssessmentKind = "exam"
	AssessmentPractice AssessmentKind = "practice"
)

func (k AssessmentKind) Valid() bool {
	switch k {
	case AssessmentQuiz, AssessmentExam, AssessmentPractice:
		return true
	default:
		return false
	}
}

type ShowResults string

const (
	ShowResultsImmediately     ShowResults = "immediately"
	ShowResultsAfterSubmission ShowResults = "after_submission"
	ShowResultsAfterDueDate    ShowResults = "after_due_date"
	ShowResultsNever           ShowResults = "never"
)

// Proctoring restrictions are enforced by the presentation layer; the core
// only records them as configuration.
type Proctoring struct {
	AllowCopyPaste  bool `gorm:"column:allow_copy_paste;not null;default:false" json:"allow_copy_paste"`
	AllowRightClick bool `gorm:"column:allow_right_click;not null;default:false" json:"allow_right_click"`
	AllowPrint      bool `gorm:"column:allow_print;not null;default:false" json:"allow_print"`
	AllowDevTools   bool `gorm:"column:allow_dev_tools;not null;default:false" json:"allow_dev_tools"`
	TabSwitchLimit  *int `gorm:"column:tab_switch_limit" json:"tab_switch_limit,omitempty"`
}

type Assessment struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"lesson_id"`
	Lesson           *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Kind             AssessmentKind `gorm:"column:kind;not null;default:'quiz'" json:"kind"`
	TimeLimitMinutes *int           `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	MaxAttempts      int            `gorm:"column:max_attempts;not null;default:1" json:"max_attempts"` // 0 means unlimited
	PassingScore     int            `gorm:"column:passing_score;not null;default:0" json:"passing_score"`
	ShuffleQuestions bool           `gorm:"column:shuffle_questions;not null;default:false" json:"shuffle_questions"`
	ShuffleOptions   bool           `gorm:"column:shuffle_options;not null;default:false" json:"shuffle_options"`
	ShowResults      ShowResults    `gorm:"column:show_results;not null;default:'after_submission'" json:"show_results"`
	Proctoring       Proctoring     `gorm:"embedded;embeddedPrefix:proctor_" json:"proctoring"`
	Questions        []*Question    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"questions,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

// TotalMarks derives the maximum score from the loaded question set. It is
// never stored, so it cannot drift out of sync with question mutations.
func (a *Assessment) TotalMarks() int {
	var total int
	for _, q := range a.Questions {
		total += q.Marks
	}
	return total
}

func (a *Assessment) UnlimitedAttempts() bool { return a.MaxAttempts <= 0 }

// TimeLimit returns the attempt duration, or zero when the assessment is
// untimed.
func (a *Assessment) TimeLimit() time.Duration {
	if a.TimeLimitMinutes == nil || *a.TimeLimitMinutes <= 0 {
		return 0
	}
	return time.Duration(*a.TimeLimitMinutes) * time.Minute
}
