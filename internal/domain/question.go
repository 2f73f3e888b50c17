package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionTrueFalse      QuestionKind = "true_false"
	QuestionShortAnswer    QuestionKind = "short_answer"
	QuestionEssay          QuestionKind = "essay"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer, QuestionEssay:
		return true
	default:
		return false
	}
}

// Objective kinds are auto-graded on submit; the rest wait for a human
// grader.
func (k QuestionKind) Objective() bool {
	return k == QuestionMultipleChoice || k == QuestionTrueFalse
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Question struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	Index        int             `gorm:"column:index;not null" json:"index"`
	Kind         QuestionKind    `gorm:"column:kind;not null" json:"kind"`
	Difficulty   Difficulty      `gorm:"column:difficulty;not null;default:'medium'" json:"difficulty"`
	Prompt       string          `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Marks        int             `gorm:"column:marks;not null" json:"marks"`
	Options      []*AnswerOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"options,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

// Validate checks the question/option shape invariants: positive marks,
// objective kinds carry options with exactly one correct, open kinds carry
// none.
func (q *Question) Validate() error {
	var fields []apierr.FieldError
	if !q.Kind.Valid() {
		fields = append(fields, apierr.FieldError{Field: "kind", Rule: "unknown question kind"})
	}
	if q.Marks <= 0 {
		fields = append(fields, apierr.FieldError{Field: "marks", Rule: "marks must be greater than zero"})
	}
	if q.Kind.Objective() {
		if len(q.Options) == 0 {
			fields = append(fields, apierr.FieldError{Field: "options", Rule: "objective questions need at least one option"})
		}
		var correct int
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if len(q.Options) > 0 && correct != 1 {
			fields = append(fields, apierr.FieldError{Field: "options", Rule: "exactly one option must be marked correct"})
		}
	} else if len(q.Options) > 0 {
		fields = append(fields, apierr.FieldError{Field: "options", Rule: "open questions cannot carry answer options"})
	}
	if len(fields) > 0 {
		return apierr.Validation(fmt.Errorf("invalid question"), fields...)
	}
	return nil
}

// CorrectOptionID returns the single correct option for objective questions.
func (q *Question) CorrectOptionID() (uuid.UUID, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID, true
		}
	}
	return uuid.Nil, false
}

type AnswerOption struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	Index      int            `gorm:"column:index;not null" json:"index"`
	Text       string         `gorm:"column:text;not null" json:"text"`
	IsCorrect  bool           `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AnswerOption) TableName() string { return "answer_option" }
