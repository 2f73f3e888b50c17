package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionGraded     SubmissionStatus = "graded"
	SubmissionReviewed   SubmissionStatus = "reviewed"
)

// QuestionSnapshot freezes everything grading needs about one question at
// attempt start: display order of options, the correct option, marks and
// kind. Mid-attempt edits to the question bank cannot affect an open attempt.
type QuestionSnapshot struct {
	QuestionID      uuid.UUID    `json:"question_id"`
	Kind            QuestionKind `json:"kind"`
	Marks           int          `json:"marks"`
	Prompt          string       `json:"prompt"`
	OptionIDs       []uuid.UUID  `json:"option_ids,omitempty"`
	CorrectOptionID *uuid.UUID   `json:"correct_option_id,omitempty"`
}

// AttemptSnapshot is the full question order of one attempt.
type AttemptSnapshot struct {
	Questions []QuestionSnapshot `json:"questions"`
}

func (s AttemptSnapshot) Find(questionID uuid.UUID) (QuestionSnapshot, bool) {
	for _, q := range s.Questions {
		if q.QuestionID == questionID {
			return q, true
		}
	}
	return QuestionSnapshot{}, false
}

// Answer is one learner response. PointsAwarded stays nil for open question
// kinds until a grader scores them.
type Answer struct {
	Value         string     `json:"value"`
	PointsAwarded *float64   `json:"points_awarded,omitempty"`
	Feedback      string     `json:"feedback,omitempty"`
	AnsweredAt    *time.Time `json:"answered_at,omitempty"`
}

type AnswerSet map[uuid.UUID]*Answer

// Submission is the append-only record of one attempt. It is never deleted;
// force-deleting its assessment detaches it (AssessmentID cleared) so graded
// history survives.
type Submission struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID   *uuid.UUID       `gorm:"type:uuid;index:idx_submission_attempt,unique,priority:1" json:"assessment_id,omitempty"`
	LearnerID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_submission_attempt,unique,priority:2" json:"learner_id"`
	AttemptNumber  int              `gorm:"column:attempt_number;not null;index:idx_submission_attempt,unique,priority:3" json:"attempt_number"`
	IdempotencyKey string           `gorm:"column:idempotency_key;index" json:"idempotency_key,omitempty"`
	Status         SubmissionStatus `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	Snapshot       datatypes.JSON   `gorm:"column:snapshot;type:jsonb" json:"snapshot"`
	Answers        datatypes.JSON   `gorm:"column:answers;type:jsonb" json:"answers"`
	Score          float64          `gorm:"column:score;not null;default:0" json:"score"`
	MaxScore       int              `gorm:"column:max_score;not null;default:0" json:"max_score"`
	Percentage     float64          `gorm:"column:percentage;not null;default:0" json:"percentage"`
	Passed         bool             `gorm:"column:passed;not null;default:false" json:"passed"`
	StartedAt      time.Time        `gorm:"column:started_at;not null" json:"started_at"`
	SubmittedAt    *time.Time       `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	GradedAt       *time.Time       `gorm:"column:graded_at" json:"graded_at,omitempty"`
	GraderID       *uuid.UUID       `gorm:"type:uuid;column:grader_id" json:"grader_id,omitempty"`
	ReviewerID     *uuid.UUID       `gorm:"type:uuid;column:reviewer_id" json:"reviewer_id,omitempty"`
	ReviewNote     string           `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	CreatedAt      time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) DecodeSnapshot() (AttemptSnapshot, error) {
	var snap AttemptSnapshot
	if len(s.Snapshot) == 0 {
		return snap, nil
	}
	err := json.Unmarshal(s.Snapshot, &snap)
	return snap, err
}

func (s *Submission) SetSnapshot(snap AttemptSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.Snapshot = datatypes.JSON(raw)
	return nil
}

func (s *Submission) DecodeAnswers() (AnswerSet, error) {
	answers := AnswerSet{}
	if len(s.Answers) == 0 {
		return answers, nil
	}
	err := json.Unmarshal(s.Answers, &answers)
	return answers, err
}

func (s *Submission) SetAnswers(answers AnswerSet) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	s.Answers = datatypes.JSON(raw)
	return nil
}

// Deadline returns the hard cutoff of the attempt, or nil when untimed.
func (s *Submission) Deadline(a *Assessment) *time.Time {
	limit := a.TimeLimit()
	if limit == 0 {
		return nil
	}
	d := s.StartedAt.Add(limit)
	return &d
}
