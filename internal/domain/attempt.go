package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

// NewAttempt builds the submission for one attempt: it enforces the attempt
// limit against the count of prior submissions and freezes the question and
// option order into the snapshot. priorAttempts must be counted under the
// same lock that serializes concurrent starts.
func NewAttempt(a *Assessment, learnerID uuid.UUID, priorAttempts int, now time.Time) (*Submission, error) {
	if !a.UnlimitedAttempts() && priorAttempts >= a.MaxAttempts {
		return nil, apierr.AttemptLimit(fmt.Errorf("no attempts left: %d of %d used", priorAttempts, a.MaxAttempts))
	}

	sub := &Submission{
		ID:            uuid.New(),
		AssessmentID:  &a.ID,
		LearnerID:     learnerID,
		AttemptNumber: priorAttempts + 1,
		Status:        SubmissionInProgress,
		MaxScore:      a.TotalMarks(),
		StartedAt:     now,
	}

	if err := sub.SetSnapshot(buildSnapshot(a, sub.ID)); err != nil {
		return nil, err
	}
	if err := sub.SetAnswers(AnswerSet{}); err != nil {
		return nil, err
	}
	return sub, nil
}

func buildSnapshot(a *Assessment, attemptID uuid.UUID) AttemptSnapshot {
	questions := make([]*Question, len(a.Questions))
	copy(questions, a.Questions)
	sort.Slice(questions, func(i, j int) bool { return questions[i].Index < questions[j].Index })

	seed := shuffleSeed(attemptID)
	order := make([]int, len(questions))
	for i := range order {
		order[i] = i
	}
	if a.ShuffleQuestions {
		order = permuted(seed, len(questions))
	}

	snap := AttemptSnapshot{Questions: make([]QuestionSnapshot, 0, len(questions))}
	for _, idx := range order {
		q := questions[idx]
		qs := QuestionSnapshot{
			QuestionID: q.ID,
			Kind:       q.Kind,
			Marks:      q.Marks,
			Prompt:     q.Prompt,
		}
		if len(q.Options) > 0 {
			options := make([]*AnswerOption, len(q.Options))
			copy(options, q.Options)
			sort.Slice(options, func(i, j int) bool { return options[i].Index < options[j].Index })

			optOrder := make([]int, len(options))
			for i := range optOrder {
				optOrder[i] = i
			}
			if a.ShuffleOptions {
				optOrder = permuted(questionSeed(seed, q.ID), len(options))
			}
			for _, oi := range optOrder {
				qs.OptionIDs = append(qs.OptionIDs, options[oi].ID)
			}
			if correctID, ok := q.CorrectOptionID(); ok {
				qs.CorrectOptionID = &correctID
			}
		}
		snap.Questions = append(snap.Questions, qs)
	}
	return snap
}

// Expired reports whether the attempt deadline has passed.
func (s *Submission) Expired(a *Assessment, now time.Time) bool {
	deadline := s.Deadline(a)
	return deadline != nil && now.After(*deadline)
}

// ApplyAnswer records one response while the attempt is editable. A call
// after the deadline returns a time-expired error; the caller is expected to
// finalize the attempt with whatever answers exist (time up is an implicit
// submission, never data loss).
func (s *Submission) ApplyAnswer(a *Assessment, questionID uuid.UUID, value string, now time.Time) error {
	if s.Status != SubmissionInProgress {
		return apierr.InvalidState(fmt.Errorf("submission is %s, answers are frozen", s.Status))
	}
	if s.Expired(a, now) {
		return apierr.TimeExpired(fmt.Errorf("time limit reached"))
	}

	snap, err := s.DecodeSnapshot()
	if err != nil {
		return err
	}
	if _, ok := snap.Find(questionID); !ok {
		return apierr.NotFound("question")
	}

	answers, err := s.DecodeAnswers()
	if err != nil {
		return err
	}
	answers[questionID] = &Answer{Value: value, AnsweredAt: &now}
	return s.SetAnswers(answers)
}

// Finalize freezes the answers and grades objective questions against the
// frozen snapshot: full marks on an exact match with the correct option id,
// zero otherwise. Open questions keep a nil score, leaving the submission in
// submitted until manual grading completes; a purely objective assessment
// lands directly on graded.
//
// Past the deadline the finalize still happens with the answers recorded in
// time, but the call reports time-expired so the caller can surface the
// implicit submission to the learner.
func (s *Submission) Finalize(a *Assessment, now time.Time) error {
	if s.Status != SubmissionInProgress {
		return apierr.InvalidState(fmt.Errorf("submission is %s, cannot submit", s.Status))
	}
	expired := s.Expired(a, now)

	snap, err := s.DecodeSnapshot()
	if err != nil {
		return err
	}
	answers, err := s.DecodeAnswers()
	if err != nil {
		return err
	}

	allGraded := true
	for _, q := range snap.Questions {
		ans := answers[q.QuestionID]
		if !q.Kind.Objective() {
			if ans != nil {
				ans.PointsAwarded = nil
			}
			allGraded = false
			continue
		}
		points := 0.0
		if ans != nil && q.CorrectOptionID != nil && ans.Value == q.CorrectOptionID.String() {
			points = float64(q.Marks)
		}
		if ans == nil {
			ans = &Answer{}
			answers[q.QuestionID] = ans
		}
		ans.PointsAwarded = &points
	}

	s.Status = SubmissionSubmitted
	s.SubmittedAt = &now
	if allGraded {
		s.Status = SubmissionGraded
		s.GradedAt = &now
	}
	if err := s.SetAnswers(answers); err != nil {
		return err
	}
	if err := s.recomputeScore(a, answers); err != nil {
		return err
	}
	if expired {
		return apierr.TimeExpired(fmt.Errorf("time limit reached, attempt auto-submitted"))
	}
	return nil
}

// ApplyGrade records a manual score for one question. Points are clamped to
// [0, marks]; the aggregate score is recomputed after every call, and the
// submission advances to graded once no question is left unscored. Safe to
// retry.
func (s *Submission) ApplyGrade(a *Assessment, graderID, questionID uuid.UUID, points float64, feedback string, now time.Time) error {
	if s.Status != SubmissionSubmitted && s.Status != SubmissionGraded {
		return apierr.InvalidState(fmt.Errorf("submission is %s, cannot grade", s.Status))
	}

	snap, err := s.DecodeSnapshot()
	if err != nil {
		return err
	}
	q, ok := snap.Find(questionID)
	if !ok {
		return apierr.NotFound("question")
	}

	points = math.Max(0, math.Min(points, float64(q.Marks)))

	answers, err := s.DecodeAnswers()
	if err != nil {
		return err
	}
	ans := answers[questionID]
	if ans == nil {
		ans = &Answer{}
		answers[questionID] = ans
	}
	ans.PointsAwarded = &points
	ans.Feedback = feedback

	allGraded := true
	for _, sq := range snap.Questions {
		a2 := answers[sq.QuestionID]
		if a2 == nil || a2.PointsAwarded == nil {
			allGraded = false
			break
		}
	}
	if allGraded && s.Status == SubmissionSubmitted {
		s.Status = SubmissionGraded
		s.GradedAt = &now
	}
	s.GraderID = &graderID

	if err := s.SetAnswers(answers); err != nil {
		return err
	}
	return s.recomputeScore(a, answers)
}

// ApplyReview is the optional terminal annotation; it never alters scores.
func (s *Submission) ApplyReview(reviewerID uuid.UUID, note string, now time.Time) error {
	if s.Status != SubmissionGraded {
		return apierr.InvalidState(fmt.Errorf("submission is %s, cannot review", s.Status))
	}
	s.Status = SubmissionReviewed
	s.ReviewerID = &reviewerID
	s.ReviewNote = note
	return nil
}

// recomputeScore aggregates points (ungraded questions count as zero until
// graded). Pass/fail compares the unrounded percentage; the stored value is
// rounded to 2 decimal places for display.
func (s *Submission) recomputeScore(a *Assessment, answers AnswerSet) error {
	var score float64
	for _, ans := range answers {
		if ans != nil && ans.PointsAwarded != nil {
			score += *ans.PointsAwarded
		}
	}
	s.Score = score

	var pct float64
	if s.MaxScore > 0 {
		pct = score / float64(s.MaxScore) * 100
	}
	pct = math.Max(0, math.Min(pct, 100))
	s.Passed = pct >= float64(a.PassingScore)
	s.Percentage = math.Round(pct*100) / 100
	return nil
}
