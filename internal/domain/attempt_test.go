package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

// mixedQuiz has two auto-gradable questions (2 marks each) and one essay
// (6 marks), so maxScore is 10.
func mixedQuiz() *Assessment {
	a := &Assessment{
		ID:           uuid.New(),
		Kind:         AssessmentQuiz,
		MaxAttempts:  2,
		PassingScore: 50,
	}
	for i := 0; i < 2; i++ {
		q := &Question{
			ID:           uuid.New(),
			AssessmentID: a.ID,
			Index:        i,
			Kind:         QuestionMultipleChoice,
			Prompt:       "pick one",
			Marks:        2,
		}
		for j := 0; j < 3; j++ {
			q.Options = append(q.Options, &AnswerOption{
				ID:         uuid.New(),
				QuestionID: q.ID,
				Index:      j,
				Text:       "option",
				IsCorrect:  j == 0,
			})
		}
		a.Questions = append(a.Questions, q)
	}
	a.Questions = append(a.Questions, &Question{
		ID:           uuid.New(),
		AssessmentID: a.ID,
		Index:        2,
		Kind:         QuestionEssay,
		Prompt:       "explain",
		Marks:        6,
	})
	return a
}

func startAttempt(t *testing.T, a *Assessment) *Submission {
	t.Helper()
	sub, err := NewAttempt(a, uuid.New(), 0, time.Now())
	if err != nil {
		t.Fatalf("NewAttempt: %v", err)
	}
	return sub
}

func TestNewAttempt_EnforcesAttemptLimit(t *testing.T) {
	a := mixedQuiz()

	if _, err := NewAttempt(a, uuid.New(), 1, time.Now()); err != nil {
		t.Fatalf("attempt below limit rejected: %v", err)
	}
	_, err := NewAttempt(a, uuid.New(), 2, time.Now())
	if !apierr.Is(err, apierr.CodeAttemptLimit) {
		t.Fatalf("want attempt limit error, got %v", err)
	}

	a.MaxAttempts = 0
	if _, err := NewAttempt(a, uuid.New(), 500, time.Now()); err != nil {
		t.Fatalf("unlimited attempts rejected: %v", err)
	}
}

func TestNewAttempt_SnapshotFreezesGradingData(t *testing.T) {
	a := mixedQuiz()
	sub := startAttempt(t, a)

	if sub.MaxScore != 10 {
		t.Fatalf("maxScore: want 10, got %d", sub.MaxScore)
	}
	if sub.AttemptNumber != 1 {
		t.Fatalf("attemptNumber: want 1, got %d", sub.AttemptNumber)
	}
	if sub.Status != SubmissionInProgress {
		t.Fatalf("status: want %s, got %s", SubmissionInProgress, sub.Status)
	}

	snap, err := sub.DecodeSnapshot()
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Questions) != 3 {
		t.Fatalf("snapshot questions: want 3, got %d", len(snap.Questions))
	}
	for _, q := range a.Questions {
		sq, ok := snap.Find(q.ID)
		if !ok {
			t.Fatalf("question %s missing from snapshot", q.ID)
		}
		if sq.Marks != q.Marks || sq.Kind != q.Kind {
			t.Fatalf("snapshot drifted from question: %+v vs %+v", sq, q)
		}
		if q.Kind.Objective() {
			want, _ := q.CorrectOptionID()
			if sq.CorrectOptionID == nil || *sq.CorrectOptionID != want {
				t.Fatalf("correct option not frozen for %s", q.ID)
			}
			if len(sq.OptionIDs) != len(q.Options) {
				t.Fatalf("option ids not frozen: want %d, got %d", len(q.Options), len(sq.OptionIDs))
			}
		}
	}
}

func TestBuildSnapshot_ShuffleIsStablePerAttempt(t *testing.T) {
	a := mixedQuiz()
	a.ShuffleQuestions = true
	a.ShuffleOptions = true
	for i := 0; i < 7; i++ {
		a.Questions = append(a.Questions, &Question{
			ID: uuid.New(), Index: 3 + i, Kind: QuestionShortAnswer, Prompt: "short", Marks: 1,
		})
	}

	attemptID := uuid.New()
	first := buildSnapshot(a, attemptID)
	for i := 0; i < 5; i++ {
		again := buildSnapshot(a, attemptID)
		if len(again.Questions) != len(first.Questions) {
			t.Fatalf("snapshot size changed between builds")
		}
		for j := range again.Questions {
			if again.Questions[j].QuestionID != first.Questions[j].QuestionID {
				t.Fatalf("question order changed for the same attempt id")
			}
			for k := range again.Questions[j].OptionIDs {
				if again.Questions[j].OptionIDs[k] != first.Questions[j].OptionIDs[k] {
					t.Fatalf("option order changed for the same attempt id")
				}
			}
		}
	}

	// Across many attempts at least one ordering must differ from the
	// authored order.
	authored := buildSnapshot(&Assessment{ID: a.ID, Questions: a.Questions}, attemptID)
	varied := false
	for i := 0; i < 20 && !varied; i++ {
		snap := buildSnapshot(a, uuid.New())
		for j := range snap.Questions {
			if snap.Questions[j].QuestionID != authored.Questions[j].QuestionID {
				varied = true
				break
			}
		}
	}
	if !varied {
		t.Fatal("shuffle never produced a non-authored order across 20 attempts")
	}
}

func TestApplyAnswer(t *testing.T) {
	a := mixedQuiz()
	sub := startAttempt(t, a)
	now := time.Now()
	mc := a.Questions[0]
	correct, _ := mc.CorrectOptionID()

	if err := sub.ApplyAnswer(a, mc.ID, correct.String(), now); err != nil {
		t.Fatalf("ApplyAnswer: %v", err)
	}
	answers, err := sub.DecodeAnswers()
	if err != nil {
		t.Fatalf("decode answers: %v", err)
	}
	if got := answers[mc.ID]; got == nil || got.Value != correct.String() {
		t.Fatalf("answer not recorded: %+v", got)
	}

	err = sub.ApplyAnswer(a, uuid.New(), "x", now)
	if !apierr.Is(err, apierr.CodeNotFound) {
		t.Fatalf("unknown question: want not found, got %v", err)
	}
}

func TestApplyAnswer_AfterDeadline(t *testing.T) {
	a := mixedQuiz()
	limit := 30
	a.TimeLimitMinutes = &limit
	sub := startAttempt(t, a)

	late := sub.StartedAt.Add(31 * time.Minute)
	err := sub.ApplyAnswer(a, a.Questions[0].ID, "x", late)
	if !apierr.Is(err, apierr.CodeTimeExpired) {
		t.Fatalf("want time expired, got %v", err)
	}

	// The expired attempt finalizes with whatever was recorded in time,
	// and the finalize itself reports the expiry.
	if err := sub.Finalize(a, late); !apierr.Is(err, apierr.CodeTimeExpired) {
		t.Fatalf("finalize after expiry: want time expired, got %v", err)
	}
	if sub.Status != SubmissionSubmitted {
		t.Fatalf("status after expiry finalize: %s", sub.Status)
	}
}

func TestFinalize_AfterDeadline(t *testing.T) {
	a := mixedQuiz()
	limit := 1
	a.TimeLimitMinutes = &limit
	sub := startAttempt(t, a)

	correct, _ := a.Questions[0].CorrectOptionID()
	if err := sub.ApplyAnswer(a, a.Questions[0].ID, correct.String(), sub.StartedAt); err != nil {
		t.Fatalf("answer in time: %v", err)
	}

	// A late submit is never a plain success: the answers recorded before
	// expiry are committed, the caller learns the deadline passed.
	late := sub.StartedAt.Add(2 * time.Minute)
	err := sub.Finalize(a, late)
	if !apierr.Is(err, apierr.CodeTimeExpired) {
		t.Fatalf("late submit: want time expired, got %v", err)
	}
	if sub.Status != SubmissionSubmitted {
		t.Fatalf("late submit must still auto-submit, got %s", sub.Status)
	}
	if sub.Score != 2 {
		t.Fatalf("pre-expiry answer must be graded: want score 2, got %v", sub.Score)
	}

	if err := sub.Finalize(a, late); !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("second finalize: want invalid state, got %v", err)
	}
}

func TestFinalize_AutoGradesObjectiveQuestions(t *testing.T) {
	a := mixedQuiz()
	sub := startAttempt(t, a)
	now := time.Now()

	correct0, _ := a.Questions[0].CorrectOptionID()
	wrong1 := a.Questions[1].Options[1].ID
	if err := sub.ApplyAnswer(a, a.Questions[0].ID, correct0.String(), now); err != nil {
		t.Fatalf("answer q0: %v", err)
	}
	if err := sub.ApplyAnswer(a, a.Questions[1].ID, wrong1.String(), now); err != nil {
		t.Fatalf("answer q1: %v", err)
	}
	if err := sub.ApplyAnswer(a, a.Questions[2].ID, "normalization reduces redundancy", now); err != nil {
		t.Fatalf("answer essay: %v", err)
	}

	if err := sub.Finalize(a, now); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if sub.Status != SubmissionSubmitted {
		t.Fatalf("mixed assessment must stay submitted, got %s", sub.Status)
	}
	if sub.Score != 2 {
		t.Fatalf("score: want 2 (one correct objective), got %v", sub.Score)
	}

	answers, _ := sub.DecodeAnswers()
	if pts := answers[a.Questions[1].ID].PointsAwarded; pts == nil || *pts != 0 {
		t.Fatalf("wrong objective answer must score zero, got %v", pts)
	}
	if answers[a.Questions[2].ID].PointsAwarded != nil {
		t.Fatal("essay must stay ungraded after submit")
	}

	if err := sub.Finalize(a, now); !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("double submit: want invalid state, got %v", err)
	}
}

func TestFinalize_AllObjectiveLandsGraded(t *testing.T) {
	a := mixedQuiz()
	a.Questions = a.Questions[:2] // drop the essay
	sub := startAttempt(t, a)
	now := time.Now()

	for _, q := range a.Questions {
		correct, _ := q.CorrectOptionID()
		if err := sub.ApplyAnswer(a, q.ID, correct.String(), now); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if err := sub.Finalize(a, now); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if sub.Status != SubmissionGraded {
		t.Fatalf("fully objective assessment must land graded, got %s", sub.Status)
	}
	if sub.GradedAt == nil {
		t.Fatal("gradedAt not set")
	}
	if sub.Score != 4 || sub.Percentage != 100 || !sub.Passed {
		t.Fatalf("aggregates wrong: score=%v pct=%v passed=%v", sub.Score, sub.Percentage, sub.Passed)
	}
}

func TestApplyGrade_ClampsAndAdvances(t *testing.T) {
	a := mixedQuiz()
	sub := startAttempt(t, a)
	now := time.Now()
	essay := a.Questions[2]

	correct0, _ := a.Questions[0].CorrectOptionID()
	if err := sub.ApplyAnswer(a, a.Questions[0].ID, correct0.String(), now); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := sub.ApplyAnswer(a, essay.ID, "an essay", now); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := sub.Finalize(a, now); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	graderID := uuid.New()
	cases := []struct {
		name   string
		points float64
		want   float64
	}{
		{"above marks clamps down", 50, 6},
		{"negative clamps to zero", -3, 0},
		{"in range kept", 4.5, 4.5},
	}
	for _, tc := range cases {
		if err := sub.ApplyGrade(a, graderID, essay.ID, tc.points, "see rubric", now); err != nil {
			t.Fatalf("%s: ApplyGrade: %v", tc.name, err)
		}
		answers, _ := sub.DecodeAnswers()
		if got := *answers[essay.ID].PointsAwarded; got != tc.want {
			t.Fatalf("%s: want %v points, got %v", tc.name, tc.want, got)
		}
	}

	// Every question now has points, so the submission advanced.
	if sub.Status != SubmissionGraded {
		t.Fatalf("want graded after last ungraded question scored, got %s", sub.Status)
	}
	if sub.Score != 6.5 {
		t.Fatalf("score: want 6.5, got %v", sub.Score)
	}
	if sub.Percentage != 65 || !sub.Passed {
		t.Fatalf("pct=%v passed=%v, want 65/true", sub.Percentage, sub.Passed)
	}
	if sub.GraderID == nil || *sub.GraderID != graderID {
		t.Fatal("grader id not recorded")
	}

	// Regrading a graded submission stays legal and recomputes.
	if err := sub.ApplyGrade(a, graderID, essay.ID, 1, "", now); err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if sub.Score != 3 || sub.Passed {
		t.Fatalf("regrade aggregates wrong: score=%v passed=%v", sub.Score, sub.Passed)
	}
}

func TestApplyGrade_RejectsWrongStates(t *testing.T) {
	a := mixedQuiz()
	sub := startAttempt(t, a)
	err := sub.ApplyGrade(a, uuid.New(), a.Questions[2].ID, 1, "", time.Now())
	if !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("grading in_progress: want invalid state, got %v", err)
	}
}

func TestPassFail_ComparesUnroundedPercentage(t *testing.T) {
	now := time.Now()
	essayOnly := func(passing int) (*Assessment, *Submission) {
		a := &Assessment{
			ID:           uuid.New(),
			Kind:         AssessmentExam,
			MaxAttempts:  1,
			PassingScore: passing,
			Questions: []*Question{
				{ID: uuid.New(), Index: 0, Kind: QuestionEssay, Prompt: "p", Marks: 3},
			},
		}
		sub, err := NewAttempt(a, uuid.New(), 0, now)
		if err != nil {
			t.Fatalf("NewAttempt: %v", err)
		}
		if err := sub.ApplyAnswer(a, a.Questions[0].ID, "text", now); err != nil {
			t.Fatalf("answer: %v", err)
		}
		if err := sub.Finalize(a, now); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		return a, sub
	}

	// 2/3 is 66.666...%, displayed as 66.67. Pass/fail must use the
	// unrounded value, so a threshold of 67 fails even though the display
	// rounds up toward it.
	a, sub := essayOnly(67)
	if err := sub.ApplyGrade(a, uuid.New(), a.Questions[0].ID, 2, "", now); err != nil {
		t.Fatalf("grade: %v", err)
	}
	if sub.Percentage != 66.67 {
		t.Fatalf("display percentage: want 66.67, got %v", sub.Percentage)
	}
	if sub.Passed {
		t.Fatal("66.666...%% must not pass a threshold of 67")
	}

	a, sub = essayOnly(66)
	if err := sub.ApplyGrade(a, uuid.New(), a.Questions[0].ID, 2, "", now); err != nil {
		t.Fatalf("grade: %v", err)
	}
	if !sub.Passed {
		t.Fatal("66.666...%% must pass a threshold of 66")
	}

	// The threshold itself is inclusive.
	a, sub = essayOnly(100)
	if err := sub.ApplyGrade(a, uuid.New(), a.Questions[0].ID, 3, "", now); err != nil {
		t.Fatalf("grade: %v", err)
	}
	if !sub.Passed {
		t.Fatal("exactly 100%% must pass a threshold of 100")
	}
}

func TestApplyReview(t *testing.T) {
	a := mixedQuiz()
	a.Questions = a.Questions[:2]
	sub := startAttempt(t, a)
	now := time.Now()
	for _, q := range a.Questions {
		correct, _ := q.CorrectOptionID()
		if err := sub.ApplyAnswer(a, q.ID, correct.String(), now); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if err := sub.Finalize(a, now); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	reviewer := uuid.New()
	scoreBefore := sub.Score
	if err := sub.ApplyReview(reviewer, "spot checked", now); err != nil {
		t.Fatalf("ApplyReview: %v", err)
	}
	if sub.Status != SubmissionReviewed {
		t.Fatalf("status: want reviewed, got %s", sub.Status)
	}
	if sub.Score != scoreBefore {
		t.Fatal("review must not alter the score")
	}
	if sub.ReviewerID == nil || *sub.ReviewerID != reviewer || sub.ReviewNote != "spot checked" {
		t.Fatal("review annotation not recorded")
	}

	if err := sub.ApplyReview(reviewer, "again", now); !apierr.Is(err, apierr.CodeInvalidState) {
		t.Fatalf("double review: want invalid state, got %v", err)
	}
}
