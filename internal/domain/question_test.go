package domain

import (
	"testing"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
)

func TestQuestionValidate(t *testing.T) {
	mcOptions := func(correct int) []*AnswerOption {
		opts := make([]*AnswerOption, 3)
		for i := range opts {
			opts[i] = &AnswerOption{Text: "o", IsCorrect: i < correct}
		}
		return opts
	}

	cases := []struct {
		name       string
		q          Question
		wantFields []string
	}{
		{
			name: "valid multiple choice",
			q:    Question{Kind: QuestionMultipleChoice, Marks: 2, Options: mcOptions(1)},
		},
		{
			name: "valid essay",
			q:    Question{Kind: QuestionEssay, Marks: 5},
		},
		{
			name:       "zero marks",
			q:          Question{Kind: QuestionEssay, Marks: 0},
			wantFields: []string{"marks"},
		},
		{
			name:       "objective without options",
			q:          Question{Kind: QuestionTrueFalse, Marks: 1},
			wantFields: []string{"options"},
		},
		{
			name:       "no correct option",
			q:          Question{Kind: QuestionMultipleChoice, Marks: 1, Options: mcOptions(0)},
			wantFields: []string{"options"},
		},
		{
			name:       "two correct options",
			q:          Question{Kind: QuestionMultipleChoice, Marks: 1, Options: mcOptions(2)},
			wantFields: []string{"options"},
		},
		{
			name:       "essay with options",
			q:          Question{Kind: QuestionEssay, Marks: 1, Options: mcOptions(1)},
			wantFields: []string{"options"},
		},
		{
			name:       "unknown kind and bad marks",
			q:          Question{Kind: "matching", Marks: -1},
			wantFields: []string{"kind", "marks"},
		},
	}

	for _, tc := range cases {
		err := tc.q.Validate()
		if len(tc.wantFields) == 0 {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if !apierr.Is(err, apierr.CodeValidation) {
			t.Fatalf("%s: want validation error, got %v", tc.name, err)
		}
		fields := apierr.FieldsOf(err)
		for _, want := range tc.wantFields {
			found := false
			for _, f := range fields {
				if f.Field == want {
					found = true
				}
			}
			if !found {
				t.Fatalf("%s: missing field %q in %+v", tc.name, want, fields)
			}
		}
	}
}
