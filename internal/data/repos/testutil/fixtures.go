package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/domain"
)

// SeedCourse inserts a draft course with one week so content tests can hang
// lessons off it.
func SeedCourse(tb testing.TB, tx *gorm.DB) *domain.Course {
	tb.Helper()

	course := &domain.Course{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Title:    "Seed course",
		Status:   domain.CourseDraft,
	}
	if err := tx.Create(course).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}

	week := &domain.Week{
		ID:       uuid.New(),
		CourseID: course.ID,
		Index:    0,
		Title:    "Seed week",
	}
	if err := tx.Create(week).Error; err != nil {
		tb.Fatalf("seed week: %v", err)
	}
	course.Weeks = []*domain.Week{week}
	return course
}

// SeedAssessmentLesson inserts an assessment lesson under the week with one
// multiple choice question (2 marks, first option correct).
func SeedAssessmentLesson(tb testing.TB, tx *gorm.DB, week *domain.Week) *domain.Lesson {
	tb.Helper()

	lesson := &domain.Lesson{
		ID:     uuid.New(),
		WeekID: week.ID,
		Index:  0,
		Title:  "Seed quiz lesson",
		Kind:   domain.LessonAssessment,
	}
	if err := tx.Create(lesson).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}

	assessment := &domain.Assessment{
		ID:           uuid.New(),
		LessonID:     lesson.ID,
		Kind:         domain.AssessmentQuiz,
		MaxAttempts:  3,
		PassingScore: 50,
	}
	if err := tx.Create(assessment).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}

	question := &domain.Question{
		ID:           uuid.New(),
		AssessmentID: assessment.ID,
		Index:        0,
		Kind:         domain.QuestionMultipleChoice,
		Prompt:       "Seed prompt",
		Marks:        2,
	}
	if err := tx.Create(question).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	for i := 0; i < 3; i++ {
		option := &domain.AnswerOption{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Index:      i,
			Text:       "Seed option",
			IsCorrect:  i == 0,
		}
		if err := tx.Create(option).Error; err != nil {
			tb.Fatalf("seed option: %v", err)
		}
		question.Options = append(question.Options, option)
	}

	assessment.Questions = []*domain.Question{question}
	lesson.Assessment = assessment
	return lesson
}
