package app

import (
	"gorm.io/gorm"

	"github.com/brightclass/brightclass-backend/internal/data/repos"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
)

type Repos struct {
	Course         repos.CourseRepo
	Week           repos.WeekRepo
	Lesson         repos.LessonRepo
	Asset          repos.AssetRepo
	Assessment     repos.AssessmentRepo
	Question       repos.QuestionRepo
	AnswerOption   repos.AnswerOptionRepo
	Submission     repos.SubmissionRepo
	Enrollment     repos.EnrollmentRepo
	LessonProgress repos.LessonProgressRepo
	CourseProgress repos.CourseProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:         repos.NewCourseRepo(db, log),
		Week:           repos.NewWeekRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		Asset:          repos.NewAssetRepo(db, log),
		Assessment:     repos.NewAssessmentRepo(db, log),
		Question:       repos.NewQuestionRepo(db, log),
		AnswerOption:   repos.NewAnswerOptionRepo(db, log),
		Submission:     repos.NewSubmissionRepo(db, log),
		Enrollment:     repos.NewEnrollmentRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		CourseProgress: repos.NewCourseProgressRepo(db, log),
	}
}
