package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/brightclass/brightclass-backend/internal/clients/redis"
	"github.com/brightclass/brightclass-backend/internal/data/repos"
	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/requestdata"
)

type ReorderScope string

const (
	ReorderWeeks     ReorderScope = "weeks"
	ReorderLessons   ReorderScope = "lessons"
	ReorderQuestions ReorderScope = "questions"
	ReorderOptions   ReorderScope = "options"
)

type DeleteScope string

const (
	DeleteCourse DeleteScope = "course"
	DeleteWeek   DeleteScope = "week"
	DeleteLesson DeleteScope = "lesson"
)

type CreateCourseInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Settings    domain.CourseSettings `json:"settings"`
}

type QuestionInput struct {
	Kind       domain.QuestionKind `json:"kind"`
	Difficulty domain.Difficulty   `json:"difficulty"`
	Prompt     string              `json:"prompt"`
	Marks      int                 `json:"marks"`
	Options    []OptionInput       `json:"options"`
}

type OptionInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type AssetUpload struct {
	Name        string
	Kind        domain.AssetKind
	ContentType string
	Body        io.Reader
}

type ContentService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, input CreateCourseInput) (*domain.Course, error)
	AddWeek(ctx context.Context, courseID uuid.UUID, title, description string) (*domain.Week, error)
	AddLesson(ctx context.Context, weekID uuid.UUID, title string, kind domain.LessonKind) (*domain.Lesson, error)
	AttachAsset(ctx context.Context, lessonID uuid.UUID, upload AssetUpload) (*domain.Asset, error)
	ConfigureAssessment(ctx context.Context, lessonID uuid.UUID, cfg domain.Assessment) (*domain.Assessment, error)
	AddQuestion(ctx context.Context, assessmentID uuid.UUID, input QuestionInput) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, questionID uuid.UUID, input QuestionInput) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, questionID uuid.UUID) error
	ReorderSiblings(ctx context.Context, parentID uuid.UUID, scope ReorderScope, movedID uuid.UUID, newIndex int) error
	DeleteEntity(ctx context.Context, id uuid.UUID, scope DeleteScope, force bool) error
	ValidateForPublish(ctx context.Context, courseID uuid.UUID) (domain.PublishCheck, error)
	Publish(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	Archive(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
}

type contentService struct {
	db             *gorm.DB
	log            *logger.Logger
	store          ObjectStore
	cache          redisclient.ProgressCache
	courseRepo     repos.CourseRepo
	weekRepo       repos.WeekRepo
	lessonRepo     repos.LessonRepo
	assetRepo      repos.AssetRepo
	assessmentRepo repos.AssessmentRepo
	questionRepo   repos.QuestionRepo
	optionRepo     repos.AnswerOptionRepo
	submissionRepo repos.SubmissionRepo
}

func NewContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	store ObjectStore,
	cache redisclient.ProgressCache,
	courseRepo repos.CourseRepo,
	weekRepo repos.WeekRepo,
	lessonRepo repos.LessonRepo,
	assetRepo repos.AssetRepo,
	assessmentRepo repos.AssessmentRepo,
	questionRepo repos.QuestionRepo,
	optionRepo repos.AnswerOptionRepo,
	submissionRepo repos.SubmissionRepo,
) ContentService {
	serviceLog := baseLog.With("service", "ContentService")
	return &contentService{
		db:             db,
		log:            serviceLog,
		store:          store,
		cache:          cache,
		courseRepo:     courseRepo,
		weekRepo:       weekRepo,
		lessonRepo:     lessonRepo,
		assetRepo:      assetRepo,
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		optionRepo:     optionRepo,
		submissionRepo: submissionRepo,
	}
}

// invalidateProgress drops cached rollups after a mutation that changes the
// course's lesson set. Best effort: a failed drop only shortens to the TTL.
func (s *contentService) invalidateProgress(ctx context.Context, courseID uuid.UUID) {
	if s.cache == nil || courseID == uuid.Nil {
		return
	}
	if err := s.cache.InvalidateCourse(ctx, courseID); err != nil {
		s.log.Warn("progress cache invalidation failed", "course_id", courseID, "error", err)
	}
}

func (s *contentService) author(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Forbidden(fmt.Errorf("request data not set in context"))
	}
	if !rd.CanAuthor() {
		return nil, apierr.Forbidden(fmt.Errorf("role %s cannot author content", rd.Role))
	}
	return rd, nil
}

func (s *contentService) CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	rd, err := s.author(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("course title required"),
			apierr.FieldError{Field: "title", Rule: "must not be empty"})
	}

	course := &domain.Course{
		ID:          uuid.New(),
		AuthorID:    rd.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.CourseDraft,
		Settings:    input.Settings,
	}
	if _, err := s.courseRepo.Create(ctx, nil, course); err != nil {
		s.log.Error("create course failed", "error", err)
		return nil, apierr.Internal(fmt.Errorf("create course: %w", err))
	}
	s.log.Info("course created", "course_id", course.ID, "author_id", rd.UserID)
	return course, nil
}

func (s *contentService) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	course, err := s.courseRepo.GetAggregate(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("course")
		}
		return nil, apierr.Internal(fmt.Errorf("load course: %w", err))
	}
	return course, nil
}

func (s *contentService) UpdateCourse(ctx context.Context, courseID uuid.UUID, input CreateCourseInput) (*domain.Course, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation(fmt.Errorf("course title required"),
			apierr.FieldError{Field: "title", Rule: "must not be empty"})
	}

	var course *domain.Course
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("course")
			}
			return err
		}

		// Editing never changes the lifecycle status.
		course.Title = strings.TrimSpace(input.Title)
		course.Description = input.Description
		course.Category = input.Category
		course.Settings = input.Settings
		return s.courseRepo.Update(ctx, tx, course)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "update course")
	}
	return course, nil
}

func (s *contentService) AddWeek(ctx context.Context, courseID uuid.UUID, title, description string) (*domain.Week, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, apierr.Validation(fmt.Errorf("week title required"),
			apierr.FieldError{Field: "title", Rule: "must not be empty"})
	}

	var week *domain.Week
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.GetByID(ctx, tx, courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("course")
			}
			return err
		}

		index, err := s.weekRepo.NextIndex(ctx, tx, courseID)
		if err != nil {
			return err
		}
		week = &domain.Week{
			ID:          uuid.New(),
			CourseID:    courseID,
			Index:       index,
			Title:       strings.TrimSpace(title),
			Description: description,
		}
		_, err = s.weekRepo.Create(ctx, tx, week)
		return err
	})
	if err != nil {
		return nil, wrapServiceErr(err, "add week")
	}
	return week, nil
}

// AddLesson creates the lesson and, for assessment lessons, its empty
// assessment shell in the same transaction. An assessment lesson without its
// config row never exists.
func (s *contentService) AddLesson(ctx context.Context, weekID uuid.UUID, title string, kind domain.LessonKind) (*domain.Lesson, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}
	var fields []apierr.FieldError
	if strings.TrimSpace(title) == "" {
		fields = append(fields, apierr.FieldError{Field: "title", Rule: "must not be empty"})
	}
	if !kind.Valid() {
		fields = append(fields, apierr.FieldError{Field: "kind", Rule: "unknown lesson kind"})
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fmt.Errorf("invalid lesson"), fields...)
	}

	var (
		lesson   *domain.Lesson
		courseID uuid.UUID
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		week, err := s.weekRepo.GetByID(ctx, tx, weekID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("week")
			}
			return err
		}
		courseID = week.CourseID

		index, err := s.lessonRepo.NextIndex(ctx, tx, weekID)
		if err != nil {
			return err
		}
		lesson = &domain.Lesson{
			ID:     uuid.New(),
			WeekID: weekID,
			Index:  index,
			Title:  strings.TrimSpace(title),
			Kind:   kind,
		}
		if _, err := s.lessonRepo.Create(ctx, tx, lesson); err != nil {
			return err
		}

		if kind == domain.LessonAssessment {
			assessment := &domain.Assessment{
				ID:       uuid.New(),
				LessonID: lesson.ID,
				Kind:     domain.AssessmentQuiz,
			}
			if _, err := s.assessmentRepo.Create(ctx, tx, assessment); err != nil {
				return err
			}
			lesson.Assessment = assessment
		}
		return nil
	})
	if err != nil {
		return nil, wrapServiceErr(err, "add lesson")
	}
	s.invalidateProgress(ctx, courseID)
	return lesson, nil
}

func (s *contentService) AttachAsset(ctx context.Context, lessonID uuid.UUID, upload AssetUpload) (*domain.Asset, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, apierr.Internal(fmt.Errorf("object store is not configured"))
	}

	lesson, err := s.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("lesson")
		}
		return nil, apierr.Internal(fmt.Errorf("load lesson: %w", err))
	}
	if !lesson.Kind.IsMedia() {
		return nil, apierr.Validation(fmt.Errorf("assessment lessons carry questions, not files"),
			apierr.FieldError{Field: "lesson_id", Rule: "lesson kind does not accept assets"})
	}

	assetID := uuid.New()
	key := fmt.Sprintf("lessons/%s/assets/%s/%s", lessonID, assetID, upload.Name)
	size, err := s.store.Upload(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		s.log.Error("asset upload failed", "lesson_id", lessonID, "error", err)
		return nil, apierr.Internal(fmt.Errorf("store asset: %w", err))
	}

	var asset *domain.Asset
	err = s.db.Transaction(func(tx *gorm.DB) error {
		index, err := s.assetRepo.NextIndex(ctx, tx, lessonID)
		if err != nil {
			return err
		}
		asset = &domain.Asset{
			ID:         assetID,
			LessonID:   lessonID,
			Index:      index,
			Kind:       upload.Kind,
			Name:       upload.Name,
			StorageKey: key,
			URL:        s.store.PublicURL(key),
			SizeBytes:  size,
		}
		_, err = s.assetRepo.Create(ctx, tx, asset)
		return err
	})
	if err != nil {
		// The object is orphaned if the row fails; remove it rather than
		// leaking storage.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned asset object left behind", "key", key, "error", delErr)
		}
		return nil, wrapServiceErr(err, "record asset")
	}
	return asset, nil
}

// ConfigureAssessment updates the assessment config of a lesson; questions
// are managed separately.
func (s *contentService) ConfigureAssessment(ctx context.Context, lessonID uuid.UUID, cfg domain.Assessment) (*domain.Assessment, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}
	if cfg.PassingScore < 0 || cfg.PassingScore > 100 {
		return nil, apierr.Validation(fmt.Errorf("passing score out of range"),
			apierr.FieldError{Field: "passing_score", Rule: "must be between 0 and 100"})
	}
	// Zero is the unlimited sentinel; a negative count is never meaningful.
	if cfg.MaxAttempts < 0 {
		return nil, apierr.Validation(fmt.Errorf("negative max attempts"),
			apierr.FieldError{Field: "max_attempts", Rule: "must be 0 (unlimited) or at least 1"})
	}
	if !cfg.Kind.Valid() {
		return nil, apierr.Validation(fmt.Errorf("unknown assessment kind"),
			apierr.FieldError{Field: "kind", Rule: "unknown assessment kind"})
	}

	var assessment *domain.Assessment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assessment, err = s.assessmentRepo.GetByLessonID(ctx, tx, lessonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("assessment")
			}
			return err
		}

		assessment.Kind = cfg.Kind
		assessment.TimeLimitMinutes = cfg.TimeLimitMinutes
		assessment.MaxAttempts = cfg.MaxAttempts
		assessment.PassingScore = cfg.PassingScore
		assessment.ShuffleQuestions = cfg.ShuffleQuestions
		assessment.ShuffleOptions = cfg.ShuffleOptions
		assessment.ShowResults = cfg.ShowResults
		assessment.Proctoring = cfg.Proctoring
		return s.assessmentRepo.Update(ctx, tx, assessment)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "configure assessment")
	}
	return assessment, nil
}

func (s *contentService) AddQuestion(ctx context.Context, assessmentID uuid.UUID, input QuestionInput) (*domain.Question, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}

	var question *domain.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.assessmentRepo.GetByID(ctx, tx, assessmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("assessment")
			}
			return err
		}

		index, err := s.questionRepo.NextIndex(ctx, tx, assessmentID)
		if err != nil {
			return err
		}

		question = buildQuestion(assessmentID, index, input)
		if err := question.Validate(); err != nil {
			return err
		}
		if _, err := s.questionRepo.Create(ctx, tx, question); err != nil {
			return err
		}
		_, err = s.optionRepo.Create(ctx, tx, question.Options)
		return err
	})
	if err != nil {
		return nil, wrapServiceErr(err, "add question")
	}
	return question, nil
}

func buildQuestion(assessmentID uuid.UUID, index int, input QuestionInput) *domain.Question {
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}
	q := &domain.Question{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		Index:        index,
		Kind:         input.Kind,
		Difficulty:   difficulty,
		Prompt:       input.Prompt,
		Marks:        input.Marks,
	}
	for i, o := range input.Options {
		q.Options = append(q.Options, &domain.AnswerOption{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Index:      i,
			Text:       o.Text,
			IsCorrect:  o.IsCorrect,
		})
	}
	return q
}

// UpdateQuestion replaces the question and its option set wholesale. Open
// attempts are unaffected: they grade against their frozen snapshots.
func (s *contentService) UpdateQuestion(ctx context.Context, questionID uuid.UUID, input QuestionInput) (*domain.Question, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}

	var question *domain.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.questionRepo.GetWithOptions(ctx, tx, questionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("question")
			}
			return err
		}

		question = buildQuestion(existing.AssessmentID, existing.Index, input)
		question.ID = existing.ID
		for _, o := range question.Options {
			o.QuestionID = existing.ID
		}
		if err := question.Validate(); err != nil {
			return err
		}

		oldOptionIDs := make([]uuid.UUID, 0, len(existing.Options))
		for _, o := range existing.Options {
			oldOptionIDs = append(oldOptionIDs, o.ID)
		}
		if err := s.optionRepo.SoftDeleteByIDs(ctx, tx, oldOptionIDs); err != nil {
			return err
		}
		if _, err := s.optionRepo.Create(ctx, tx, question.Options); err != nil {
			return err
		}
		return s.questionRepo.Update(ctx, tx, &domain.Question{
			ID:           question.ID,
			AssessmentID: question.AssessmentID,
			Index:        question.Index,
			Kind:         question.Kind,
			Difficulty:   question.Difficulty,
			Prompt:       question.Prompt,
			Marks:        question.Marks,
		})
	})
	if err != nil {
		return nil, wrapServiceErr(err, "update question")
	}
	return question, nil
}

func (s *contentService) DeleteQuestion(ctx context.Context, questionID uuid.UUID) error {
	if _, err := s.author(ctx); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		question, err := s.questionRepo.GetByID(ctx, tx, questionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("question")
			}
			return err
		}

		if err := s.optionRepo.SoftDeleteByQuestionIDs(ctx, tx, []uuid.UUID{questionID}); err != nil {
			return err
		}
		if err := s.questionRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{questionID}); err != nil {
			return err
		}

		// Close the gap left by the deleted question.
		siblings, err := s.questionRepo.GetByAssessmentID(ctx, tx, question.AssessmentID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(siblings))
		for _, sib := range siblings {
			ids = append(ids, sib.ID)
		}
		return s.questionRepo.UpdateIndexes(ctx, tx, ids)
	})
	return wrapServiceErr(err, "delete question")
}

// ReorderSiblings renumbers the full sibling set under the parent in one
// transaction. Repeating the same move is a no-op.
func (s *contentService) ReorderSiblings(ctx context.Context, parentID uuid.UUID, scope ReorderScope, movedID uuid.UUID, newIndex int) error {
	if _, err := s.author(ctx); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var (
			ids    []uuid.UUID
			update func(ordered []uuid.UUID) error
		)

		switch scope {
		case ReorderWeeks:
			weeks, err := s.weekRepo.GetByCourseID(ctx, tx, parentID)
			if err != nil {
				return err
			}
			for _, w := range weeks {
				ids = append(ids, w.ID)
			}
			update = func(ordered []uuid.UUID) error { return s.weekRepo.UpdateIndexes(ctx, tx, ordered) }
		case ReorderLessons:
			lessons, err := s.lessonRepo.GetByWeekID(ctx, tx, parentID)
			if err != nil {
				return err
			}
			for _, l := range lessons {
				ids = append(ids, l.ID)
			}
			update = func(ordered []uuid.UUID) error { return s.lessonRepo.UpdateIndexes(ctx, tx, ordered) }
		case ReorderQuestions:
			questions, err := s.questionRepo.GetByAssessmentID(ctx, tx, parentID)
			if err != nil {
				return err
			}
			for _, q := range questions {
				ids = append(ids, q.ID)
			}
			update = func(ordered []uuid.UUID) error { return s.questionRepo.UpdateIndexes(ctx, tx, ordered) }
		case ReorderOptions:
			options, err := s.optionRepo.GetByQuestionID(ctx, tx, parentID)
			if err != nil {
				return err
			}
			for _, o := range options {
				ids = append(ids, o.ID)
			}
			update = func(ordered []uuid.UUID) error { return s.optionRepo.UpdateIndexes(ctx, tx, ordered) }
		default:
			return apierr.Validation(fmt.Errorf("unknown reorder scope %q", scope),
				apierr.FieldError{Field: "scope", Rule: "must be weeks, lessons, questions or options"})
		}

		ordered, err := domain.Reorder(ids, movedID, newIndex)
		if err != nil {
			return err
		}
		return update(ordered)
	})
	return wrapServiceErr(err, "reorder siblings")
}

// DeleteEntity cascades depth-first. An assessment lesson with graded
// submissions refuses deletion unless forced; forcing detaches the
// submissions so history survives as audit records.
func (s *contentService) DeleteEntity(ctx context.Context, id uuid.UUID, scope DeleteScope, force bool) error {
	if _, err := s.author(ctx); err != nil {
		return err
	}

	var courseID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		switch scope {
		case DeleteLesson:
			lesson, err := s.lessonRepo.GetByID(ctx, tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.NotFound("lesson")
				}
				return err
			}
			week, err := s.weekRepo.GetByID(ctx, tx, lesson.WeekID)
			if err != nil {
				return err
			}
			courseID = week.CourseID
			return s.deleteLessons(ctx, tx, []uuid.UUID{id}, force, true)
		case DeleteWeek:
			week, err := s.weekRepo.GetByID(ctx, tx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierr.NotFound("week")
				}
				return err
			}
			courseID = week.CourseID
			return s.deleteWeeks(ctx, tx, []uuid.UUID{id}, force, true)
		case DeleteCourse:
			courseID = id
			weeks, err := s.weekRepo.GetByCourseID(ctx, tx, id)
			if err != nil {
				return err
			}
			weekIDs := make([]uuid.UUID, 0, len(weeks))
			for _, w := range weeks {
				weekIDs = append(weekIDs, w.ID)
			}
			if err := s.deleteWeeks(ctx, tx, weekIDs, force, false); err != nil {
				return err
			}
			return s.courseRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{id})
		default:
			return apierr.Validation(fmt.Errorf("unknown delete scope %q", scope),
				apierr.FieldError{Field: "scope", Rule: "must be course, week or lesson"})
		}
	})
	if err != nil {
		return wrapServiceErr(err, "delete entity")
	}
	s.invalidateProgress(ctx, courseID)
	return nil
}

func (s *contentService) deleteWeeks(ctx context.Context, tx *gorm.DB, weekIDs []uuid.UUID, force, renumber bool) error {
	if len(weekIDs) == 0 {
		return nil
	}

	lessons, err := s.lessonRepo.GetByWeekIDs(ctx, tx, weekIDs)
	if err != nil {
		return err
	}
	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}
	if err := s.deleteLessons(ctx, tx, lessonIDs, force, false); err != nil {
		return err
	}

	var courseID uuid.UUID
	if renumber {
		week, err := s.weekRepo.GetByID(ctx, tx, weekIDs[0])
		if err != nil {
			return err
		}
		courseID = week.CourseID
	}

	if err := s.weekRepo.SoftDeleteByIDs(ctx, tx, weekIDs); err != nil {
		return err
	}

	if renumber {
		siblings, err := s.weekRepo.GetByCourseID(ctx, tx, courseID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(siblings))
		for _, w := range siblings {
			ids = append(ids, w.ID)
		}
		return s.weekRepo.UpdateIndexes(ctx, tx, ids)
	}
	return nil
}

func (s *contentService) deleteLessons(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID, force, renumber bool) error {
	if len(lessonIDs) == 0 {
		return nil
	}

	assessments, err := s.assessmentRepo.GetByLessonIDs(ctx, tx, lessonIDs)
	if err != nil {
		return err
	}
	assessmentIDs := make([]uuid.UUID, 0, len(assessments))
	for _, a := range assessments {
		assessmentIDs = append(assessmentIDs, a.ID)
	}

	if len(assessmentIDs) > 0 {
		graded, err := s.submissionRepo.HasGradedByAssessmentIDs(ctx, tx, assessmentIDs)
		if err != nil {
			return err
		}
		if graded && !force {
			return apierr.Conflict(fmt.Errorf("assessment has graded submissions; delete with force to detach them"))
		}
		if err := s.submissionRepo.DetachByAssessmentIDs(ctx, tx, assessmentIDs); err != nil {
			return err
		}

		questions := make([]uuid.UUID, 0)
		for _, aid := range assessmentIDs {
			qs, err := s.questionRepo.GetByAssessmentID(ctx, tx, aid)
			if err != nil {
				return err
			}
			for _, q := range qs {
				questions = append(questions, q.ID)
			}
		}
		if err := s.optionRepo.SoftDeleteByQuestionIDs(ctx, tx, questions); err != nil {
			return err
		}
		if err := s.questionRepo.SoftDeleteByAssessmentIDs(ctx, tx, assessmentIDs); err != nil {
			return err
		}
		if err := s.assessmentRepo.SoftDeleteByIDs(ctx, tx, assessmentIDs); err != nil {
			return err
		}
	}

	if err := s.assetRepo.SoftDeleteByLessonIDs(ctx, tx, lessonIDs); err != nil {
		return err
	}

	var weekID uuid.UUID
	if renumber {
		lesson, err := s.lessonRepo.GetByID(ctx, tx, lessonIDs[0])
		if err != nil {
			return err
		}
		weekID = lesson.WeekID
	}

	if err := s.lessonRepo.SoftDeleteByIDs(ctx, tx, lessonIDs); err != nil {
		return err
	}

	if renumber {
		siblings, err := s.lessonRepo.GetByWeekID(ctx, tx, weekID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(siblings))
		for _, l := range siblings {
			ids = append(ids, l.ID)
		}
		return s.lessonRepo.UpdateIndexes(ctx, tx, ids)
	}
	return nil
}

func (s *contentService) ValidateForPublish(ctx context.Context, courseID uuid.UUID) (domain.PublishCheck, error) {
	if _, err := s.author(ctx); err != nil {
		return domain.PublishCheck{}, err
	}
	course, err := s.courseRepo.GetAggregate(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PublishCheck{}, apierr.NotFound("course")
		}
		return domain.PublishCheck{}, apierr.Internal(fmt.Errorf("load course: %w", err))
	}
	return domain.ValidateForPublish(course), nil
}

func (s *contentService) Publish(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}

	var course *domain.Course
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.courseRepo.GetAggregate(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("course")
			}
			return err
		}

		if !course.Status.CanTransitionTo(domain.CoursePublished) {
			return apierr.InvalidState(fmt.Errorf("course is %s, only drafts publish", course.Status))
		}
		check := domain.ValidateForPublish(course)
		if !check.Eligible {
			fields := make([]apierr.FieldError, 0, len(check.Failures))
			for _, f := range check.Failures {
				fields = append(fields, apierr.FieldError{Field: string(f.Rule), Rule: f.Detail})
			}
			return apierr.Validation(fmt.Errorf("course is not publishable"), fields...)
		}

		course.Status = domain.CoursePublished
		return s.courseRepo.UpdateStatus(ctx, tx, courseID, domain.CoursePublished)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "publish course")
	}
	s.log.Info("course published", "course_id", courseID)
	return course, nil
}

func (s *contentService) Archive(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	if _, err := s.author(ctx); err != nil {
		return nil, err
	}

	var course *domain.Course
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("course")
			}
			return err
		}
		if !course.Status.CanTransitionTo(domain.CourseArchived) {
			return apierr.InvalidState(fmt.Errorf("course is %s, only published courses archive", course.Status))
		}
		course.Status = domain.CourseArchived
		return s.courseRepo.UpdateStatus(ctx, tx, courseID, domain.CourseArchived)
	})
	if err != nil {
		return nil, wrapServiceErr(err, "archive course")
	}
	s.log.Info("course archived", "course_id", courseID)
	return course, nil
}

// wrapServiceErr keeps classified errors intact and wraps everything else as
// internal.
func wrapServiceErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var classified *apierr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apierr.Internal(fmt.Errorf("%s: %w", op, err))
}
