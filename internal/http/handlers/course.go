package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/domain"
	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/services"
)

type CourseHandler struct {
	log     *logger.Logger
	content services.ContentService
}

func NewCourseHandler(log *logger.Logger, content services.ContentService) *CourseHandler {
	return &CourseHandler{
		log:     log.With("handler", "CourseHandler"),
		content: content,
	}
}

func (h *CourseHandler) Create(c *gin.Context) {
	var input services.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	course, err := h.content.CreateCourse(c.Request.Context(), input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"course": course})
}

func (h *CourseHandler) Get(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	course, err := h.content.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{
		"course":                     course,
		"estimated_duration_minutes": int(course.EstimatedDuration().Minutes()),
		"lesson_count":               course.LessonCount(),
	})
}

func (h *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	var input services.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	course, err := h.content.UpdateCourse(c.Request.Context(), courseID, input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) AddWeek(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	week, err := h.content.AddWeek(c.Request.Context(), courseID, body.Title, body.Description)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"week": week})
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	weekID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid week id")))
		return
	}
	var body struct {
		Title string            `json:"title"`
		Kind  domain.LessonKind `json:"kind"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	lesson, err := h.content.AddLesson(c.Request.Context(), weekID, body.Title, body.Kind)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"lesson": lesson})
}

func (h *CourseHandler) AttachAsset(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid lesson id")))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("missing file upload: %w", err)))
		return
	}
	defer file.Close()

	kind := domain.AssetKind(c.PostForm("kind"))
	asset, err := h.content.AttachAsset(c.Request.Context(), lessonID, services.AssetUpload{
		Name:        header.Filename,
		Kind:        kind,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"asset": asset})
}

func (h *CourseHandler) Reorder(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid parent id")))
		return
	}
	var body struct {
		Scope    services.ReorderScope `json:"scope"`
		MovedID  uuid.UUID             `json:"moved_id"`
		NewIndex int                   `json:"new_index"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	if err := h.content.ReorderSiblings(c.Request.Context(), parentID, body.Scope, body.MovedID, body.NewIndex); err != nil {
		RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid id")))
		return
	}
	scope := services.DeleteScope(c.Query("scope"))
	if scope == "" {
		scope = services.DeleteCourse
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	if err := h.content.DeleteEntity(c.Request.Context(), id, scope, force); err != nil {
		RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) Validate(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	check, err := h.content.ValidateForPublish(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, check)
}

func (h *CourseHandler) Publish(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	course, err := h.content.Publish(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) Archive(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	course, err := h.content.Archive(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) AddQuestion(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid assessment id")))
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	question, err := h.content.AddQuestion(c.Request.Context(), assessmentID, input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"question": question})
}

func (h *CourseHandler) UpdateQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid question id")))
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	question, err := h.content.UpdateQuestion(c.Request.Context(), questionID, input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"question": question})
}

func (h *CourseHandler) DeleteQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid question id")))
		return
	}
	if err := h.content.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ConfigureAssessment(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid lesson id")))
		return
	}
	var cfg domain.Assessment
	if err := c.ShouldBindJSON(&cfg); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	assessment, err := h.content.ConfigureAssessment(c.Request.Context(), lessonID, cfg)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"assessment": assessment})
}
