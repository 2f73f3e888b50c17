package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/services"
)

type AssessmentHandler struct {
	log         *logger.Logger
	assessments services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessments services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:         log.With("handler", "AssessmentHandler"),
		assessments: assessments,
	}
}

func (h *AssessmentHandler) StartAttempt(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid assessment id")))
		return
	}
	sub, err := h.assessments.StartAttempt(c.Request.Context(), assessmentID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid submission id")))
		return
	}
	var body struct {
		QuestionID uuid.UUID `json:"question_id"`
		Value      string    `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	sub, err := h.assessments.SubmitAnswer(c.Request.Context(), submissionID, body.QuestionID, body.Value)
	if err != nil {
		// The deadline case still carries the auto-submitted attempt.
		if apierr.CodeOf(err) == apierr.CodeTimeExpired && sub != nil {
			c.JSON(apierr.StatusOf(err), gin.H{
				"error":      APIError{Message: err.Error(), Code: apierr.CodeTimeExpired},
				"submission": sub,
			})
			return
		}
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) SubmitAttempt(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid submission id")))
		return
	}
	sub, err := h.assessments.SubmitAttempt(c.Request.Context(), submissionID)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeTimeExpired && sub != nil {
			c.JSON(apierr.StatusOf(err), gin.H{
				"error":      APIError{Message: err.Error(), Code: apierr.CodeTimeExpired},
				"submission": sub,
			})
			return
		}
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) GradeQuestion(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid submission id")))
		return
	}
	var body struct {
		QuestionID uuid.UUID `json:"question_id"`
		Points     float64   `json:"points"`
		Feedback   string    `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	sub, err := h.assessments.GradeQuestion(c.Request.Context(), submissionID, body.QuestionID, body.Points, body.Feedback)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) Review(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid submission id")))
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid request body: %w", err)))
		return
	}
	sub, err := h.assessments.ReviewSubmission(c.Request.Context(), submissionID, body.Note)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) GetSubmission(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid submission id")))
		return
	}
	sub, err := h.assessments.GetSubmission(c.Request.Context(), submissionID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": sub})
}

func (h *AssessmentHandler) ListAttempts(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid assessment id")))
		return
	}
	subs, err := h.assessments.ListAttempts(c.Request.Context(), assessmentID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"submissions": subs})
}
