package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/services"
)

type EnrollmentHandler struct {
	log         *logger.Logger
	enrollments services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollments services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:         log.With("handler", "EnrollmentHandler"),
		enrollments: enrollments,
	}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondCreated(c, gin.H{"enrollment": enrollment})
}

func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	enrollments, err := h.enrollments.ListMine(c.Request.Context())
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"enrollments": enrollments})
}

func (h *EnrollmentHandler) CanAccessLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid lesson id")))
		return
	}
	allowed, err := h.enrollments.CanAccessLesson(c.Request.Context(), lessonID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"allowed": allowed})
}
