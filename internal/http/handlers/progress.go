package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/brightclass-backend/internal/platform/apierr"
	"github.com/brightclass/brightclass-backend/internal/platform/logger"
	"github.com/brightclass/brightclass-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid lesson id")))
		return
	}
	rollup, err := h.progress.OnLessonCompleted(c.Request.Context(), lessonID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rollup})
}

func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErr(c, apierr.Validation(fmt.Errorf("invalid course id")))
		return
	}
	rollup, err := h.progress.GetCourseProgress(c.Request.Context(), courseID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rollup})
}
