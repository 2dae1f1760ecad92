package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/response"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/services"
)

type CurriculumHandler struct {
	log        *logger.Logger
	curriculum services.CurriculumService
}

func NewCurriculumHandler(log *logger.Logger, curriculum services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{log: log.With("handler", "CurriculumHandler"), curriculum: curriculum}
}

// POST /api/generate
func (h *CurriculumHandler) Generate(c *gin.Context) {
	userID, ws, ok := caller(c)
	if !ok {
		return
	}
	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stageTo := ws
	if !stageFlag(c) {
		stageTo = ""
	}
	out, err := h.curriculum.Generate(c.Request.Context(), userID, stageTo, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lessons/batch[?async=true]
func (h *CurriculumHandler) RunBatch(c *gin.Context) {
	userID, ws, ok := caller(c)
	if !ok {
		return
	}
	var req domain.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		p, err := h.curriculum.StartLessonBatch(c.Request.Context(), userID, ws, req)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"batch": p})
		return
	}
	report, err := h.curriculum.RunLessonBatch(c.Request.Context(), userID, ws, req)
	if err != nil {
		// units that ran before the abort are already charged and staged
		if len(report.Succeeded) > 0 || len(report.FailedUnits) > 0 {
			response.RespondErrWith(c, err, gin.H{"report": report})
			return
		}
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}

// GET /api/batches/:id
func (h *CurriculumHandler) GetBatch(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	p, err := h.curriculum.BatchProgress(c.Request.Context(), userID, batchID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": p})
}

// DELETE /api/batches/:id
func (h *CurriculumHandler) CancelBatch(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	if err := h.curriculum.CancelBatch(c.Request.Context(), userID, batchID); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// GET /api/credits
func (h *CurriculumHandler) GetCredits(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	bal, err := h.curriculum.Balance(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"balance": bal})
}

// stageFlag reads ?stage=, defaulting to true.
func stageFlag(c *gin.Context) bool {
	raw := c.Query("stage")
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	return err != nil || v
}
