package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/http/response"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/services"
)

type StagingHandler struct {
	staging services.StagingService
}

func NewStagingHandler(staging services.StagingService) *StagingHandler {
	return &StagingHandler{staging: staging}
}

func indexParam(c *gin.Context, name string) (int, bool) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return 0, false
	}
	return idx, true
}

// GET /api/staging
func (h *StagingHandler) GetDocument(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	doc, err := h.staging.Document(c.Request.Context(), ws)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// PUT /api/staging/header
func (h *StagingHandler) SetHeader(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	var hdr domain.StagingHeader
	if err := c.ShouldBindJSON(&hdr); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.staging.SetHeader(c.Request.Context(), ws, hdr)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// POST /api/staging/archive
func (h *StagingHandler) Archive(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	entry, err := h.staging.Archive(c.Request.Context(), ws)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"archive": entry})
}

// GET /api/staging/archives
func (h *StagingHandler) ListArchives(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	entries, err := h.staging.Archives(c.Request.Context(), ws)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"archives": entries})
}

// DELETE /api/staging/archives/:index
func (h *StagingHandler) DeleteArchive(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c, "index")
	if !ok {
		return
	}
	entries, err := h.staging.DeleteArchive(c.Request.Context(), ws, idx)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"archives": entries})
}

// POST /api/staging/restore/:index
func (h *StagingHandler) Restore(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c, "index")
	if !ok {
		return
	}
	doc, err := h.staging.Restore(c.Request.Context(), ws, idx)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// POST /api/staging/clear
func (h *StagingHandler) Clear(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	doc, err := h.staging.Clear(c.Request.Context(), ws)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// POST /api/staging/repopulate
func (h *StagingHandler) Repopulate(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	var candidate domain.StagingDocument
	if err := c.ShouldBindJSON(&candidate); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	applied, err := h.staging.Repopulate(c.Request.Context(), ws, candidate)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applied": applied})
}

// PATCH /api/staging/sections/:section/lessons/:index
func (h *StagingHandler) UpdateLesson(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var lesson domain.Lesson
	if err := c.ShouldBindJSON(&lesson); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.staging.UpdateLesson(c.Request.Context(), ws, c.Param("section"), idx, lesson)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// DELETE /api/staging/sections/:section/lessons/:index
func (h *StagingHandler) RemoveLesson(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	idx, ok := indexParam(c, "index")
	if !ok {
		return
	}
	doc, err := h.staging.RemoveLesson(c.Request.Context(), ws, c.Param("section"), idx)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// DELETE /api/staging/sections/:section
func (h *StagingHandler) RemoveSection(c *gin.Context) {
	_, ws, ok := caller(c)
	if !ok {
		return
	}
	doc, err := h.staging.RemoveSection(c.Request.Context(), ws, c.Param("section"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}
