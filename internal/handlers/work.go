// internal/handlers/work.go
package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/services"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

// multipart framing allowance on top of the file itself
const uploadOverhead = 1 << 20

type WorkHandler struct {
	workService      *services.WorkService
	extractorService *services.ExtractorService
	maxUploadBytes   int64
}

func NewWorkHandler(workService *services.WorkService, extractorService *services.ExtractorService, maxUploadBytes int64) *WorkHandler {
	return &WorkHandler{
		workService:      workService,
		extractorService: extractorService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// POST /works
func (h *WorkHandler) SubmitWork(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req services.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.workService.SubmitWork(c.Request.Context(), identity.ID, req.Title, req.Content)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.CreatedResponse(c, i18n.KeyWorkSubmitted, result)
}

// POST /works/upload
func (h *WorkHandler) UploadWork(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+uploadOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.PayloadTooLargeResponse(c, i18n.T(lang, i18n.KeyWorkFileTooLarge))
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWorkFileRequired), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWorkExtractionFailed), nil)
		return
	}
	defer file.Close()

	content, err := h.extractorService.ExtractUpload(file, fileHeader)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) || errors.Is(err, services.ErrFileTooLarge) {
			respondError(c, err, "work")
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWorkExtractionFailed), err.Error())
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	}

	result, err := h.workService.SubmitWork(c.Request.Context(), identity.ID, title, content)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.CreatedResponse(c, i18n.KeyWorkSubmitted, result)
}

// GET /works
func (h *WorkHandler) GetMyWorks(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	works, err := h.workService.ListWorks(identity.ID)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	params := utils.GetPaginationParams(c)
	if params.Order == "asc" {
		for i, j := 0, len(works)-1; i < j; i, j = i+1, j-1 {
			works[i], works[j] = works[j], works[i]
		}
	}

	utils.PaginatedResponse(c, utils.Paginate(works, params))
}

// GET /works/:id
func (h *WorkHandler) GetWork(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "work")
	if !ok {
		return
	}

	work, err := h.workService.GetWork(id, identity.ID)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.SuccessResponse(c, work)
}

// PUT /works/:id
func (h *WorkHandler) EditWork(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "work")
	if !ok {
		return
	}

	var req services.EditWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	work, err := h.workService.EditWork(id, identity.ID, &req)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.SuccessResponseWithMessage(c, i18n.KeyWorkUpdated, work)
}

// DELETE /works/:id
func (h *WorkHandler) DeleteWork(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "work")
	if !ok {
		return
	}

	if err := h.workService.DeleteWork(id, identity.ID); err != nil {
		respondError(c, err, "work")
		return
	}

	utils.SuccessResponseWithMessage(c, i18n.KeyWorkDeleted, nil)
}

// GET /works/:id/revisions
func (h *WorkHandler) GetRevisions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "work")
	if !ok {
		return
	}

	if _, err := h.workService.GetWork(id, identity.ID); err != nil {
		respondError(c, err, "work")
		return
	}

	revisions, err := h.workService.GetRevisions(id, identity.ID)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.SuccessResponse(c, revisions)
}

// GET /works/:id/plagiarism
func (h *WorkHandler) CheckPlagiarism(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "work")
	if !ok {
		return
	}

	result, err := h.workService.CheckWork(c.Request.Context(), id, identity)
	if err != nil {
		respondError(c, err, "work")
		return
	}

	utils.SuccessResponseWithMessage(c, i18n.KeyWorkPlagiarismCheckDone, result)
}
