package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// FormHandler exposes the entry form: field edits, submit and reset.
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// GetForm godoc
// GET /api/v1/form
// Returns the form buffer, its current errors and the submit label.
func (h *FormHandler) GetForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"form": h.formService.Form()})
}

// ReplaceForm godoc
// PUT /api/v1/form
// Replaces the whole buffer and validates every field.
func (h *FormHandler) ReplaceForm(c *gin.Context) {
	var req model.FormData
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": h.formService.ReplaceForm(req)})
}

// SetFieldRequest is the payload for a single keystroke-level update.
// The max tag matches model.MaxInputLength.
type SetFieldRequest struct {
	Value *string `json:"value" binding:"required,max=200"`
}

// SetField godoc
// PUT /api/v1/form/fields/:field
// Updates one input. The response carries the re-derived error map, so a
// field error is visible while the request itself succeeds.
func (h *FormHandler) SetField(c *gin.Context) {
	var req SetFieldRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	state, err := h.formService.SetField(model.Field(c.Param("field")), *req.Value)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": state})
}

// Submit godoc
// POST /api/v1/form/submit
// Validates the buffer and stores the derived record: 201 for a new
// record, 200 when an edit was saved.
func (h *FormHandler) Submit(c *gin.Context) {
	result, err := h.formService.Submit()
	if err != nil {
		failFromError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{
		"record":  result.Record,
		"updated": result.Updated,
		"form":    result.Form,
	})
}

// Reset godoc
// POST /api/v1/form/reset
// Clears the buffer and abandons any edit in progress.
func (h *FormHandler) Reset(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"form": h.formService.Reset()})
}
