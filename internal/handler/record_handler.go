package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// RecordHandler serves the records table and its row actions.
type RecordHandler struct {
	formService *service.FormService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(formService *service.FormService) *RecordHandler {
	return &RecordHandler{formService: formService}
}

// ListRecords godoc
// GET /api/v1/records?name=&division=
// Lists records matching both substrings, case-insensitively.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var f model.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": h.formService.Records(f)})
}

// GetSummary godoc
// GET /api/v1/records/summary?name=&division=
// Returns count, average, extremes and division counts of the matches.
func (h *RecordHandler) GetSummary(c *gin.Context) {
	var f model.Filter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": h.formService.Summary(f)})
}

// EditRecord godoc
// POST /api/v1/records/:id/edit
// Loads the record into the form; the next submit replaces it.
func (h *RecordHandler) EditRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	state, err := h.formService.BeginEdit(id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": state})
}

// DeleteRecord godoc
// DELETE /api/v1/records/:id
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// GetView godoc
// GET /api/v1/view
// Returns the form and the table filtered by the session filter.
func (h *RecordHandler) GetView(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"view": h.formService.Snapshot()})
}

// SetFilter godoc
// PUT /api/v1/view/filter
// Sets the session filter and returns the refreshed view.
func (h *RecordHandler) SetFilter(c *gin.Context) {
	var f model.Filter
	if fields := validator.Bind(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	h.formService.SetFilter(f)
	response.Success(c, http.StatusOK, gin.H{"view": h.formService.Snapshot()})
}
