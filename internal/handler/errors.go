package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
)

// failFromError maps service and store errors onto the response envelope.
func failFromError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Invalid(c, verr.Fields.Strings())
	case errors.Is(err, service.ErrUnknownField):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownField)
	case errors.Is(err, repository.ErrRecordNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// recordID parses the :id path parameter, writing INVALID_ID on failure.
func recordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
