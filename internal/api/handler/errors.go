package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/service"
	pkgerrors "weld-oee/backend/pkg/errors"
	"weld-oee/backend/pkg/response"
)

// Business error codes
const (
	codeValidation      = 10001
	codeInvalidCreds    = 11001
	codeActiveWorkItem  = 12001
	codeActiveStoppage  = 12002
	codeInvalidDuration = 12003
	codeWorkerBusy      = 12004
	codeNotFound        = 12005
	codePrecondition    = 12006
	codeFormula         = 12007
	codeBatchTooLarge   = 13001
)

// handleServiceError maps error kinds to HTTP status and business code.
// Storage and unknown errors never leak their message.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, codeInvalidCreds, "invalid credentials")
	case errors.Is(err, pkgerrors.ErrConflictActiveWorkItem):
		response.Conflict(c, codeActiveWorkItem, err.Error())
	case errors.Is(err, pkgerrors.ErrConflictActiveStoppage):
		response.Conflict(c, codeActiveStoppage, err.Error())
	case errors.Is(err, pkgerrors.ErrConflictInvalidDuration):
		response.Conflict(c, codeInvalidDuration, err.Error())
	case errors.Is(err, service.ErrWorkerBusy):
		response.Conflict(c, codeWorkerBusy, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, err.Error())
	case errors.Is(err, pkgerrors.ErrPreconditionFailed):
		response.PreconditionFailed(c, codePrecondition, err.Error())
	case errors.Is(err, pkgerrors.ErrFormulaEvaluation):
		response.BadRequest(c, codeFormula, err.Error())
	case errors.Is(err, service.ErrBatchTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, codeBatchTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, codeValidation, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindError 400 for a request body or query that fails binding
func bindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, middleware.CodeBodyTooLarge, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "invalid request", err.Error())
}
