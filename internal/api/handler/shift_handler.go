package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// ShiftHandler shift endpoints. Shifts open on worker login.
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler creates a ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CloseCurrent closes the shift bound to the token
// POST /api/v1/shifts/current/close
func (h *ShiftHandler) CloseCurrent(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Close(c.Request.Context(), sess, sess.ShiftID, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, shift)
}
