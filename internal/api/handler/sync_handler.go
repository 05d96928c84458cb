package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// SyncHandler offline batch upload
type SyncHandler struct {
	syncSvc service.SyncService
}

// NewSyncHandler creates a SyncHandler
func NewSyncHandler(syncSvc service.SyncService) *SyncHandler {
	return &SyncHandler{syncSvc: syncSvc}
}

// Upload replays a batch buffered while the terminal was offline. The
// response is 200 even when some items failed; see SyncResult.Errors.
// POST /api/v1/sync
func (h *SyncHandler) Upload(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.syncSvc.Process(c.Request.Context(), sess, req.Items, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}
