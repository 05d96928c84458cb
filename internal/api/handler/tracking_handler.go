package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// TrackingHandler work-item and stoppage endpoints for the shop floor
type TrackingHandler struct {
	workItemSvc service.WorkItemService
	stoppageSvc service.StoppageService
}

// NewTrackingHandler creates a TrackingHandler
func NewTrackingHandler(workItemSvc service.WorkItemService, stoppageSvc service.StoppageService) *TrackingHandler {
	return &TrackingHandler{workItemSvc: workItemSvc, stoppageSvc: stoppageSvc}
}

// StartWorkItem POST /api/v1/work-items/start
func (h *TrackingHandler) StartWorkItem(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}
	var req dto.StartWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.workItemSvc.Start(c.Request.Context(), sess, &req, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// FinishWorkItem POST /api/v1/work-items/finish
func (h *TrackingHandler) FinishWorkItem(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}
	var req dto.FinishWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.workItemSvc.Finish(c.Request.Context(), sess, req.EventID, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// StartStoppage POST /api/v1/stoppages/start
func (h *TrackingHandler) StartStoppage(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}
	var req dto.StartStoppageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.stoppageSvc.Start(c.Request.Context(), sess, &req, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// FinishStoppage POST /api/v1/stoppages/finish
func (h *TrackingHandler) FinishStoppage(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}
	var req dto.FinishStoppageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.stoppageSvc.Finish(c.Request.Context(), sess, req.StoppageID, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, result)
}

// Active what the worker currently has open
// GET /api/v1/tracking/active
func (h *TrackingHandler) Active(c *gin.Context) {
	sess, ok := MustGetWorkerSession(c)
	if !ok {
		return
	}

	status, err := h.workItemSvc.ActiveStatus(c.Request.Context(), sess.WorkerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, status)
}
