package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

// DefectHandler quality inspection
type DefectHandler struct {
	defectSvc service.DefectService
}

// NewDefectHandler creates a DefectHandler
func NewDefectHandler(defectSvc service.DefectService) *DefectHandler {
	return &DefectHandler{defectSvc: defectSvc}
}

// Record POST /api/v1/defects
func (h *DefectHandler) Record(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RecordDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	defect, err := h.defectSvc.Record(c.Request.Context(), userID, &req, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, defect)
}
