package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/api/middleware"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/service"
	"weld-oee/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// ReportHandler OEE reporting endpoints
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// WorkerOEE five OEE figures for one worker. Welders only see their own.
// GET /api/v1/reports/oee?worker_id=&from=&to=
func (h *ReportHandler) WorkerOEE(c *gin.Context) {
	q, filter, ok := bindReportQuery(c)
	if !ok {
		return
	}
	if c.GetString(middleware.CtxRole) == model.RoleWelder {
		wid, _ := c.Get(middleware.CtxWorkerID)
		own, _ := wid.(uint)
		q.WorkerID = &own
	}
	if q.WorkerID == nil || filter.From == nil || filter.To == nil {
		response.BadRequest(c, codeValidation, "worker_id, from and to are required")
		return
	}

	figures, err := h.reportSvc.CalculateWorkerOEE(c.Request.Context(), dto.OEEQuery{
		WorkerID:    *q.WorkerID,
		From:        *filter.From,
		To:          *filter.To,
		ModuleID:    q.ModuleID,
		ComponentID: q.ComponentID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, figures)
}

// Generate multi-worker report
// GET /api/v1/reports?from=&to=&worker_id=&module_id=&component_id=
func (h *ReportHandler) Generate(c *gin.Context) {
	_, filter, ok := bindReportQuery(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.GenerateReport(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, report)
}

// TopWorkers GET /api/v1/reports/top-workers?from=&to=&limit=
func (h *ReportHandler) TopWorkers(c *gin.Context) {
	q, filter, ok := bindReportQuery(c)
	if !ok {
		return
	}
	if filter.From == nil || filter.To == nil {
		response.BadRequest(c, codeValidation, "from and to are required")
		return
	}

	workers, err := h.reportSvc.TopWorkers(c.Request.Context(), *filter.From, *filter.To, q.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, workers)
}

// Trend GET /api/v1/reports/trend?days=&worker_id=
func (h *ReportHandler) Trend(c *gin.Context) {
	q, _, ok := bindReportQuery(c)
	if !ok {
		return
	}

	points, err := h.reportSvc.DailyTrend(c.Request.Context(), time.Now(), q.Days, q.WorkerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, points)
}

// Dashboard GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	board, err := h.reportSvc.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, board)
}

// bindReportQuery parses the shared query string. On failure it writes a
// 400 and the caller should return.
func bindReportQuery(c *gin.Context) (dto.ReportQuery, dto.ReportFilter, bool) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return q, dto.ReportFilter{}, false
	}
	from, err := parseDay("from", q.From)
	if err != nil {
		response.BadRequest(c, codeValidation, err.Error())
		return q, dto.ReportFilter{}, false
	}
	to, err := parseDay("to", q.To)
	if err != nil {
		response.BadRequest(c, codeValidation, err.Error())
		return q, dto.ReportFilter{}, false
	}
	if from != nil && to != nil && to.Before(*from) {
		response.BadRequest(c, codeValidation, "to must not be before from")
		return q, dto.ReportFilter{}, false
	}
	return q, dto.ReportFilter{
		WorkerID:    q.WorkerID,
		ModuleID:    q.ModuleID,
		ComponentID: q.ComponentID,
		From:        from,
		To:          to,
	}, true
}

func parseDay(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return &d, nil
}
