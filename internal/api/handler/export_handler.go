package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"weld-oee/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler report downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReport OEE report as an Excel workbook
// GET /api/v1/reports/export?from=&to=&worker_id=
func (h *ExportHandler) ExportReport(c *gin.Context) {
	_, filter, ok := bindReportQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
