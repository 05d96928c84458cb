package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// ErrExportGenerateFail the workbook could not be written
var ErrExportGenerateFail = errors.New("failed to generate Excel file")

// ExportService report export
//
// The workbook has three sheets:
//   - "Workers": one row per worker with the five OEE figures
//   - "Work items": every finished work item in the report
//   - "Stoppages": finished stoppages in the period
type ExportService interface {
	ExportReport(ctx context.Context, filter dto.ReportFilter) (*bytes.Buffer, string, error)
}

type exportService struct {
	reports ReportService
	repo    *repository.Repository
	cfg     *config.TrackingConfig
	logger  *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(cfg *config.TrackingConfig, reports ReportService, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{reports: reports, repo: repo, cfg: cfg, logger: logger}
}

func (s *exportService) ExportReport(ctx context.Context, filter dto.ReportFilter) (*bytes.Buffer, string, error) {
	report, err := s.reports.GenerateReport(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	loc := s.cfg.Location()
	from, to := reportMinDate, reportMaxDate
	if filter.From != nil {
		from = dateOnly(*filter.From)
	}
	if filter.To != nil {
		to = dateOnly(*filter.To)
	}
	stoppages, err := s.repo.Stoppage.ListFinished(ctx, repository.StoppageFilter{
		WorkerID: filter.WorkerID,
		From:     dayStart(from, loc),
		To:       dayStart(to.AddDate(0, 0, 1), loc),
	})
	if err != nil {
		s.logger.Error("list stoppages failed", zap.Error(err))
		return nil, "", pkgerrors.Storage("list stoppages", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// ── Workers ──
	workers := "Workers"
	f.SetSheetName("Sheet1", workers)
	writeHeader(f, workers, headerStyle, []string{
		"Worker", "Items", "Standard (min)", "Actual (min)",
		"Availability %", "Performance %", "Quality %", "Productivity %", "OEE %",
	})
	for i, w := range report.Workers {
		writeRow(f, workers, i+2, []interface{}{
			w.WorkerName, w.Items, w.TotalStandard, w.TotalActual,
			w.Availability, w.Performance, w.Quality, w.Productivity, w.OEE,
		})
	}
	f.SetColWidth(workers, "A", "A", 28)
	f.SetColWidth(workers, "B", "I", 15)

	// ── Work items ──
	items := "Work items"
	f.NewSheet(items)
	writeHeader(f, items, headerStyle, []string{
		"Started", "Ended", "Worker", "Module", "Component", "Order", "Post",
		"Standard (min)", "Actual (min)", "Efficiency %",
	})
	for i, it := range report.Items {
		writeRow(f, items, i+2, []interface{}{
			it.StartedAt.In(loc).Format("2006-01-02 15:04:05"),
			it.EndedAt.In(loc).Format("2006-01-02 15:04:05"),
			it.WorkerName, it.ModuleName, it.ComponentName, it.OrderNumber, it.PostNumber,
			it.StandardTime, it.ActualTime, it.Efficiency,
		})
	}
	f.SetColWidth(items, "A", "B", 20)
	f.SetColWidth(items, "C", "G", 18)
	f.SetColWidth(items, "H", "J", 14)

	// ── Stoppages ──
	stops := "Stoppages"
	f.NewSheet(stops)
	writeHeader(f, stops, headerStyle, []string{"Started", "Ended", "Worker ID", "Type", "Category", "Duration (min)", "Reason"})
	for i, st := range stoppages {
		var ended string
		var duration float64
		if st.EndedAt != nil {
			ended = st.EndedAt.In(loc).Format("2006-01-02 15:04:05")
		}
		if st.DurationMinutes != nil {
			duration = round2(*st.DurationMinutes)
		}
		var typeName, category string
		if st.StoppageType != nil {
			typeName, category = st.StoppageType.Name, st.StoppageType.Category
		}
		writeRow(f, stops, i+2, []interface{}{
			st.StartedAt.In(loc).Format("2006-01-02 15:04:05"), ended,
			st.WorkerID, typeName, category, duration, st.Reason,
		})
	}
	f.SetColWidth(stops, "A", "B", 20)
	f.SetColWidth(stops, "C", "F", 14)
	f.SetColWidth(stops, "G", "G", 40)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write Excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("oee_%s_%s.xlsx", report.From, report.To)
	return buf, filename, nil
}

// ── helpers ──

func writeHeader(f *excelize.File, sheet string, style int, titles []string) {
	for i, title := range titles {
		f.SetCellValue(sheet, cell(colName(i), 1), title)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(colName(i), row), v)
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
