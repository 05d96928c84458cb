package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

const (
	defaultTopWorkers = 5
	defaultTrendDays  = 7
	maxTrendDays      = 90
	recentItems       = 10
)

var (
	reportMinDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	reportMaxDate = time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
)

// ReportService read-only OEE aggregation
type ReportService interface {
	CalculateWorkerOEE(ctx context.Context, q dto.OEEQuery) (*dto.OEEFigures, error)
	GenerateReport(ctx context.Context, filter dto.ReportFilter) (*dto.Report, error)
	// TopWorkers ranks workers by OEE, ties keep discovery order
	TopWorkers(ctx context.Context, from, to time.Time, limit int) ([]dto.WorkerOEE, error)
	DailyTrend(ctx context.Context, today time.Time, days int, workerID *uint) ([]dto.DailyPoint, error)
	Dashboard(ctx context.Context, now time.Time) (*dto.Dashboard, error)
}

type reportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewReportService creates a ReportService
func NewReportService(cfg *config.TrackingConfig, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, loc: cfg.Location(), logger: logger}
}

// period calendar days [fromDate, toDate] and the matching instants
// [from, to) in the tracking timezone
type period struct {
	fromDate, toDate time.Time
	from, to         time.Time
}

func (s *reportService) period(fromDate, toDate time.Time) period {
	fromDate, toDate = dateOnly(fromDate), dateOnly(toDate)
	return period{
		fromDate: fromDate,
		toDate:   toDate,
		from:     dayStart(fromDate, s.loc),
		to:       dayStart(toDate.AddDate(0, 0, 1), s.loc),
	}
}

// ═══════════════════════════════════════════════════════════
// Single worker
// ═══════════════════════════════════════════════════════════

func (s *reportService) CalculateWorkerOEE(ctx context.Context, q dto.OEEQuery) (*dto.OEEFigures, error) {
	p := s.period(q.From, q.To)
	items, err := s.repo.WorkItem.ListFinished(ctx, repository.WorkItemFilter{
		WorkerID:    &q.WorkerID,
		ModuleID:    q.ModuleID,
		ComponentID: q.ComponentID,
		From:        &p.from,
		To:          &p.to,
	})
	if err != nil {
		s.logger.Error("list work items failed", zap.Uint("worker_id", q.WorkerID), zap.Error(err))
		return nil, pkgerrors.Storage("list work items", err)
	}
	figures, err := s.figures(ctx, q.WorkerID, p, items)
	if err != nil {
		return nil, err
	}
	return &figures, nil
}

// figures availability comes from shifts and stoppages; performance and
// quality come from the given (already filtered) items
func (s *reportService) figures(ctx context.Context, workerID uint, p period, items []model.WorkItemEvent) (dto.OEEFigures, error) {
	hours, err := s.repo.Shift.SumAvailableHours(ctx, &workerID, p.fromDate, p.toDate)
	if err != nil {
		s.logger.Error("sum available hours failed", zap.Uint("worker_id", workerID), zap.Error(err))
		return dto.OEEFigures{}, pkgerrors.Storage("sum available hours", err)
	}
	minutes, err := s.repo.Stoppage.SumCountingMinutes(ctx, repository.StoppageFilter{
		WorkerID: &workerID,
		From:     p.from,
		To:       p.to,
	})
	if err != nil {
		s.logger.Error("sum stoppage minutes failed", zap.Uint("worker_id", workerID), zap.Error(err))
		return dto.OEEFigures{}, pkgerrors.Storage("sum stoppage minutes", err)
	}

	ids := make([]uint, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	defectArea, err := s.repo.Defect.SumAreaByWorkItems(ctx, ids)
	if err != nil {
		s.logger.Error("sum defect area failed", zap.Uint("worker_id", workerID), zap.Error(err))
		return dto.OEEFigures{}, pkgerrors.Storage("sum defect area", err)
	}

	return composeFigures(
		availabilityRatio(hours, minutes/60),
		performanceRatio(items),
		qualityRatio(items, defectArea),
	), nil
}

// ═══════════════════════════════════════════════════════════
// Multi-worker report
// ═══════════════════════════════════════════════════════════

func (s *reportService) GenerateReport(ctx context.Context, filter dto.ReportFilter) (*dto.Report, error) {
	fromDate, toDate := reportMinDate, reportMaxDate
	if filter.From != nil {
		fromDate = *filter.From
	}
	if filter.To != nil {
		toDate = *filter.To
	}
	p := s.period(fromDate, toDate)

	items, err := s.repo.WorkItem.ListFinished(ctx, repository.WorkItemFilter{
		WorkerID:    filter.WorkerID,
		ModuleID:    filter.ModuleID,
		ComponentID: filter.ComponentID,
		From:        &p.from,
		To:          &p.to,
	})
	if err != nil {
		s.logger.Error("list work items failed", zap.Error(err))
		return nil, pkgerrors.Storage("list work items", err)
	}

	// group by worker in discovery order (newest item first)
	var order []uint
	groups := make(map[uint][]model.WorkItemEvent)
	for _, item := range items {
		if _, seen := groups[item.WorkerID]; !seen {
			order = append(order, item.WorkerID)
		}
		groups[item.WorkerID] = append(groups[item.WorkerID], item)
	}

	workers := make([]dto.WorkerOEE, 0, len(order))
	for _, workerID := range order {
		group := groups[workerID]
		figures, err := s.figures(ctx, workerID, p, group)
		if err != nil {
			return nil, err
		}
		line := dto.WorkerOEE{
			WorkerID:   workerID,
			WorkerName: workerName(&group[0]),
			Items:      len(group),
			OEEFigures: figures,
		}
		for i := range group {
			line.TotalStandard += group[i].StandardTime
			if group[i].ActualTime != nil {
				line.TotalActual += *group[i].ActualTime
			}
		}
		line.TotalStandard = round2(line.TotalStandard)
		line.TotalActual = round2(line.TotalActual)
		workers = append(workers, line)
	}

	// the summary covers every worker in the period
	summaryItems := items
	if filter.WorkerID != nil || filter.ModuleID != nil || filter.ComponentID != nil {
		summaryItems, err = s.repo.WorkItem.ListFinished(ctx, repository.WorkItemFilter{From: &p.from, To: &p.to})
		if err != nil {
			s.logger.Error("list work items failed", zap.Error(err))
			return nil, pkgerrors.Storage("list work items", err)
		}
	}
	categories, err := s.repo.Stoppage.SummarizeByCategory(ctx, repository.StoppageFilter{From: p.from, To: p.to})
	if err != nil {
		s.logger.Error("summarize stoppages failed", zap.Error(err))
		return nil, pkgerrors.Storage("summarize stoppages", err)
	}
	summary := s.summarize(summaryItems)
	summary.StoppagesByCategory = categories
	if summary.StoppagesByCategory == nil {
		summary.StoppagesByCategory = []repository.CategoryTotal{}
	}

	return &dto.Report{
		From:    p.fromDate.Format(dateLayout),
		To:      p.toDate.Format(dateLayout),
		Items:   toReportItems(items),
		Workers: workers,
		Summary: summary,
	}, nil
}

func (s *reportService) summarize(items []model.WorkItemEvent) dto.ReportSummary {
	var sum dto.ReportSummary
	workers := make(map[uint]struct{})
	modules := make(map[uint]struct{})
	days := make(map[string]struct{})
	var efficiency float64
	var withEfficiency int

	for i := range items {
		item := &items[i]
		workers[item.WorkerID] = struct{}{}
		modules[item.ModuleID] = struct{}{}
		days[item.StartedAt.In(s.loc).Format(dateLayout)] = struct{}{}
		sum.TotalStandard += item.StandardTime
		if item.ActualTime != nil {
			sum.TotalActual += *item.ActualTime
		}
		if item.Efficiency != nil {
			efficiency += *item.Efficiency
			withEfficiency++
		}
	}

	sum.Workers = len(workers)
	sum.Items = len(items)
	sum.Modules = len(modules)
	sum.ProductionDays = len(days)
	sum.TotalActual = round2(sum.TotalActual)
	sum.TotalStandard = round2(sum.TotalStandard)
	if withEfficiency > 0 {
		sum.AverageEfficiency = round2(efficiency / float64(withEfficiency))
	}
	return sum
}

// ═══════════════════════════════════════════════════════════
// Ranking, trend, dashboard
// ═══════════════════════════════════════════════════════════

func (s *reportService) TopWorkers(ctx context.Context, from, to time.Time, limit int) ([]dto.WorkerOEE, error) {
	if limit <= 0 {
		limit = defaultTopWorkers
	}
	report, err := s.GenerateReport(ctx, dto.ReportFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	return rankByOEE(report.Workers, limit), nil
}

// rankByOEE stable sort by OEE descending, truncated to limit
func rankByOEE(workers []dto.WorkerOEE, limit int) []dto.WorkerOEE {
	ranked := make([]dto.WorkerOEE, len(workers))
	copy(ranked, workers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OEE > ranked[j].OEE
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (s *reportService) DailyTrend(ctx context.Context, today time.Time, days int, workerID *uint) ([]dto.DailyPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}
	last := calendarDate(today, s.loc)
	first := last.AddDate(0, 0, -(days - 1))
	p := s.period(first, last)

	items, err := s.repo.WorkItem.ListFinished(ctx, repository.WorkItemFilter{
		WorkerID: workerID,
		From:     &p.from,
		To:       &p.to,
	})
	if err != nil {
		s.logger.Error("list work items failed", zap.Error(err))
		return nil, pkgerrors.Storage("list work items", err)
	}

	type bucket struct {
		items      int
		efficiency float64
		actual     float64
	}
	buckets := make(map[string]*bucket, days)
	for i := range items {
		key := items[i].StartedAt.In(s.loc).Format(dateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.items++
		if items[i].Efficiency != nil {
			b.efficiency += *items[i].Efficiency
		}
		if items[i].ActualTime != nil {
			b.actual += *items[i].ActualTime
		}
	}

	points := make([]dto.DailyPoint, 0, days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		point := dto.DailyPoint{Date: key}
		if b, ok := buckets[key]; ok {
			point.Items = b.items
			point.AverageEfficiency = round2(b.efficiency / float64(b.items))
			point.TotalActual = round2(b.actual)
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *reportService) Dashboard(ctx context.Context, now time.Time) (*dto.Dashboard, error) {
	today := calendarDate(now, s.loc)
	p := s.period(today, today)
	board := &dto.Dashboard{Date: today.Format(dateLayout)}

	var err error
	if board.ActiveWorkers, err = s.repo.Worker.CountActive(ctx); err != nil {
		return nil, s.storage("count active workers", err)
	}
	if board.WorkItems, err = s.repo.WorkItem.CountStarted(ctx, p.from, p.to); err != nil {
		return nil, s.storage("count work items", err)
	}
	if board.Stoppages, err = s.repo.Stoppage.CountFinished(ctx, repository.StoppageFilter{From: p.from, To: p.to}); err != nil {
		return nil, s.storage("count stoppages", err)
	}
	if board.Shifts, err = s.repo.Shift.CountByDate(ctx, today); err != nil {
		return nil, s.storage("count shifts", err)
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if board.TopWorkers, err = s.TopWorkers(ctx, monthStart, today, defaultTopWorkers); err != nil {
		return nil, err
	}

	recent, err := s.repo.WorkItem.ListFinished(ctx, repository.WorkItemFilter{Limit: recentItems})
	if err != nil {
		return nil, s.storage("list recent work items", err)
	}
	board.Recent = toReportItems(recent)
	return board, nil
}

func (s *reportService) storage(op string, err error) error {
	s.logger.Error(op+" failed", zap.Error(err))
	return pkgerrors.Storage(op, err)
}

// ── helpers ──

func workerName(item *model.WorkItemEvent) string {
	if item.Worker != nil {
		return item.Worker.DisplayName()
	}
	return ""
}

func toReportItems(items []model.WorkItemEvent) []dto.ReportItem {
	out := make([]dto.ReportItem, 0, len(items))
	for i := range items {
		item := &items[i]
		row := dto.ReportItem{
			ID:           item.ID,
			WorkerID:     item.WorkerID,
			WorkerName:   workerName(item),
			PostNumber:   item.PostNumber,
			StartedAt:    item.StartedAt,
			StandardTime: item.StandardTime,
		}
		if item.Module != nil {
			row.ModuleName = item.Module.Name
		}
		if item.Component != nil {
			row.ComponentName = item.Component.Name
		}
		if item.Order != nil {
			row.OrderNumber = item.Order.Number
		}
		if item.EndedAt != nil {
			row.EndedAt = *item.EndedAt
		}
		if item.ActualTime != nil {
			row.ActualTime = round2(*item.ActualTime)
		}
		if item.Efficiency != nil {
			row.Efficiency = round2(*item.Efficiency)
		}
		out = append(out, row)
	}
	return out
}
