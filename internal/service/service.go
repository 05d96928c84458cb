package service

import (
	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/repository"
	"weld-oee/backend/pkg/jwt"
)

// Service aggregate entry for every service
type Service struct {
	Auth     AuthService
	Shift    ShiftService
	WorkItem WorkItemService
	Stoppage StoppageService
	Sync     SyncService
	Report   ReportService
	Export   ExportService
	Catalog  CatalogService
	Defect   DefectService
	User     UserService
}

// NewService wires the services. locker serializes per-worker commands;
// blacklist may be nil when Redis is disabled.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	locker WorkerLocker,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) (*Service, error) {
	audit := NewAuditSink(repo.Audit, logger)

	shifts := NewShiftService(&cfg.Tracking, repo, locker, audit, logger)
	workItems := NewWorkItemService(repo, locker, audit, logger)
	stoppages := NewStoppageService(repo, locker, audit, logger)
	sync, err := NewSyncService(&cfg.Tracking, workItems, stoppages, logger)
	if err != nil {
		return nil, err
	}
	reports := NewReportService(&cfg.Tracking, repo, logger)

	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, shifts, blacklist, audit, logger),
		Shift:    shifts,
		WorkItem: workItems,
		Stoppage: stoppages,
		Sync:     sync,
		Report:   reports,
		Export:   NewExportService(&cfg.Tracking, reports, repo, logger),
		Catalog:  NewCatalogService(repo, audit, logger),
		Defect:   NewDefectService(repo, audit, logger),
		User:     NewUserService(repo, logger),
	}, nil
}
