package handler

import "weld-oee/backend/internal/service"

// Handler aggregate entry for every handler
type Handler struct {
	Auth     *AuthHandler
	Shift    *ShiftHandler
	Tracking *TrackingHandler
	Sync     *SyncHandler
	Catalog  *CatalogHandler
	Defect   *DefectHandler
	Report   *ReportHandler
	Export   *ExportHandler
	User     *UserHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Shift:    NewShiftHandler(svc.Shift),
		Tracking: NewTrackingHandler(svc.WorkItem, svc.Stoppage),
		Sync:     NewSyncHandler(svc.Sync),
		Catalog:  NewCatalogHandler(svc.Catalog),
		Defect:   NewDefectHandler(svc.Defect),
		Report:   NewReportHandler(svc.Report),
		Export:   NewExportHandler(svc.Export),
		User:     NewUserHandler(svc.User),
	}
}
