package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// DefectService quality inspection
type DefectService interface {
	// Record stores a defect against a finished work item
	Record(ctx context.Context, inspectorID uint, req *dto.RecordDefectRequest, now time.Time) (*model.Defect, error)
}

type defectService struct {
	repo   *repository.Repository
	audit  AuditSink
	logger *zap.Logger
}

// NewDefectService creates a DefectService
func NewDefectService(repo *repository.Repository, audit AuditSink, logger *zap.Logger) DefectService {
	return &defectService{repo: repo, audit: audit, logger: logger}
}

func (s *defectService) Record(ctx context.Context, inspectorID uint, req *dto.RecordDefectRequest, now time.Time) (*model.Defect, error) {
	if req.DefectArea <= 0 {
		return nil, fmt.Errorf("%w: defect area must be positive", ErrInvalidInput)
	}

	event, err := s.repo.WorkItem.GetByID(ctx, req.WorkItemEventID)
	if err != nil {
		return nil, lookup(err, notFoundf("work item %d", req.WorkItemEventID), "get work item")
	}
	if event.IsOpen() {
		return nil, notFoundf("finished work item %d", req.WorkItemEventID)
	}

	defect := &model.Defect{
		WorkItemEventID: event.ID,
		DefectArea:      req.DefectArea,
		Description:     strings.TrimSpace(req.Description),
		InspectorID:     &inspectorID,
		CreatedAt:       normalize(now),
	}
	if err := s.repo.Defect.Create(ctx, defect); err != nil {
		s.logger.Error("create defect failed", zap.Uint("work_item_id", event.ID), zap.Error(err))
		return nil, pkgerrors.Storage("create defect", err)
	}

	s.audit.Append(ctx, AuditRecord{
		ActorID:  &inspectorID,
		Action:   ActionDefectRecord,
		Table:    defect.TableName(),
		RecordID: defect.ID,
		After:    defect,
		Origin:   model.OriginOnline,
	})
	return defect, nil
}
