package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
	"weld-oee/backend/pkg/formula"
)

// WorkItemService work-item tracker
type WorkItemService interface {
	Start(ctx context.Context, sess dto.WorkerSession, req *dto.StartWorkItemRequest, now time.Time) (*dto.StartWorkItemResult, error)
	Finish(ctx context.Context, sess dto.WorkerSession, eventID uint, now time.Time) (*dto.FinishWorkItemResult, error)
	// ActiveStatus open work item and stoppage of the worker, if any
	ActiveStatus(ctx context.Context, workerID uint) (*dto.ActiveStatus, error)
}

type workItemService struct {
	tracker
}

// NewWorkItemService creates a WorkItemService
func NewWorkItemService(
	repo *repository.Repository,
	locker WorkerLocker,
	audit AuditSink,
	logger *zap.Logger,
) WorkItemService {
	return &workItemService{
		tracker: tracker{repo: repo, locker: locker, audit: audit, logger: logger},
	}
}

// ═══════════════════════════════════════════════════════════
// Start
// ═══════════════════════════════════════════════════════════

func (s *workItemService) Start(ctx context.Context, sess dto.WorkerSession, req *dto.StartWorkItemRequest, now time.Time) (*dto.StartWorkItemResult, error) {
	now = normalize(now)
	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrInvalidInput)
	}

	var (
		event     *model.WorkItemEvent
		component *model.Component
	)
	err := s.run(ctx, sess.WorkerID, "start work item", func(txRepo *repository.Repository) error {
		shift, err := s.activeShift(ctx, txRepo, sess)
		if err != nil {
			return err
		}

		if _, err := txRepo.WorkItem.GetOpenByWorker(ctx, sess.WorkerID); err == nil {
			return pkgerrors.ErrConflictActiveWorkItem
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage("get open work item", err)
		}

		module, err := txRepo.Catalog.GetModule(ctx, req.ModuleID)
		if err != nil {
			return lookup(err, notFoundf("module %d", req.ModuleID), "get module")
		}
		if !module.IsActive {
			return notFoundf("module %d", req.ModuleID)
		}
		component, err = txRepo.Catalog.GetComponent(ctx, req.ComponentID)
		if err != nil {
			return lookup(err, notFoundf("component %d", req.ComponentID), "get component")
		}
		if !component.IsActive {
			return notFoundf("component %d", req.ComponentID)
		}

		order, err := txRepo.Order.Resolve(ctx, orderNumber)
		if err != nil {
			return pkgerrors.Storage("resolve order", err)
		}

		event = &model.WorkItemEvent{
			WorkerID:     sess.WorkerID,
			ModuleID:     module.ID,
			ComponentID:  component.ID,
			OrderID:      order.ID,
			ShiftID:      shift.ID,
			PostNumber:   strings.TrimSpace(req.PostNumber),
			Diameter:     req.ExtraParam,
			StartedAt:    now,
			StandardTime: s.standardTime(component, req.ExtraParam),
		}
		if err := txRepo.WorkItem.Create(ctx, event); err != nil {
			if repository.IsDuplicateKey(err) {
				return pkgerrors.ErrConflictActiveWorkItem
			}
			return pkgerrors.Storage("create work item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, sessionAudit(sess, ActionWorkItemStart, event.TableName(), event.ID, nil, event))
	return &dto.StartWorkItemResult{
		EventID:       event.ID,
		StandardTime:  event.StandardTime,
		ComponentName: component.Name,
	}, nil
}

// standardTime evaluates the component formula when one is declared and a
// size was supplied. Any evaluation failure falls back to the base time.
func (s *workItemService) standardTime(component *model.Component, size *float64) float64 {
	if component.Formula == "" || size == nil {
		return component.StandardTime
	}
	v, err := formula.Evaluate(component.Formula, *size)
	if err != nil {
		s.logger.Warn("formula evaluation failed, using base standard time",
			zap.Uint("component_id", component.ID),
			zap.String("formula", component.Formula),
			zap.Float64("value", *size),
			zap.Error(err),
		)
		return component.StandardTime
	}
	return v
}

// ═══════════════════════════════════════════════════════════
// Finish
// ═══════════════════════════════════════════════════════════

func (s *workItemService) Finish(ctx context.Context, sess dto.WorkerSession, eventID uint, now time.Time) (*dto.FinishWorkItemResult, error) {
	now = normalize(now)

	var before, after model.WorkItemEvent
	err := s.run(ctx, sess.WorkerID, "finish work item", func(txRepo *repository.Repository) error {
		event, err := txRepo.WorkItem.GetOpenByIDAndWorker(ctx, eventID, sess.WorkerID)
		if err != nil {
			return lookup(err, notFoundf("open work item %d", eventID), "get work item")
		}

		seconds := int64(now.Sub(event.StartedAt) / time.Second)
		actual := float64(seconds) / 60
		if actual <= 0 {
			return pkgerrors.ErrConflictInvalidDuration
		}
		efficiency := event.StandardTime / actual * 100

		rows, err := txRepo.WorkItem.Finish(ctx, event.ID, now, actual, efficiency)
		if err != nil {
			return pkgerrors.Storage("finish work item", err)
		}
		if rows == 0 {
			return notFoundf("open work item %d", eventID)
		}

		before = *event
		after = *event
		after.EndedAt = &now
		after.ActualTime = &actual
		after.Efficiency = &efficiency
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, sessionAudit(sess, ActionWorkItemFinish, after.TableName(), after.ID, &before, &after))
	return &dto.FinishWorkItemResult{
		EventID:    after.ID,
		ActualTime: round2(*after.ActualTime),
		Efficiency: round2(*after.Efficiency),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ActiveStatus
// ═══════════════════════════════════════════════════════════

func (s *workItemService) ActiveStatus(ctx context.Context, workerID uint) (*dto.ActiveStatus, error) {
	status := &dto.ActiveStatus{}

	event, err := s.repo.WorkItem.GetOpenByWorker(ctx, workerID)
	switch {
	case err == nil:
		item := &dto.ActiveWorkItem{
			EventID:      event.ID,
			StandardTime: event.StandardTime,
			StartedAt:    event.StartedAt,
		}
		if event.Module != nil {
			item.ModuleName = event.Module.Name
		}
		if event.Component != nil {
			item.ComponentName = event.Component.Name
		}
		status.WorkItem = item
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("get open work item failed", zap.Uint("worker_id", workerID), zap.Error(err))
		return nil, pkgerrors.Storage("get open work item", err)
	}

	stoppage, err := s.repo.Stoppage.GetOpenByWorker(ctx, workerID)
	switch {
	case err == nil:
		st := &dto.ActiveStoppage{StoppageID: stoppage.ID, StartedAt: stoppage.StartedAt}
		if stoppage.StoppageType != nil {
			st.TypeName = stoppage.StoppageType.Name
		}
		status.Stoppage = st
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("get open stoppage failed", zap.Uint("worker_id", workerID), zap.Error(err))
		return nil, pkgerrors.Storage("get open stoppage", err)
	}

	return status, nil
}
