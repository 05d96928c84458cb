package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// ErrShiftNotActive the session's shift is missing, closed or not owned
var ErrShiftNotActive = fmt.Errorf("%w: no active shift for this session", pkgerrors.ErrPreconditionFailed)

// tracker dependencies shared by the work-item and stoppage trackers
type tracker struct {
	repo   *repository.Repository
	locker WorkerLocker
	audit  AuditSink
	logger *zap.Logger
}

// activeShift loads the session shift and checks it is active and owned
// by the session worker
func (t *tracker) activeShift(ctx context.Context, txRepo *repository.Repository, sess dto.WorkerSession) (*model.Shift, error) {
	shift, err := txRepo.Shift.GetByID(ctx, sess.ShiftID)
	if err != nil {
		return nil, lookup(err, ErrShiftNotActive, "get shift")
	}
	if shift.WorkerID != sess.WorkerID || shift.Status != model.ShiftActive {
		return nil, ErrShiftNotActive
	}
	return shift, nil
}

// run serializes fn for the session worker and wraps it in one transaction
func (t *tracker) run(ctx context.Context, workerID uint, op string, fn func(txRepo *repository.Repository) error) error {
	unlock, err := t.locker.Lock(ctx, workerID)
	if err != nil {
		return err
	}
	defer unlock()

	err = classify(op, t.repo.Transaction(ctx, fn))
	if pkgerrors.IsStorage(err) {
		t.logger.Error(op+" failed", zap.Uint("worker_id", workerID), zap.Error(err))
	}
	return err
}
