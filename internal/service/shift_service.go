package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// ── Shift errors ──

var (
	ErrWorkerInactive     = fmt.Errorf("%w: worker is inactive", pkgerrors.ErrPreconditionFailed)
	ErrShiftAlreadyClosed = fmt.Errorf("%w: shift already closed", pkgerrors.ErrPreconditionFailed)
	ErrShiftHasOpenWork   = fmt.Errorf("%w: finish the open work item or stoppage first", pkgerrors.ErrPreconditionFailed)
)

// ShiftService shift lifecycle
type ShiftService interface {
	// Open returns today's active shift for the worker, creating it when
	// needed. An active shift left over from an earlier day is closed first.
	Open(ctx context.Context, workerID uint, now time.Time, meta dto.RequestMeta) (*model.Shift, error)
	// Close finishes the session's shift. Open work items or stoppages
	// block the close.
	Close(ctx context.Context, sess dto.WorkerSession, shiftID uint, now time.Time) (*model.Shift, error)
}

type shiftService struct {
	tracker
	cfg *config.TrackingConfig
	loc *time.Location
}

// NewShiftService creates a ShiftService
func NewShiftService(
	cfg *config.TrackingConfig,
	repo *repository.Repository,
	locker WorkerLocker,
	audit AuditSink,
	logger *zap.Logger,
) ShiftService {
	return &shiftService{
		tracker: tracker{repo: repo, locker: locker, audit: audit, logger: logger},
		cfg:     cfg,
		loc:     cfg.Location(),
	}
}

// ═══════════════════════════════════════════════════════════
// Open
// ═══════════════════════════════════════════════════════════

func (s *shiftService) Open(ctx context.Context, workerID uint, now time.Time, meta dto.RequestMeta) (*model.Shift, error) {
	now = normalize(now)
	today := calendarDate(now, s.loc)

	var (
		shift   *model.Shift
		stale   *model.Shift
		created bool
		actorID uint
	)
	err := s.run(ctx, workerID, "open shift", func(txRepo *repository.Repository) error {
		worker, err := txRepo.Worker.GetByID(ctx, workerID)
		if err != nil {
			return lookup(err, notFoundf("worker %d", workerID), "get worker")
		}
		if !worker.IsActive {
			return ErrWorkerInactive
		}
		actorID = worker.UserID

		active, err := txRepo.Shift.GetActiveByWorker(ctx, workerID)
		switch {
		case err == nil && sameDate(active.ShiftDate, today):
			shift = active
			return nil
		case err == nil:
			if _, err := txRepo.Shift.Finish(ctx, active.ID, now); err != nil {
				return pkgerrors.Storage("close stale shift", err)
			}
			stale = active
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Storage("get active shift", err)
		}

		shift = &model.Shift{
			WorkerID:       workerID,
			ShiftDate:      today,
			StartedAt:      now,
			AvailableHours: s.cfg.DefaultAvailableHours,
			Status:         model.ShiftActive,
		}
		if err := txRepo.Shift.Create(ctx, shift); err != nil {
			if repository.IsDuplicateKey(err) {
				return fmt.Errorf("%w: shift opened concurrently", pkgerrors.ErrPreconditionFailed)
			}
			return pkgerrors.Storage("create shift", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stale != nil {
		after := *stale
		after.EndedAt = &now
		after.Status = model.ShiftFinished
		s.logger.Info("stale shift closed",
			zap.Uint("shift_id", stale.ID),
			zap.Uint("worker_id", workerID),
			zap.Time("shift_date", stale.ShiftDate),
		)
		s.audit.Append(ctx, AuditRecord{
			Action:   ActionShiftAutoClose,
			Table:    stale.TableName(),
			RecordID: stale.ID,
			Before:   stale,
			After:    &after,
			Origin:   model.OriginSystem,
		})
	}
	if created {
		s.audit.Append(ctx, AuditRecord{
			ActorID:   &actorID,
			Action:    ActionShiftOpen,
			Table:     shift.TableName(),
			RecordID:  shift.ID,
			After:     shift,
			Origin:    model.OriginOnline,
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
		})
	}
	return shift, nil
}

// ═══════════════════════════════════════════════════════════
// Close
// ═══════════════════════════════════════════════════════════

func (s *shiftService) Close(ctx context.Context, sess dto.WorkerSession, shiftID uint, now time.Time) (*model.Shift, error) {
	now = normalize(now)

	var before, after model.Shift
	err := s.run(ctx, sess.WorkerID, "close shift", func(txRepo *repository.Repository) error {
		shift, err := txRepo.Shift.GetByID(ctx, shiftID)
		if err != nil {
			return lookup(err, notFoundf("shift %d", shiftID), "get shift")
		}
		if shift.WorkerID != sess.WorkerID {
			return notFoundf("shift %d", shiftID)
		}
		if shift.Status != model.ShiftActive {
			return ErrShiftAlreadyClosed
		}

		if _, err := txRepo.WorkItem.GetOpenByWorker(ctx, sess.WorkerID); err == nil {
			return ErrShiftHasOpenWork
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage("get open work item", err)
		}
		if _, err := txRepo.Stoppage.GetOpenByWorker(ctx, sess.WorkerID); err == nil {
			return ErrShiftHasOpenWork
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage("get open stoppage", err)
		}

		rows, err := txRepo.Shift.Finish(ctx, shift.ID, now)
		if err != nil {
			return pkgerrors.Storage("finish shift", err)
		}
		if rows == 0 {
			return ErrShiftAlreadyClosed
		}

		before = *shift
		after = *shift
		after.EndedAt = &now
		after.Status = model.ShiftFinished
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, sessionAudit(sess, ActionShiftClose, after.TableName(), after.ID, &before, &after))
	return &after, nil
}
