package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
	pkgerrors "weld-oee/backend/pkg/errors"
)

// StoppageService stoppage tracker. An open stoppage may coexist with an
// open work item.
type StoppageService interface {
	Start(ctx context.Context, sess dto.WorkerSession, req *dto.StartStoppageRequest, now time.Time) (*dto.StartStoppageResult, error)
	Finish(ctx context.Context, sess dto.WorkerSession, stoppageID uint, now time.Time) (*dto.FinishStoppageResult, error)
}

type stoppageService struct {
	tracker
}

// NewStoppageService creates a StoppageService
func NewStoppageService(
	repo *repository.Repository,
	locker WorkerLocker,
	audit AuditSink,
	logger *zap.Logger,
) StoppageService {
	return &stoppageService{
		tracker: tracker{repo: repo, locker: locker, audit: audit, logger: logger},
	}
}

// ═══════════════════════════════════════════════════════════
// Start
// ═══════════════════════════════════════════════════════════

func (s *stoppageService) Start(ctx context.Context, sess dto.WorkerSession, req *dto.StartStoppageRequest, now time.Time) (*dto.StartStoppageResult, error) {
	now = normalize(now)

	var (
		event *model.StoppageEvent
		st    *model.StoppageType
	)
	err := s.run(ctx, sess.WorkerID, "start stoppage", func(txRepo *repository.Repository) error {
		shift, err := s.activeShift(ctx, txRepo, sess)
		if err != nil {
			return err
		}

		if _, err := txRepo.Stoppage.GetOpenByWorker(ctx, sess.WorkerID); err == nil {
			return pkgerrors.ErrConflictActiveStoppage
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage("get open stoppage", err)
		}

		st, err = txRepo.Catalog.GetStoppageType(ctx, req.StoppageTypeID)
		if err != nil {
			return lookup(err, notFoundf("stoppage type %d", req.StoppageTypeID), "get stoppage type")
		}
		if !st.IsActive {
			return notFoundf("stoppage type %d", req.StoppageTypeID)
		}

		event = &model.StoppageEvent{
			WorkerID:       sess.WorkerID,
			ShiftID:        shift.ID,
			StoppageTypeID: st.ID,
			StartedAt:      now,
			Reason:         strings.TrimSpace(req.Reason),
		}
		if err := txRepo.Stoppage.Create(ctx, event); err != nil {
			if repository.IsDuplicateKey(err) {
				return pkgerrors.ErrConflictActiveStoppage
			}
			return pkgerrors.Storage("create stoppage", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, sessionAudit(sess, ActionStoppageStart, event.TableName(), event.ID, nil, event))
	return &dto.StartStoppageResult{
		StoppageID: event.ID,
		TypeName:   st.Name,
		Category:   st.Category,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Finish
// ═══════════════════════════════════════════════════════════

func (s *stoppageService) Finish(ctx context.Context, sess dto.WorkerSession, stoppageID uint, now time.Time) (*dto.FinishStoppageResult, error) {
	now = normalize(now)

	var before, after model.StoppageEvent
	err := s.run(ctx, sess.WorkerID, "finish stoppage", func(txRepo *repository.Repository) error {
		event, err := txRepo.Stoppage.GetOpenByIDAndWorker(ctx, stoppageID, sess.WorkerID)
		if err != nil {
			return lookup(err, notFoundf("open stoppage %d", stoppageID), "get stoppage")
		}

		// offline clocks can run behind the recorded start
		seconds := int64(now.Sub(event.StartedAt) / time.Second)
		if seconds < 0 {
			return pkgerrors.ErrConflictInvalidDuration
		}
		duration := float64(seconds) / 60

		rows, err := txRepo.Stoppage.Finish(ctx, event.ID, now, duration)
		if err != nil {
			return pkgerrors.Storage("finish stoppage", err)
		}
		if rows == 0 {
			return notFoundf("open stoppage %d", stoppageID)
		}

		before = *event
		after = *event
		after.EndedAt = &now
		after.DurationMinutes = &duration
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Append(ctx, sessionAudit(sess, ActionStoppageFinish, after.TableName(), after.ID, &before, &after))
	return &dto.FinishStoppageResult{
		StoppageID:      after.ID,
		DurationMinutes: round2(*after.DurationMinutes),
	}, nil
}
