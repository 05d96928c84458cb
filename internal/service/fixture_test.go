package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/config"
	"weld-oee/backend/internal/dto"
	"weld-oee/backend/internal/model"
	"weld-oee/backend/internal/repository"
)

// t0 Monday 2024-03-04 08:00 UTC
var t0 = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func testTrackingConfig() *config.TrackingConfig {
	return &config.TrackingConfig{
		Timezone:              "UTC",
		DefaultAvailableHours: 8,
		LockTimeout:           time.Second,
		MaxSyncBatch:          10,
	}
}

// trackerFixture one active worker with an open shift and a small catalog
type trackerFixture struct {
	ctx       context.Context
	repo      *repository.Repository
	store     *mockStore
	locker    WorkerLocker
	audit     AuditSink
	shifts    ShiftService
	workItems WorkItemService
	stoppages StoppageService

	worker      *model.Worker
	module      *model.Module
	component   *model.Component
	maintenance *model.StoppageType
	shift       *model.Shift
	session     dto.WorkerSession
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()
	return newTrackerFixtureWithLocker(t, NewWorkerLocker(time.Second))
}

func newTrackerFixtureWithLocker(t *testing.T, locker WorkerLocker) *trackerFixture {
	t.Helper()
	repo, store := newMockRepository()
	logger := zap.NewNop()
	audit := NewAuditSink(repo.Audit, logger)

	f := &trackerFixture{
		ctx:       context.Background(),
		repo:      repo,
		store:     store,
		locker:    locker,
		audit:     audit,
		shifts:    NewShiftService(testTrackingConfig(), repo, locker, audit, logger),
		workItems: NewWorkItemService(repo, locker, audit, logger),
		stoppages: NewStoppageService(repo, locker, audit, logger),
	}
	f.worker = store.addWorker("Ana Souza", "1234", true)
	f.module = store.addModule("Module A", true)
	f.component = store.addComponent("Flange", 10, "")
	f.maintenance = store.addStoppageType("Maintenance", "maintenance", true)

	shift, err := f.shifts.Open(f.ctx, f.worker.ID, t0, dto.RequestMeta{ClientIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}
	f.shift = shift
	f.session = dto.WorkerSession{
		UserID:   f.worker.UserID,
		WorkerID: f.worker.ID,
		ShiftID:  shift.ID,
		Origin:   model.OriginOnline,
	}
	return f
}

func (f *trackerFixture) startRequest() *dto.StartWorkItemRequest {
	return &dto.StartWorkItemRequest{
		ModuleID:    f.module.ID,
		ComponentID: f.component.ID,
		OrderNumber: "OP-100",
		PostNumber:  "P1",
	}
}

func (f *trackerFixture) mustStart(t *testing.T, at time.Time) *dto.StartWorkItemResult {
	t.Helper()
	res, err := f.workItems.Start(f.ctx, f.session, f.startRequest(), at)
	if err != nil {
		t.Fatalf("start work item: %v", err)
	}
	return res
}

func countAction(actions []string, action string) int {
	n := 0
	for _, a := range actions {
		if a == action {
			n++
		}
	}
	return n
}

func floatPtr(v float64) *float64 { return &v }

func uintPtr(v uint) *uint { return &v }
