package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"weld-oee/backend/internal/dto"
)

func newTestSync(t *testing.T, f *trackerFixture) SyncService {
	t.Helper()
	svc, err := NewSyncService(testTrackingConfig(), f.workItems, f.stoppages, zap.NewNop())
	if err != nil {
		t.Fatalf("new sync service: %v", err)
	}
	return svc
}

func syncItem(id, typ string, at *time.Time, data string) dto.SyncItem {
	return dto.SyncItem{ID: id, Type: typ, OccurredAt: at, Data: json.RawMessage(data)}
}

func TestSync_ContinuesPastFailures(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newTestSync(t, f)

	at := t0.Add(time.Hour)
	items := []dto.SyncItem{
		syncItem("a", dto.SyncStartStoppage, &at, fmt.Sprintf(`{"stoppage_type_id": %d}`, f.maintenance.ID)),
		syncItem("b", dto.SyncFinishStoppage, &at, `{"stoppage_id": 9999}`),
		syncItem("c", dto.SyncStartWorkItem, &at, fmt.Sprintf(`{"module_id": %d, "component_id": %d, "order_number": "OP-7"}`, f.module.ID, f.component.ID)),
	}

	res, err := svc.Process(f.ctx, f.session, items, t0.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Processed != 2 || res.Failed != 1 {
		t.Fatalf("expected 2 processed and 1 failed, got %d/%d", res.Processed, res.Failed)
	}
	if res.Errors[0].ID != "b" {
		t.Errorf("expected failure for item b, got %s", res.Errors[0].ID)
	}

	actions := f.store.auditActions()
	if countAction(actions, ActionStoppageStart+offlineSuffix) != 1 {
		t.Errorf("expected offline stoppage start entry, got %v", actions)
	}
	if countAction(actions, ActionWorkItemStart+offlineSuffix) != 1 {
		t.Errorf("expected offline work item start entry, got %v", actions)
	}
}

func TestSync_ReplaysRecordedTimes(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newTestSync(t, f)

	start := t0.Add(time.Hour)
	res, err := svc.Process(f.ctx, f.session, []dto.SyncItem{
		syncItem("1", dto.SyncStartWorkItem, &start, fmt.Sprintf(`{"module_id": %d, "component_id": %d, "order_number": "OP-7"}`, f.module.ID, f.component.ID)),
	}, t0.Add(3*time.Hour))
	if err != nil || res.Processed != 1 {
		t.Fatalf("expected start replayed, got %+v, %v", res, err)
	}

	status, _ := f.workItems.ActiveStatus(f.ctx, f.worker.ID)
	if status.WorkItem == nil || !status.WorkItem.StartedAt.Equal(start) {
		t.Fatalf("expected open item started at %v, got %+v", start, status.WorkItem)
	}

	end := start.Add(20 * time.Minute)
	res, err = svc.Process(f.ctx, f.session, []dto.SyncItem{
		syncItem("2", dto.SyncFinishWorkItem, &end, fmt.Sprintf(`{"event_id": %d}`, status.WorkItem.EventID)),
	}, t0.Add(3*time.Hour))
	if err != nil || res.Processed != 1 {
		t.Fatalf("expected finish replayed, got %+v, %v", res, err)
	}

	row := f.store.workItem(status.WorkItem.EventID)
	if *row.ActualTime != 20 {
		t.Errorf("expected actual time 20, got %v", *row.ActualTime)
	}
}

func TestSync_RejectsBadItems(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newTestSync(t, f)

	tests := []struct {
		name string
		item dto.SyncItem
		want string
	}{
		{"unknown type", syncItem("x", "reboot_machine", nil, `{}`), "unknown item type"},
		{"missing field", syncItem("x", dto.SyncStartWorkItem, nil, `{"module_id": 1, "component_id": 1}`), "invalid input"},
		{"wrong type", syncItem("x", dto.SyncFinishWorkItem, nil, `{"event_id": "seven"}`), "invalid input"},
		{"no data", syncItem("x", dto.SyncFinishStoppage, nil, ``), "missing data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Process(f.ctx, f.session, []dto.SyncItem{tt.item}, t0)
			if err != nil {
				t.Fatalf("unexpected batch error: %v", err)
			}
			if res.Failed != 1 || res.Processed != 0 {
				t.Fatalf("expected 1 failure, got %+v", res)
			}
			if !strings.Contains(res.Errors[0].Message, tt.want) {
				t.Errorf("expected message containing %q, got %q", tt.want, res.Errors[0].Message)
			}
		})
	}
}

func TestSync_BatchLimit(t *testing.T) {
	f := newTrackerFixture(t)
	svc := newTestSync(t, f)

	items := make([]dto.SyncItem, 11)
	for i := range items {
		items[i] = syncItem(fmt.Sprint(i), dto.SyncFinishStoppage, nil, `{"stoppage_id": 1}`)
	}
	_, err := svc.Process(f.ctx, f.session, items, t0)
	if !errors.Is(err, ErrBatchTooLarge) || !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrBatchTooLarge, got %v", err)
	}

	res, err := svc.Process(f.ctx, f.session, nil, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Processed != 0 || res.Errors == nil {
		t.Errorf("expected empty result with non-nil errors, got %+v", res)
	}
}
