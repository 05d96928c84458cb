package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"weld-oee/backend/internal/dto"
	pkgerrors "weld-oee/backend/pkg/errors"
)

func TestStoppage_StartFinish(t *testing.T) {
	f := newTrackerFixture(t)

	started, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{
		StoppageTypeID: f.maintenance.ID,
		Reason:         " torch nozzle clogged ",
	}, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started.TypeName != "Maintenance" || started.Category != "maintenance" {
		t.Errorf("expected Maintenance/maintenance, got %s/%s", started.TypeName, started.Category)
	}

	finished, err := f.stoppages.Finish(f.ctx, f.session, started.StoppageID, t0.Add(15*time.Minute+20*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if finished.DurationMinutes != 15.33 {
		t.Errorf("expected 15.33 minutes, got %v", finished.DurationMinutes)
	}

	stored, _ := f.repo.Stoppage.GetByID(f.ctx, started.StoppageID)
	if stored.Reason != "torch nozzle clogged" {
		t.Errorf("expected trimmed reason, got %q", stored.Reason)
	}
	if stored.EndedAt == nil {
		t.Error("expected stoppage to be closed")
	}
}

func TestStoppage_CoexistsWithWorkItem(t *testing.T) {
	f := newTrackerFixture(t)
	f.mustStart(t, t0)

	if _, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{StoppageTypeID: f.maintenance.ID}, t0.Add(time.Minute)); err != nil {
		t.Fatalf("expected stoppage next to open work item, got %v", err)
	}

	_, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{StoppageTypeID: f.maintenance.ID}, t0.Add(2*time.Minute))
	if !errors.Is(err, pkgerrors.ErrConflictActiveStoppage) {
		t.Errorf("expected ErrConflictActiveStoppage, got %v", err)
	}
}

func TestStoppage_ConcurrentStartsOneWins(t *testing.T) {
	lockers := map[string]WorkerLocker{
		"keyed locker":  NewWorkerLocker(5 * time.Second),
		"storage guard": noopLocker{},
	}
	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			f := newTrackerFixtureWithLocker(t, locker)

			const n = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{StoppageTypeID: f.maintenance.ID}, t0)
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case errors.Is(err, pkgerrors.ErrConflictActiveStoppage):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			if successes != 1 {
				t.Errorf("expected exactly 1 success, got %d", successes)
			}
			if conflicts != n-1 {
				t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
			}
			if open := f.store.countOpenStoppages(f.worker.ID); open != 1 {
				t.Errorf("expected 1 open stoppage, got %d", open)
			}
		})
	}
}

func TestStoppage_UnknownType(t *testing.T) {
	f := newTrackerFixture(t)

	_, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{StoppageTypeID: 9999}, t0)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoppage_FinishDurations(t *testing.T) {
	f := newTrackerFixture(t)
	started, err := f.stoppages.Start(f.ctx, f.session, &dto.StartStoppageRequest{StoppageTypeID: f.maintenance.ID}, t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = f.stoppages.Finish(f.ctx, f.session, started.StoppageID, t0.Add(-time.Second))
	if !errors.Is(err, pkgerrors.ErrConflictInvalidDuration) {
		t.Errorf("expected ErrConflictInvalidDuration, got %v", err)
	}

	finished, err := f.stoppages.Finish(f.ctx, f.session, started.StoppageID, t0)
	if err != nil {
		t.Fatalf("expected zero-length stoppage to finish, got %v", err)
	}
	if finished.DurationMinutes != 0 {
		t.Errorf("expected 0 minutes, got %v", finished.DurationMinutes)
	}

	_, err = f.stoppages.Finish(f.ctx, f.session, started.StoppageID, t0.Add(time.Minute))
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second finish, got %v", err)
	}
}
