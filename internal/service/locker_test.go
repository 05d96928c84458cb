package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWorkerLocker_SameWorkerWaits(t *testing.T) {
	l := NewWorkerLocker(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	if _, err := l.Lock(ctx, 1); !errors.Is(err, ErrWorkerBusy) {
		t.Errorf("expected ErrWorkerBusy while held, got %v", err)
	}

	other, err := l.Lock(ctx, 2)
	if err != nil {
		t.Fatalf("expected another worker to lock freely, got %v", err)
	}
	other()

	unlock()
	unlock() // second call is a no-op

	again, err := l.Lock(ctx, 1)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	again()

	if n := len(l.(*keyedLocker).entries); n != 0 {
		t.Errorf("expected idle entries to be dropped, got %d", n)
	}
}

func TestWorkerLocker_HandsOver(t *testing.T) {
	l := NewWorkerLocker(time.Second)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 7)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, 7)
		if err != nil {
			t.Errorf("waiter: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("waiter acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired
}

func TestWorkerLocker_ContextCancelled(t *testing.T) {
	l := NewWorkerLocker(0)
	unlock, _ := l.Lock(context.Background(), 1)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Lock(ctx, 1); !errors.Is(err, ErrWorkerBusy) {
		t.Errorf("expected ErrWorkerBusy, got %v", err)
	}
}

// fakeDistLock in-memory stand-in for the Redis lock
type fakeDistLock struct {
	mu      sync.Mutex
	held    map[string]string
	failErr error
}

func newFakeDistLock() *fakeDistLock {
	return &fakeDistLock{held: make(map[string]string)}
}

func (f *fakeDistLock) TryLock(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return false, f.failErr
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = token
	return true, nil
}

func (f *fakeDistLock) Unlock(_ context.Context, key, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] == token {
		delete(f.held, key)
	}
	return nil
}

func TestDistributedWorkerLocker(t *testing.T) {
	dist := newFakeDistLock()
	l := NewDistributedWorkerLocker(NewWorkerLocker(100*time.Millisecond), dist, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 3)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if dist.held["3"] == "" {
		t.Fatal("expected shared lock to be held")
	}
	unlock()
	if len(dist.held) != 0 {
		t.Errorf("expected shared lock released, got %v", dist.held)
	}

	// another instance holds the key
	dist.held["3"] = "someone-else"
	if _, err := l.Lock(ctx, 3); !errors.Is(err, ErrWorkerBusy) {
		t.Errorf("expected ErrWorkerBusy, got %v", err)
	}
	delete(dist.held, "3")

	// shared lock down: the local lock still serializes this instance
	dist.failErr = errors.New("connection refused")
	degraded, err := l.Lock(ctx, 3)
	if err != nil {
		t.Fatalf("expected local fallback, got %v", err)
	}
	if _, err := l.Lock(ctx, 3); !errors.Is(err, ErrWorkerBusy) {
		t.Errorf("expected ErrWorkerBusy while local lock held, got %v", err)
	}
	degraded()
	dist.failErr = nil

	// the local slot must have been released on every failure path
	unlock, err = l.Lock(ctx, 3)
	if err != nil {
		t.Fatalf("expected lock after failures, got %v", err)
	}
	unlock()
}
