package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkerLocker serializes mutating commands of one worker. Commands for
// different workers never wait on each other.
type WorkerLocker interface {
	Lock(ctx context.Context, workerID uint) (unlock func(), err error)
}

// ── In-process keyed mutex ──

type lockEntry struct {
	slot chan struct{}
	refs int
}

type keyedLocker struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
	timeout time.Duration
}

// NewWorkerLocker creates an in-process locker. A positive timeout bounds
// how long Lock waits before failing with ErrWorkerBusy.
func NewWorkerLocker(timeout time.Duration) WorkerLocker {
	return &keyedLocker{
		entries: make(map[uint]*lockEntry),
		timeout: timeout,
	}
}

func (l *keyedLocker) Lock(ctx context.Context, workerID uint) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[workerID]
	if !ok {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[workerID] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	select {
	case e.slot <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.slot
				l.release(workerID, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(workerID, e)
		return nil, fmt.Errorf("%w: %v", ErrWorkerBusy, ctx.Err())
	}
}

func (l *keyedLocker) release(workerID uint, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, workerID)
	}
	l.mu.Unlock()
}

// ── Redis-backed locker for multi-instance deployments ──

// DistributedLock is satisfied by pkg/redis.Client
type DistributedLock interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

const (
	lockLease     = 30 * time.Second
	lockRetryWait = 25 * time.Millisecond
)

type distributedLocker struct {
	local   WorkerLocker
	dist    DistributedLock
	timeout time.Duration
	logger  *zap.Logger
}

// NewDistributedWorkerLocker layers a shared lock over the in-process one,
// so only one goroutine per instance ever polls the shared lock.
func NewDistributedWorkerLocker(local WorkerLocker, dist DistributedLock, timeout time.Duration, logger *zap.Logger) WorkerLocker {
	return &distributedLocker{local: local, dist: dist, timeout: timeout, logger: logger}
}

func (l *distributedLocker) Lock(ctx context.Context, workerID uint) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	key := strconv.FormatUint(uint64(workerID), 10)
	token := uuid.NewString()
	for {
		ok, err := l.dist.TryLock(ctx, key, token, lockLease)
		if err != nil {
			// shared lock unreachable: fall back to this instance's lock
			l.logger.Warn("worker lock unavailable, using local lock only",
				zap.Uint("worker_id", workerID), zap.Error(err))
			return unlockLocal, nil
		}
		if ok {
			break
		}
		timer := time.NewTimer(lockRetryWait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			unlockLocal()
			return nil, fmt.Errorf("%w: %v", ErrWorkerBusy, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := l.dist.Unlock(context.Background(), key, token); err != nil {
				l.logger.Warn("release worker lock failed", zap.Uint("worker_id", workerID), zap.Error(err))
			}
			unlockLocal()
		})
	}, nil
}
