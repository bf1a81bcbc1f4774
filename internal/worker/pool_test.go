package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(4)
	pool.Start()

	var count int64
	for i := 0; i < 20; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		})
	}

	errs := pool.Drain()
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
	if atomic.LoadInt64(&count) != 20 {
		t.Errorf("expected 20 tasks run, got %d", count)
	}
}

func TestPool_CollectsErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	for i := 0; i < 5; i++ {
		i := i
		pool.Submit(func(ctx context.Context) error {
			if i%2 == 0 {
				return fmt.Errorf("task %d failed", i)
			}
			return nil
		})
	}

	errs := pool.Drain()
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestPool_ShutdownCancelsTasks(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not cancel the in-flight task")
	}
}

func TestPool_MinimumOneWorker(t *testing.T) {
	pool := NewPool(0)
	if pool.workers != 1 {
		t.Errorf("expected at least 1 worker, got %d", pool.workers)
	}
}
