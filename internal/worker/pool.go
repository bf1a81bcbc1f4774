// Package worker provides the claim-processing worker pool and the
// per-domain rate limiter used for outbound evidence fetches.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of claim-processing work. Errors are collected, not
// fatal to the pool; claims are independent and may fail individually.
type Task func(ctx context.Context) error

// Pool runs a fixed number of workers over submitted tasks.
type Pool struct {
	workers   int
	tasks     chan Task
	errs      chan error
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a worker pool with the given parallelism.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, workers*2),
		errs:    make(chan error, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			err := task(p.ctx)
			select {
			case p.errs <- err:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task. Submissions after Shutdown are dropped.
func (p *Pool) Submit(task Task) {
	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Drain closes the queue, waits for in-flight tasks, and returns the
// non-nil errors collected from all tasks.
func (p *Pool) Drain() []error {
	close(p.tasks)
	go func() {
		p.wg.Wait()
		p.closeErrs()
	}()

	var errs []error
	for err := range p.errs {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Shutdown cancels in-flight tasks and waits for workers to exit. Tasks
// must be written so an abandoned run leaves no partial state behind.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeErrs()
}

func (p *Pool) closeErrs() {
	p.closeOnce.Do(func() {
		close(p.errs)
	})
}
