// Package workerpool runs jobs on a fixed number of goroutines.
package workerpool

import (
	"context"
	"sync"
)

// Job is a unit of work submitted to the Pool. Errors are the job's own
// business: the pool only runs it.
type Job func(ctx context.Context) error

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }

// Pool runs jobs using a fixed number of goroutines.
type Pool struct {
	jobs    chan Job
	done    chan struct{}
	wg      sync.WaitGroup
	workers int

	ctx       context.Context
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates a pool with the given number of workers and queue capacity.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		done:    make(chan struct{}),
		workers: workers,
		ctx:     context.Background(),
	}
}

// Workers returns the number of goroutines the pool runs.
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the workers. They stop when ctx is done or after Close once
// the queue is drained.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full. It returns
// ErrPoolClosed after Close and the context error once the pool's context is done.
func (p *Pool) Submit(job Job) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Close stops accepting new jobs and waits for workers to finish the queued ones.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		// odblokowuje Submit czekające na miejsce w kolejce
		close(p.done)
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
