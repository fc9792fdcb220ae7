package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pool is a fixed set of workers draining a bounded task queue.
// It is created once at startup and never resized.
type Pool struct {
	logger  *zap.Logger
	tasks   chan func()
	workers int
	active  atomic.Int64
	wg      sync.WaitGroup
	close   sync.Once
}

func NewPool(workers int, queueCapacity int, logger *zap.Logger) *Pool {
	p := &Pool{
		logger:  logger,
		tasks:   make(chan func(), queueCapacity),
		workers: workers,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}

	return p
}

// Submit enqueues the task. When the queue is full and every worker is busy
// the call blocks until a worker frees capacity: overload turns into
// backpressure on the caller, accepted tasks are never dropped.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

func (p *Pool) work(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		p.active.Add(1)
		p.run(id, task)
		p.active.Add(-1)
	}
}

// run isolates one task so a panic cannot take the worker down.
func (p *Pool) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered panic in dispatch task",
				zap.Int("worker", id), zap.Any("panic", r))
		}
	}()

	task()
}

// Shutdown stops intake and waits for queued tasks to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close.Do(func() { close(p.tasks) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot accessors, sampled by the metrics gauges.

func (p *Pool) QueueDepth() int {
	return len(p.tasks)
}

func (p *Pool) QueueCapacity() int {
	return cap(p.tasks)
}

func (p *Pool) ActiveWorkers() int {
	return int(p.active.Load())
}

func (p *Pool) PoolSize() int {
	return p.workers
}
