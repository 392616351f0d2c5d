package roller

import (
	"context"
	"log/slog"
)

// Pool runs webhook tasks on a fixed number of workers with a bounded
// queue. When the queue is full, Submit rejects instead of spawning
// unbounded goroutines; bursty inbound traffic therefore degrades by
// dropping work, not by exhausting memory.
type Pool struct {
	workers int
	tasks   chan func(context.Context)
}

func NewPool(workers, queueSize int) *Pool {
	return &Pool{
		workers: workers,
		tasks:   make(chan func(context.Context), queueSize),
	}
}

// Start spawns the workers. They run until the context is cancelled.
// Tasks receive the pool's context, not the (long gone) http request
// context of the webhook that submitted them.
func (p *Pool) Start(ctx context.Context) {
	slog.InfoContext(ctx, "starting worker pool", "workers", p.workers, "queue", cap(p.tasks))
	for i := 0; i < p.workers; i++ {
		go func() {
			for {
				select {
				case task := <-p.tasks:
					task(ctx)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Submit enqueues a task without blocking. It reports false when the
// queue is saturated and the task was rejected.
func (p *Pool) Submit(task func(context.Context)) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}
