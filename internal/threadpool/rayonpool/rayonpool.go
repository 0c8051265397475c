// Package rayonpool adapts golang.org/x/sync's errgroup and semaphore
// primitives into the thread-pool contract, standing in for an
// external-library work-stealing pool: concurrency is bounded as in the
// queued variant, and a panicking job does not sink the pool, as in both
// other variants, via a general-purpose library rather than a
// hand-rolled supervisor.
package rayonpool

import (
	"context"
	"fmt"

	"github.com/kvsd/kvs/internal/telemetry/logger"
	"github.com/kvsd/kvs/internal/threadpool"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const variant = "rayon"

// Pool bounds concurrency with a weighted semaphore and tracks running
// jobs with an errgroup, so Shutdown can wait for every in-flight job
// without the pool needing its own WaitGroup.
type Pool struct {
	g   *errgroup.Group
	sem *semaphore.Weighted
	n   int
	log logger.Logger
}

var _ threadpool.ThreadPool = (*Pool)(nil)

// New builds a pool bounded to n concurrent jobs.
func New(n int) (threadpool.ThreadPool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("rayonpool: worker count must be positive, got %d", n)
	}
	return &Pool{
		g:   new(errgroup.Group),
		sem: semaphore.NewWeighted(int64(n)),
		n:   n,
		log: logger.Default().With("component", "threadpool-rayon"),
	}, nil
}

// Spawn submits job to the errgroup; the goroutine acquires a semaphore
// slot before running so enqueue never blocks waiting for a free worker.
// A panicking job is recovered so it cannot take down the group, matching
// the fault model of the other two variants.
func (p *Pool) Spawn(job func()) {
	p.g.Go(func() error {
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			p.log.Error("semaphore acquire failed", "error", err)
			return nil
		}
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("job panicked", "panic", r)
				threadpool.ObservePanic(variant)
			}
		}()
		threadpool.ObserveSpawn(variant)
		job()
		threadpool.ObserveComplete(variant)
		return nil
	})
}

// Stats reports the configured concurrency bound as the target; the
// errgroup does not expose a live count, so LiveWorkers is left zero.
func (p *Pool) Stats() threadpool.Stats {
	return threadpool.Stats{TargetWorkers: p.n}
}

// Shutdown waits for every submitted job to finish.
func (p *Pool) Shutdown() {
	p.g.Wait()
}
