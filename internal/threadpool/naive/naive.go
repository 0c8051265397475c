// Package naive implements the thread-pool contract by starting a fresh
// goroutine per job: no pooling, no supervision, a correctness baseline.
package naive

import (
	"github.com/kvsd/kvs/internal/telemetry/logger"
	"github.com/kvsd/kvs/internal/threadpool"
)

const variant = "naive"

// Pool is the zero-pooling baseline. n (accepted for interface symmetry
// with the other variants) is ignored; n = 0 is accepted here.
type Pool struct {
	log logger.Logger
}

var _ threadpool.ThreadPool = Pool{}

// New constructs a naive pool. n is accepted but unused.
func New(n int) (threadpool.ThreadPool, error) {
	return Pool{log: logger.Default().With("component", "threadpool-naive")}, nil
}

// Spawn starts job on a new goroutine, recovering any panic so one bad
// job cannot bring down the process.
func (p Pool) Spawn(job func()) {
	threadpool.ObserveSpawn(variant)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("job panicked", "panic", r)
				threadpool.ObservePanic(variant)
				return
			}
			threadpool.ObserveComplete(variant)
		}()
		job()
	}()
}

// Stats always reports zero; there is no pooled worker count to track.
func (p Pool) Stats() threadpool.Stats {
	return threadpool.Stats{}
}

// Shutdown is a no-op: jobs are independent goroutines with no shared
// lifecycle to tear down.
func (p Pool) Shutdown() {}
