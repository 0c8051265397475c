// Package queued implements the shared-queue thread pool: a fixed team of
// workers draining one FIFO job channel, with a supervisor that respawns
// workers lost to panic.
package queued

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvsd/kvs/internal/telemetry/logger"
	"github.com/kvsd/kvs/internal/threadpool"
)

const variant = "queued"

// supervisorInterval is how often the supervisor checks for workers lost
// to panic and respawns them. A ticker rather than a condition variable:
// the respawn latency it trades for is immaterial next to a TCP round
// trip.
const supervisorInterval = 25 * time.Millisecond

type msg struct {
	job      func()
	shutdown bool
}

// Pool is the shared-queue implementation.
type Pool struct {
	jobs   chan msg
	live   atomic.Int64
	target int

	closing atomic.Bool
	wg      sync.WaitGroup

	log logger.Logger
}

var _ threadpool.ThreadPool = (*Pool)(nil)

// New starts n worker goroutines draining a shared job queue, plus a
// supervisor goroutine that respawns any worker a panicking job takes
// down.
func New(n int) (threadpool.ThreadPool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("queued: worker count must be positive, got %d", n)
	}

	p := &Pool{
		jobs:   make(chan msg, 4096),
		target: n,
		log:    logger.Default().With("component", "threadpool-queued"),
	}
	for i := 0; i < n; i++ {
		p.spawnWorker()
	}
	go p.supervise()
	return p, nil
}

func (p *Pool) spawnWorker() {
	p.live.Add(1)
	p.wg.Add(1)
	go p.worker()
}

// worker drains the shared queue until it sees a shutdown message or the
// queue is closed. It owns no guard object in the Go sense, but the
// deferred recover plays the same role as a guard-object destructor:
// only a panic decrements the live-worker counter, a normal exit
// (shutdown) does not, since a retiring worker was asked to leave
// and should not trigger a respawn.
func (p *Pool) worker() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker panic recovered", "panic", r)
			threadpool.ObservePanic(variant)
			p.live.Add(-1)
		}
	}()

	for m := range p.jobs {
		if m.shutdown {
			return
		}
		threadpool.ObserveSpawn(variant)
		m.job()
		threadpool.ObserveComplete(variant)
	}
}

// supervise watches the live-worker count and respawns any worker lost to
// panic, until Shutdown begins.
func (p *Pool) supervise() {
	ticker := time.NewTicker(supervisorInterval)
	defer ticker.Stop()

	for range ticker.C {
		if p.closing.Load() {
			return
		}
		for p.live.Load() < int64(p.target) {
			p.spawnWorker()
		}
	}
}

// Spawn enqueues job. The queue is a large buffered channel so enqueue
// does not block waiting for a worker to become free, only if the buffer
// itself is saturated.
func (p *Pool) Spawn(job func()) {
	p.jobs <- msg{job: job}
}

// Stats reports the live and target worker counts.
func (p *Pool) Stats() threadpool.Stats {
	return threadpool.Stats{
		LiveWorkers:   int(p.live.Load()),
		TargetWorkers: p.target,
	}
}

// Shutdown broadcasts a Shutdown message per worker slot, waits for every
// running worker to exit, then closes the queue. No worker is left
// running beyond this call.
func (p *Pool) Shutdown() {
	p.closing.Store(true)
	for i := 0; i < p.target; i++ {
		p.jobs <- msg{shutdown: true}
	}
	p.wg.Wait()
	close(p.jobs)
}
