package rayonpool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSpawnRunsAllJobs(t *testing.T) {
	pool, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const total = 100
	var n atomic.Int64
	var wg sync.WaitGroup
	wg.Add(total)
	for i := 0; i < total; i++ {
		pool.Spawn(func() {
			defer wg.Done()
			n.Add(1)
		})
	}
	wg.Wait()
	pool.Shutdown()

	if got := n.Load(); got != total {
		t.Fatalf("ran %d jobs, want %d", got, total)
	}
}

func TestPanicDoesNotStallShutdown(t *testing.T) {
	pool, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	pool.Spawn(func() { defer wg.Done(); panic("boom") })
	pool.Spawn(func() { defer wg.Done() })
	pool.Spawn(func() { defer wg.Done() })
	wg.Wait()
	pool.Shutdown()
}

func TestRejectsNonPositiveWorkerCount(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for n=0")
	}
}
