package naive

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSpawnRunsJobs(t *testing.T) {
	p, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		p.Spawn(func() {
			defer wg.Done()
			n.Add(1)
		})
	}
	wg.Wait()

	if got := n.Load(); got != 20 {
		t.Fatalf("ran %d jobs, want 20", got)
	}
}

func TestPanicDoesNotCrashPool(t *testing.T) {
	p, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	p.Spawn(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	var ran atomic.Bool
	var wg2 sync.WaitGroup
	wg2.Add(1)
	p.Spawn(func() {
		defer wg2.Done()
		ran.Store(true)
	})
	wg2.Wait()

	time.Sleep(10 * time.Millisecond)
	if !ran.Load() {
		t.Fatal("pool did not survive a panicking job")
	}
}
