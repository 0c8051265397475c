package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestHooksRunInReverseRegistrationOrder(t *testing.T) {
	h := NewHandler(time.Second)

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	h.OnShutdown("first", record("first"))
	h.OnShutdown("second", record("second"))
	h.OnShutdown("third", record("third"))

	h.Trigger()
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	want := []string{"third", "second", "first"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("hook order = %v, want %v", order, want)
		}
	}
}

func TestWaitJoinsHookErrors(t *testing.T) {
	h := NewHandler(time.Second)

	errA := errors.New("listener close failed")
	errB := errors.New("engine close failed")
	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("b", func(context.Context) error { return nil })
	h.OnShutdown("c", func(context.Context) error { return errB })

	h.Trigger()
	err := h.Wait()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Wait = %v, want both hook errors joined", err)
	}
}

func TestTriggerIsIdempotent(t *testing.T) {
	h := NewHandler(time.Second)
	h.Trigger()
	h.Trigger()
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestDoneClosesAfterHooks(t *testing.T) {
	h := NewHandler(time.Second)

	ran := false
	h.OnShutdown("mark", func(context.Context) error {
		ran = true
		return nil
	})

	go func() {
		h.Trigger()
	}()
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel did not close")
	}
	if !ran {
		t.Fatal("hook did not run before Done closed")
	}
}

func TestHookContextCarriesDeadline(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)

	h.OnShutdown("check-deadline", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("hook context has no deadline")
		}
		return nil
	})

	h.Trigger()
	if err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestConcurrentRegistration(t *testing.T) {
	h := NewHandler(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("noop", func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	n := len(h.hooks)
	h.mu.Unlock()
	if n != 32 {
		t.Fatalf("registered %d hooks, want 32", n)
	}
}
