package badgerengine

import (
	"errors"
	"testing"

	"github.com/kvsd/kvs/internal/engine"
)

func TestSetGetRoundTrip(t *testing.T) {
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if err := e.Set("key1", "value1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := e.Get("key1")
	if err != nil || !ok || v != "value1" {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}
}

func TestGetMissingKey(t *testing.T) {
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	_, ok, err := e.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
}

func TestRemoveMissingKeyFails(t *testing.T) {
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	if err := e.Remove("nope"); !errors.Is(err, engine.ErrKeyNotFound) {
		t.Fatalf("Remove = %v, want ErrKeyNotFound", err)
	}
}

func TestCloneSharesState(t *testing.T) {
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer e.Close()

	clone := e.Clone()
	if err := clone.Set("k", "v"); err != nil {
		t.Fatalf("Set via clone: %v", err)
	}
	v, ok, err := e.Get("k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get on original after clone Set = (%q, %v, %v)", v, ok, err)
	}
}
