// Package engine defines the storage contract shared by the log-structured
// store and the alternate embedded-store adapter.
package engine

import "errors"

// ErrKeyNotFound is returned by Remove when the key does not exist, and is
// never returned by Get (a missing Get resolves to ok == false instead).
var ErrKeyNotFound = errors.New("engine: key not found")

// ErrCorruption indicates the on-disk log or index is inconsistent with
// itself: an unparseable record, or an index entry pointing at a record
// that is not a Set for the expected key.
var ErrCorruption = errors.New("engine: corrupt store")

// Engine is the contract satisfied by every storage backend. A value is
// cheaply cloneable and safe to hand to multiple goroutines; clones share
// the same underlying persistent state.
type Engine interface {
	// Set durably records k -> v. Visible to a subsequent Get from any
	// clone of this handle once Set returns.
	Set(key, value string) error

	// Get returns the most recently set value for key. ok is false if
	// the key was never set, or its most recent command was a Remove.
	Get(key string) (value string, ok bool, err error)

	// Remove deletes key. Returns ErrKeyNotFound if the key is absent.
	Remove(key string) error

	// Clone returns a handle sharing the same underlying store.
	Clone() Engine

	// Close releases any resources held by this handle. Buffered state
	// must be flushed before Close returns.
	Close() error
}
