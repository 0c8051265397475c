// Package badgerengine adapts github.com/dgraph-io/badger/v3, an embedded
// ordered-key LSM store, onto the engine.Engine contract: an alternate
// backend treated as an external collaborator, constrained only through
// the adapter shape.
package badgerengine

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dgraph-io/badger/v3"
	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/telemetry/logger"
)

// Engine is a handle onto an open Badger database. Clones share the same
// *badger.DB, matching engine.Engine's shareable-handle contract.
type Engine struct {
	db *badger.DB
}

var _ engine.Engine = Engine{}

// Open opens (or creates) a Badger database rooted at dir.
func Open(dir string) (Engine, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log: logger.Default().With("component", "badgerengine")})

	db, err := badger.Open(opts)
	if err != nil {
		return Engine{}, fmt.Errorf("badgerengine: open %s: %w", dir, err)
	}
	return Engine{db: db}, nil
}

// Set writes key's bytes to value's bytes in a single transaction.
func (e Engine) Set(key, value string) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badgerengine: set %q: %w", key, err)
	}
	return nil
}

// Get retrieves key's value and UTF-8-decodes it. A decode failure is
// fatal. Every value written through this adapter is valid UTF-8, so a
// non-UTF-8 byte string indicates corruption underneath us.
func (e Engine) Get(key string) (string, bool, error) {
	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badgerengine: get %q: %w", key, err)
	}
	if !utf8.Valid(value) {
		return "", false, fmt.Errorf("%w: badgerengine: non-UTF-8 value for key %q", engine.ErrCorruption, key)
	}
	return string(value), true, nil
}

// Remove deletes key, mapping Badger's not-found error onto
// engine.ErrKeyNotFound.
func (e Engine) Remove(key string) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return engine.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("badgerengine: remove %q: %w", key, err)
	}
	return nil
}

// Clone returns a handle sharing this engine's underlying database.
func (e Engine) Clone() engine.Engine {
	return Engine{db: e.db}
}

// Close closes the underlying database. Flushing is delegated to the
// library.
func (e Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("badgerengine: close: %w", err)
	}
	return nil
}
