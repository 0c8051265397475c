package server

import (
	"errors"
	"fmt"

	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/engine/badgerengine"
	"github.com/kvsd/kvs/internal/engine/kvstore"
	"github.com/kvsd/kvs/internal/threadpool"
	"github.com/kvsd/kvs/internal/threadpool/naive"
	"github.com/kvsd/kvs/internal/threadpool/queued"
	"github.com/kvsd/kvs/internal/threadpool/rayonpool"
)

const (
	EngineKvs  = "kvs"
	EngineSled = "sled"

	PoolNaive  = "naive"
	PoolQueued = "queued"
	PoolRayon  = "rayon"
)

// ErrConfigInvalid covers an unrecognized engine or thread-pool name,
// fatal at startup.
var ErrConfigInvalid = errors.New("server: invalid configuration")

// openEngine opens the chosen engine against the working directory (".").
func openEngine(name string) (engine.Engine, error) {
	switch name {
	case EngineKvs:
		e, err := kvstore.Open(".")
		if err != nil {
			return nil, err
		}
		return e, nil
	case EngineSled:
		e, err := badgerengine.Open(".")
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrConfigInvalid, name)
	}
}

// newPool constructs the chosen thread-pool variant. size is ignored for
// the naive variant, and should default to the logical CPU count for
// queued.
func newPool(name string, size int) (threadpool.ThreadPool, error) {
	switch name {
	case PoolNaive:
		return naive.New(size)
	case PoolQueued:
		return queued.New(size)
	case PoolRayon:
		return rayonpool.New(size)
	default:
		return nil, fmt.Errorf("%w: unknown thread pool %q", ErrConfigInvalid, name)
	}
}
