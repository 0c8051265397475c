package server

import (
	"errors"

	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/protocol"
	"github.com/kvsd/kvs/internal/telemetry/logger"
)

// apply invokes eng for op and converts any error into a FAIL response.
// Errors are logged structurally before the conversion, and the job
// never unwinds past this point.
func (s *Server) apply(eng engine.Engine, op protocol.Operation, log logger.Logger) protocol.Response {
	switch op.Kind {
	case protocol.OpSet:
		if err := eng.Set(op.Key, op.Value); err != nil {
			log.Error("set failed", "error", err, "op", "set", "key", op.Key)
			return protocol.Fail()
		}
		return protocol.Ok()

	case protocol.OpGet:
		value, ok, err := eng.Get(op.Key)
		if err != nil {
			log.Error("get failed", "error", err, "op", "get", "key", op.Key)
			return protocol.Fail()
		}
		if !ok {
			// Absent key is not an error for get: OK with no data.
			return protocol.Ok()
		}
		return protocol.OkValue(value)

	case protocol.OpRemove:
		if err := eng.Remove(op.Key); err != nil {
			if errors.Is(err, engine.ErrKeyNotFound) {
				log.Warn("remove on missing key", "op", "rm", "key", op.Key)
			} else {
				log.Error("remove failed", "error", err, "op", "rm", "key", op.Key)
			}
			return protocol.Fail()
		}
		return protocol.Ok()

	default:
		return protocol.Fail()
	}
}
