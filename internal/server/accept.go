package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/protocol"
	"github.com/kvsd/kvs/internal/telemetry/logger"
	"github.com/oklog/ulid/v2"
)

// Serve runs the accept loop: for each connection, clone the engine
// handle and dispatch a job to the pool that reads one request, invokes
// the engine, writes one response, and closes.
func (s *Server) Serve() error {
	s.log.Info("listening", "addr", s.cfg.Addr, "engine", s.cfg.EngineName, "pool", s.cfg.PoolName)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("accept failed", "error", err)
			continue
		}

		reqID := ulid.Make().String()
		s.conns.Set(reqID, connInfo{remoteAddr: conn.RemoteAddr().String(), startedAt: time.Now()})

		eng := s.eng.Clone()
		s.pool.Spawn(func() {
			defer s.conns.Delete(reqID)
			s.handleConn(conn, eng, reqID)
		})
	}
}

// handleConn performs one request/response round trip then closes conn.
func (s *Server) handleConn(conn net.Conn, eng engine.Engine, reqID string) {
	ctx := logger.WithRequestID(context.Background(), reqID)
	log := logger.L(logger.WithLogger(ctx, s.log))
	defer conn.Close()

	line, err := protocol.NewLineReader(conn).ReadLine()
	if err != nil {
		log.Warn("read request failed", "error", err)
		return
	}

	op, err := protocol.ParseOperation(line)
	if err != nil {
		log.Warn("parse request failed", "error", err, "line", line)
		writeResponse(conn, protocol.Fail())
		return
	}

	resp := s.apply(eng, op, log)
	writeResponse(conn, resp)
}

func writeResponse(conn net.Conn, resp protocol.Response) {
	conn.Write([]byte(resp.Marshal() + "\n"))
}
