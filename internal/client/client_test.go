package client

import (
	"net"
	"testing"

	"github.com/kvsd/kvs/internal/protocol"
)

// serveOne accepts a single connection on ln, reads one request line, and
// writes back the given response line, mirroring the server's
// single-request-per-connection contract.
func serveOne(t *testing.T, ln net.Listener, respLine string) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		t.Errorf("accept: %v", err)
		return
	}
	defer conn.Close()

	if _, err := protocol.NewLineReader(conn).ReadLine(); err != nil {
		t.Errorf("read request: %v", err)
		return
	}
	if _, err := conn.Write([]byte(respLine + "\n")); err != nil {
		t.Errorf("write response: %v", err)
	}
}

func TestClientDoSetOk(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go serveOne(t, ln, "OK")

	c, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	resp, err := c.Do(protocol.Operation{Kind: protocol.OpSet, Key: "k", Value: "v"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.Status != protocol.StatusOk || resp.HasData {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientDoGetValue(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go serveOne(t, ln, "OK bar")

	c, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	resp, err := c.Do(protocol.Operation{Kind: protocol.OpGet, Key: "foo"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.Status != protocol.StatusOk || !resp.HasData || resp.Data != "bar" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientDoFail(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go serveOne(t, ln, "FAIL")

	c, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	resp, err := c.Do(protocol.Operation{Kind: protocol.OpRemove, Key: "nope"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.Status != protocol.StatusFail {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(addr); err == nil {
		t.Fatal("expected error dialing closed port")
	}
}
