// Package client implements the kvs wire driver: dial with a bounded
// timeout, send one request line, read one response line, close.
package client

import (
	"fmt"
	"net"
	"time"

	"github.com/kvsd/kvs/internal/protocol"
)

// DialTimeout bounds how long Dial waits for the TCP handshake.
const DialTimeout = 5 * time.Second

// Client holds one dialed connection good for exactly one request/response
// round trip, matching the server's single-request-per-connection contract.
type Client struct {
	conn net.Conn
}

// Dial connects to addr with a 5-second timeout.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Do sends op as a single request line and returns the parsed response.
// The underlying connection is consumed by this call: a Client is good
// for exactly one Do.
func (c *Client) Do(op protocol.Operation) (protocol.Response, error) {
	defer c.conn.Close()

	if _, err := c.conn.Write([]byte(op.Marshal() + "\n")); err != nil {
		return protocol.Response{}, fmt.Errorf("client: write request: %w", err)
	}

	line, err := protocol.NewLineReader(c.conn).ReadLine()
	if err != nil {
		return protocol.Response{}, fmt.Errorf("client: read response: %w", err)
	}

	resp, err := protocol.ParseResponse(line)
	if err != nil {
		return protocol.Response{}, err
	}
	return resp, nil
}
