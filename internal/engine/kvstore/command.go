package kvstore

import (
	"encoding/json"
	"fmt"

	"github.com/kvsd/kvs/internal/engine"
	"github.com/spaolacci/murmur3"
)

const (
	kindSet    = "set"
	kindRemove = "remove"
)

// command is one line of the log: a tagged union of Set and Remove,
// self-describing via the Kind field. Crc, when present, is a murmur3
// checksum of the canonical encoding of Kind/Key/Value, written on every
// append and checked whenever the record is read back. A record with no
// Crc field (as a hypothetical older writer might produce) is treated as
// unverified rather than corrupt: the format is additive, not a break
// from the plain JSON-lines contract.
type command struct {
	Kind  string  `json:"kind"`
	Key   string  `json:"key"`
	Value string  `json:"value,omitempty"`
	Crc   *uint32 `json:"crc,omitempty"`
}

func newSetCommand(key, value string) command {
	c := command{Kind: kindSet, Key: key, Value: value}
	c.stamp()
	return c
}

func newRemoveCommand(key string) command {
	c := command{Kind: kindRemove, Key: key}
	c.stamp()
	return c
}

// stamp computes and attaches the checksum of the payload fields.
func (c *command) stamp() {
	sum := c.checksum()
	c.Crc = &sum
}

func (c command) checksum() uint32 {
	payload := command{Kind: c.Kind, Key: c.Key, Value: c.Value}
	b, err := json.Marshal(payload)
	if err != nil {
		// Kind/Key/Value are always plain strings; Marshal cannot fail.
		panic(fmt.Sprintf("kvstore: unreachable marshal failure: %v", err))
	}
	return murmur3.Sum32(b)
}

// verify reports whether c carries a checksum and, if so, whether it
// matches the payload. ok is false only when a checksum is present and
// does not match.
func (c command) verify() (checked, ok bool) {
	if c.Crc == nil {
		return false, true
	}
	return true, *c.Crc == c.checksum()
}

func marshalCommand(c command) ([]byte, error) {
	return json.Marshal(c)
}

func unmarshalCommand(line []byte) (command, error) {
	var c command
	if err := json.Unmarshal(line, &c); err != nil {
		return command{}, fmt.Errorf("%w: %v", engine.ErrCorruption, err)
	}
	if c.Kind != kindSet && c.Kind != kindRemove {
		return command{}, fmt.Errorf("%w: unknown command kind %q", engine.ErrCorruption, c.Kind)
	}
	if checked, ok := c.verify(); checked && !ok {
		return command{}, fmt.Errorf("%w: checksum mismatch for key %q", engine.ErrCorruption, c.Key)
	}
	return c, nil
}
