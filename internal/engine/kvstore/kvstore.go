// Package kvstore implements the log-structured persistent engine: an
// append-only JSON-lines command log plus an in-memory key-to-offset
// index, with threshold-triggered compaction.
package kvstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kvsd/kvs/internal/engine"
	"github.com/kvsd/kvs/internal/telemetry/logger"
)

// DefaultCompactionThreshold is the record count beyond which a write
// triggers compaction.
const DefaultCompactionThreshold = 500

const logFileName = "log.log"

// Stats summarizes a store's on-disk and compaction state.
type Stats struct {
	RecordCount     uint64
	CompactionCount uint64
	BytesReclaimed  uint64
	LastCompaction  time.Time
}

// shared is the state behind every clone of a KvStore handle: the mutex-
// guarded index, the append-mode file handle, and compaction bookkeeping.
// All clones point at the same shared value, matching the cloneable-
// handle contract of engine.Engine.
type shared struct {
	dir  string
	path string

	mu          sync.RWMutex
	index       map[string]uint64 // key -> line offset of its latest Set
	recordCount uint64
	appendFile  *os.File

	threshold  int
	compacting atomic.Bool

	statsMu        sync.Mutex
	compactionCnt  uint64
	bytesReclaimed uint64
	lastCompaction time.Time

	log logger.Logger
}

// KvStore is a cloneable handle onto a shared log-structured store.
type KvStore struct {
	s *shared
}

var _ engine.Engine = KvStore{}

// Open opens (or creates) a store rooted at dir, replaying its log to
// rebuild the index.
func Open(dir string) (KvStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return KvStore{}, fmt.Errorf("kvstore: create dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return KvStore{}, fmt.Errorf("kvstore: open log %s: %w", path, err)
	}

	index, count, err := replayIndex(f)
	f.Close()
	if err != nil {
		return KvStore{}, err
	}

	appendFile, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return KvStore{}, fmt.Errorf("kvstore: open log for append %s: %w", path, err)
	}

	s := &shared{
		dir:         dir,
		path:        path,
		index:       index,
		recordCount: count,
		appendFile:  appendFile,
		threshold:   DefaultCompactionThreshold,
		log:         logger.Default().With("component", "kvstore", "dir", dir),
	}
	s.log.Info("opened store", "records", count, "bytes", humanize.Bytes(uint64(fileSize(appendFile))))

	store := KvStore{s: s}
	if count > uint64(s.threshold) {
		if err := store.compact(); err != nil {
			return KvStore{}, err
		}
	}
	return store, nil
}

func fileSize(f *os.File) int64 {
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

// replayIndex reads every line of f to rebuild the key -> offset index
// and counts total records.
func replayIndex(f *os.File) (map[string]uint64, uint64, error) {
	index := make(map[string]uint64)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var offset uint64
	for scanner.Scan() {
		cmd, err := unmarshalCommand(scanner.Bytes())
		if err != nil {
			return nil, 0, err
		}
		switch cmd.Kind {
		case kindSet:
			index[cmd.Key] = offset
		case kindRemove:
			delete(index, cmd.Key)
		}
		offset++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("kvstore: replay log: %w", err)
	}
	return index, offset, nil
}

// Set durably appends a Set command and updates the index.
func (k KvStore) Set(key, value string) error {
	s := k.s
	s.mu.Lock()
	if err := s.appendLocked(newSetCommand(key, value)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.index[key] = s.recordCount - 1
	shouldCompact := s.recordCount > uint64(s.threshold)
	s.mu.Unlock()

	if shouldCompact {
		return k.compact()
	}
	return nil
}

// Get returns the current value for key, consulting the index and
// opening the log under a shared read lock. The open must happen before
// the lock is released: compaction swaps the file under the write lock,
// so a reader that looked up an offset and then opened the path
// lock-free could land on the wrong line of a freshly compacted log.
// Once the handle is open the bytes can be read lock-free, since a
// rename does not disturb an open file.
func (k KvStore) Get(key string) (string, bool, error) {
	s := k.s
	s.mu.RLock()
	offset, ok := s.index[key]
	if !ok {
		s.mu.RUnlock()
		return "", false, nil
	}
	f, err := os.Open(s.path)
	s.mu.RUnlock()
	if err != nil {
		return "", false, fmt.Errorf("kvstore: open log for read: %w", err)
	}
	defer f.Close()

	cmd, err := readLineAt(f, offset)
	if err != nil {
		return "", false, err
	}
	if cmd.Kind != kindSet || cmd.Key != key {
		return "", false, fmt.Errorf("%w: index points at wrong record for key %q", engine.ErrCorruption, key)
	}
	return cmd.Value, true, nil
}

// Remove appends a Remove command, failing with ErrKeyNotFound if the key
// is not currently present.
func (k KvStore) Remove(key string) error {
	s := k.s
	s.mu.Lock()
	if _, ok := s.index[key]; !ok {
		s.mu.Unlock()
		return engine.ErrKeyNotFound
	}
	if err := s.appendLocked(newRemoveCommand(key)); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.index, key)
	shouldCompact := s.recordCount > uint64(s.threshold)
	s.mu.Unlock()

	if shouldCompact {
		return k.compact()
	}
	return nil
}

// appendLocked writes cmd to the log and flushes it. Callers must hold
// s.mu for writing; it updates recordCount but not the index, leaving
// index maintenance to the caller so Set and Remove can each apply their
// own rule.
func (s *shared) appendLocked(cmd command) error {
	line, err := marshalCommand(cmd)
	if err != nil {
		return fmt.Errorf("kvstore: marshal command: %w", err)
	}
	line = append(line, '\n')

	if _, err := s.appendFile.Write(line); err != nil {
		return fmt.Errorf("kvstore: append: %w", err)
	}
	if err := s.appendFile.Sync(); err != nil {
		return fmt.Errorf("kvstore: flush append: %w", err)
	}
	s.recordCount++
	return nil
}

// readLineAt returns the command at the given (0-based) line offset of
// f. Each read scans its own freshly opened handle, sidestepping shared
// file-cursor hazards.
func readLineAt(f *os.File, offset uint64) (command, error) {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var i uint64
	for scanner.Scan() {
		if i == offset {
			return unmarshalCommand(scanner.Bytes())
		}
		i++
	}
	if err := scanner.Err(); err != nil {
		return command{}, fmt.Errorf("kvstore: read log: %w", err)
	}
	return command{}, fmt.Errorf("%w: offset %d past end of log", engine.ErrCorruption, offset)
}

// Clone returns a handle sharing this store's index and log.
func (k KvStore) Clone() engine.Engine {
	return KvStore{s: k.s}
}

// Close flushes and releases the append file handle. Since appends are
// flushed synchronously, there is no buffered state left to drain.
func (k KvStore) Close() error {
	if err := k.s.appendFile.Close(); err != nil {
		return fmt.Errorf("kvstore: close: %w", err)
	}
	return nil
}

// Stats reports the current record count and compaction history.
func (k KvStore) Stats() Stats {
	s := k.s
	s.mu.RLock()
	records := s.recordCount
	s.mu.RUnlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return Stats{
		RecordCount:     records,
		CompactionCount: s.compactionCnt,
		BytesReclaimed:  s.bytesReclaimed,
		LastCompaction:  s.lastCompaction,
	}
}
