package kvstore

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// compact rewrites the log to contain exactly the surviving Set records,
// in last-write-wins order, then rebuilds the index against the new file.
// It runs synchronously on the triggering writer by default; CompactAsync
// offers a background alternative for callers that want compaction off
// the write path.
func (k KvStore) compact() error {
	s := k.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compactLocked()
}

// CompactAsync schedules compaction on a background goroutine if one is
// not already running, guarded by an in-flight flag rather than a
// sync.Once so repeated crossings of the threshold can each trigger a
// fresh run once the previous one completes.
func (k KvStore) CompactAsync() {
	if !k.s.compacting.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer k.s.compacting.Store(false)
		if err := k.compact(); err != nil {
			k.s.log.Error("background compaction failed", "error", err)
		}
	}()
}

func (s *shared) compactLocked() error {
	before := fileSize(s.appendFile)

	survivors, err := collectSurvivors(s.path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "log-compact-*.tmp")
	if err != nil {
		return fmt.Errorf("kvstore: create compaction temp file: %w", err)
	}
	tmpPath := tmp.Name()

	newIndex := make(map[string]uint64, len(survivors))
	w := bufio.NewWriter(tmp)
	for i, kv := range survivors {
		cmd := newSetCommand(kv.key, kv.value)
		line, err := marshalCommand(cmd)
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("kvstore: marshal survivor: %w", err)
		}
		if _, err := w.Write(line); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("kvstore: write compacted log: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("kvstore: write compacted log: %w", err)
		}
		newIndex[kv.key] = uint64(i)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("kvstore: flush compacted log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("kvstore: sync compacted log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("kvstore: close compacted log: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("kvstore: rename compacted log into place: %w", err)
	}

	if err := s.appendFile.Close(); err != nil {
		return fmt.Errorf("kvstore: close stale append handle: %w", err)
	}
	newAppend, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("kvstore: reopen append handle after compaction: %w", err)
	}

	after := fileSize(newAppend)

	s.appendFile = newAppend
	s.index = newIndex
	s.recordCount = uint64(len(survivors))

	s.statsMu.Lock()
	s.compactionCnt++
	if before > after {
		s.bytesReclaimed += uint64(before - after)
	}
	s.lastCompaction = time.Now()
	s.statsMu.Unlock()

	s.log.Info("compaction complete",
		"records", len(survivors),
		"reclaimed", humanize.Bytes(uint64(max64(before-after, 0))),
	)
	return nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

type kvPair struct {
	key     string
	value   string
	deleted bool
}

// collectSurvivors replays path end-to-end, keeping each key's latest Set
// in the position where the key first appeared (or, for a key set again
// after a Remove, where it reappeared) so the surviving order is stable
// and consistent with the index, and dropping any key whose most recent
// command is a Remove.
func collectSurvivors(path string) ([]kvPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open log for compaction: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	pos := make(map[string]int)
	var order []kvPair
	for scanner.Scan() {
		cmd, err := unmarshalCommand(scanner.Bytes())
		if err != nil {
			return nil, err
		}
		switch cmd.Kind {
		case kindSet:
			if i, ok := pos[cmd.Key]; ok {
				order[i].value = cmd.Value
			} else {
				pos[cmd.Key] = len(order)
				order = append(order, kvPair{key: cmd.Key, value: cmd.Value})
			}
		case kindRemove:
			if i, ok := pos[cmd.Key]; ok {
				order[i].deleted = true
				delete(pos, cmd.Key)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("kvstore: read log for compaction: %w", err)
	}

	survivors := order[:0]
	for _, kv := range order {
		if !kv.deleted {
			survivors = append(survivors, kv)
		}
	}
	return survivors, nil
}
