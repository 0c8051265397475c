package server

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const sentinelFileName = "engine"

// ErrEngineMismatch is returned when the sentinel file disagrees with the
// engine requested on the command line, which is fatal at startup.
var ErrEngineMismatch = errors.New("server: engine mismatch")

// checkSentinel checks the sentinel file ./engine, which records which
// backend a working directory was first opened with. A missing or empty
// file is initialized to engineName; a populated file must agree.
func checkSentinel(engineName string) error {
	data, err := os.ReadFile(sentinelFileName)
	if errors.Is(err, os.ErrNotExist) {
		return writeSentinel(engineName)
	}
	if err != nil {
		return fmt.Errorf("server: read sentinel file: %w", err)
	}

	recorded := strings.TrimSpace(string(data))
	if recorded == "" {
		return writeSentinel(engineName)
	}
	if recorded != engineName {
		return fmt.Errorf("%w: %s was initialized with --engine %s, got --engine %s",
			ErrEngineMismatch, sentinelFileName, recorded, engineName)
	}
	return nil
}

func writeSentinel(engineName string) error {
	if err := os.WriteFile(sentinelFileName, []byte(engineName+"\n"), 0o644); err != nil {
		return fmt.Errorf("server: write sentinel file: %w", err)
	}
	return nil
}
