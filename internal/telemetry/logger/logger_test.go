package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufLogger(t *testing.T, cfg Config) (*bytes.Buffer, Logger) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &buf, l
}

func TestJSONFormatEmitsParsableRecords(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})

	l.Info("store opened", "records", 42)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "store opened" {
		t.Fatalf("msg = %v, want %q", record["msg"], "store opened")
	}
	if record["records"] != float64(42) {
		t.Fatalf("records = %v, want 42", record["records"])
	}
}

func TestTextFormat(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "text"})

	l.Info("listening", "addr", "127.0.0.1:4000")

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, "addr=127.0.0.1:4000") {
		t.Fatalf("text output %q missing expected fields", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "warn", Format: "json"})

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("output %q contains records below the configured level", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("output %q missing warn-level record", out)
	}
}

func TestWithAttachesAttributes(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})

	l.With("component", "kvstore").Info("compaction complete")

	if !strings.Contains(buf.String(), `"component":"kvstore"`) {
		t.Fatalf("output %q missing component attribute", buf.String())
	}
}

func TestSetLevelAdjustsAtRuntime(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})

	SetLevel("error")
	defer SetLevel("info")

	l.Info("suppressed")
	l.Error("surfaced")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("output %q contains info record after SetLevel(error)", out)
	}
	if !strings.Contains(out, "surfaced") {
		t.Fatalf("output %q missing error record", out)
	}
	if GetLevel() != "error" {
		t.Fatalf("GetLevel = %q, want error", GetLevel())
	}
}

func TestUnknownLevelAndFormatFallBack(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "nonsense", Format: "nonsense"})

	l.Info("still works")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("fallback format is not JSON: %v", err)
	}
	if record["msg"] != "still works" {
		t.Fatalf("msg = %v", record["msg"])
	}
}

func TestSetDefaultReplacesGlobalLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})
	SetDefault(l)

	Default().Info("through the default")
	if !strings.Contains(buf.String(), "through the default") {
		t.Fatalf("default logger output %q missing record", buf.String())
	}
}
