package logger

import (
	"bytes"
	"context"
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

func TestJSONOutput(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})
	l.Info("snapshot written", "entries", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "snapshot written" {
		t.Errorf("msg = %v, want %q", entry["msg"], "snapshot written")
	}
	if entry["entries"] != float64(42) {
		t.Errorf("entries = %v, want 42", entry["entries"])
	}
}

func TestTextOutput(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "text"})
	l.Info("loaded")
	if !strings.Contains(buf.String(), "msg=loaded") {
		t.Errorf("text output missing message: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "warn", Format: "json"})
	l.Debug("dropped")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("below-level entries were written: %s", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})
	l.With("component", "snapfile").Info("pruned")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["component"] != "snapfile" {
		t.Errorf("component = %v, want %q", entry["component"], "snapfile")
	}
}

func TestSetLevel(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})
	SetLevel("error")
	defer SetLevel("info")

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info written after SetLevel(error): %s", buf.String())
	}
	if got := GetLevel(); got != "error" {
		t.Errorf("GetLevel() = %q, want %q", got, "error")
	}
}

func TestFromContext(t *testing.T) {
	buf, l := newBufLogger(t, Config{Level: "info", Format: "json"})
	ctx := WithLogger(context.Background(), l)

	FromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("context logger not used: %s", buf.String())
	}

	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext without logger = nil, want default")
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic and must not touch the default logger.
	Nop().Info("ignored", "k", "v")
}
