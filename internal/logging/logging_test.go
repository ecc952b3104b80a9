package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Console = &buf

	logger, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("synthesized", zap.Float64("gamma", 2.5))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "synthesized") || !strings.Contains(out, "gamma") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected capital level, got %q", out)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hinfsyn.log")
	logger, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("calling kernel", zap.Int("n", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("file entry is not JSON: %v", err)
	}
	if entry["msg"] != "calling kernel" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("missing ts")
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewNoSinks(t *testing.T) {
	logger, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("expected nop logger")
	}
}
