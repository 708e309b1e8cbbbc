package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/canary/internal/config"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "nested", "canary.log")
	var console bytes.Buffer
	l, err := NewWriterLogger(&cfg, &console)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO] to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if !strings.Contains(console.String(), "to file") {
		t.Errorf("console content: %s", console.String())
	}
}

func TestLogger_LineFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	var buf bytes.Buffer
	l, err := NewWriterLogger(&cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.now = fixedClock

	l.Warn("disk %s", "full")
	l.Error("boom")
	l.Success("done")

	want := "2024-03-09 14:05:00 [WARN] disk full\n" +
		"2024-03-09 14:05:00 [ERROR] boom\n" +
		"2024-03-09 14:05:00 [SUCCESS] done\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestLogger_DebugRequiresVerbose(t *testing.T) {
	cfg := config.DefaultConfig()
	var buf bytes.Buffer
	l, _ := NewWriterLogger(&cfg, &buf)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written without verbose: %q", buf.String())
	}

	cfg.Verbose = true
	l, _ = NewWriterLogger(&cfg, &buf)
	if !l.Verbose() {
		t.Error("Verbose() should be true")
	}
	l.Debug("shown %d", 1)
	if !strings.Contains(buf.String(), "[DEBUG] shown 1") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestNewLogger_BadLogPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(blocker, "canary.log")
	if _, err := NewWriterLogger(&cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error when log directory is a file")
	}
}
