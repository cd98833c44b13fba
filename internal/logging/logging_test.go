package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDailyWriterCreatesDatedFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriter(dir, 7)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := filepath.Join(dir, "investai-"+time.Now().Format("20060102")+".log")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected written content, got %q", data)
	}
}

func TestDailyWriterCustomPrefix(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriterWithPrefix(dir, "custom", 7)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "custom-*.log"))
	if len(matches) != 1 {
		t.Errorf("expected one custom log file, got %v", matches)
	}
}

func TestDailyWriterCleanupRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "investai-20000101.log")
	if err := os.WriteFile(old, []byte("ancient"), 0o644); err != nil {
		t.Fatalf("seed old file: %v", err)
	}
	keep := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed unrelated file: %v", err)
	}

	w, err := NewDailyWriter(dir, 7)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expected expired log file to be removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("unrelated file should survive cleanup")
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, writer, err := NewLogger(dir, slog.LevelInfo)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer writer.Close()

	logger.Info("logger smoke test", "k", "v")

	matches, _ := filepath.Glob(filepath.Join(dir, "investai-*.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one log file, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "logger smoke test") {
		t.Errorf("expected log line in file, got %q", data)
	}
	if !strings.Contains(string(data), "service=investai") {
		t.Errorf("expected service attribute, got %q", data)
	}
}

func TestResolveLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"8":       slog.Level(8),
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv(envLogLevel, value)
		if got := resolveLevel(slog.LevelInfo); got != want {
			t.Errorf("level %q: got %v, want %v", value, got, want)
		}
	}
}

func TestNewHandlerFormat(t *testing.T) {
	t.Setenv(envLogFormat, "json")
	if _, ok := newHandler(os.Stderr, slog.LevelInfo).(*slog.JSONHandler); !ok {
		t.Error("expected JSON handler for json format")
	}
	t.Setenv(envLogFormat, "")
	if _, ok := newHandler(os.Stderr, slog.LevelInfo).(*slog.TextHandler); !ok {
		t.Error("expected text handler by default")
	}
}
