package slogutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webcompat/internal/config"
)

func TestRotatingFile_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	rf, err := OpenRotatingFile(path, 100, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	defer rf.Close()

	for i := 0; i < 5; i++ {
		if _, err := rf.Write([]byte("hello world\n")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 60 {
		t.Errorf("file size = %d, want 60", len(data))
	}
}

func TestRotatingFile_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rf, err := OpenRotatingFile(path, 50, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}

	data := []byte(strings.Repeat("a", 29) + "\n")
	for i := 0; i < 5; i++ {
		if _, err := rf.Write(data); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	rf.Close()

	// each write exceeds the limit with the previous one, so every file holds one line
	for _, p := range []string{path, path + ".1", path + ".2"} {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("%s should exist: %v", p, err)
			continue
		}
		if len(b) != 30 {
			t.Errorf("%s size = %d, want 30", p, len(b))
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("only two backups should be kept")
	}
}

func TestRotatingFile_NoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rf, err := OpenRotatingFile(path, 10, 0)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	defer rf.Close()

	rf.Write([]byte("first-line\n"))
	rf.Write([]byte("second\n"))

	b, _ := os.ReadFile(path)
	if string(b) != "second\n" {
		t.Errorf("file = %q, want truncated to last write", b)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no backup expected")
	}
}

func TestLoggerFactory_MCPLogger(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WEBCOMPAT_HOME", home)

	cfg := config.DefaultConfig()
	cfg.Logging.File = "mcp.log"
	cfg.Logging.Level = "debug"

	factory := NewLoggerFactory(cfg, nil)
	var stderr bytes.Buffer
	logger := factory.MCPLogger(&stderr)
	logger.Debug("Server starting", "tools", 10)
	if err := factory.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !strings.Contains(stderr.String(), "Server starting | tools=10") {
		t.Errorf("stderr = %q", stderr.String())
	}
	b, err := os.ReadFile(filepath.Join(home, "logs", "mcp.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(b), "Server starting") {
		t.Errorf("log file = %q", b)
	}
}

func TestLoggerFactory_CLILevelOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "debug"

	level := slog.LevelError
	factory := NewLoggerFactory(cfg, &level)

	var stderr bytes.Buffer
	logger := factory.MCPLogger(&stderr)
	logger.Warn("ignored")
	logger.Error("kept")

	if strings.Contains(stderr.String(), "ignored") || !strings.Contains(stderr.String(), "kept") {
		t.Errorf("stderr = %q", stderr.String())
	}

	var cli bytes.Buffer
	NewLoggerFactory(nil, nil).CLILogger(&cli).Info("hidden")
	if cli.Len() != 0 {
		t.Errorf("CLI logger should default to warn, got %q", cli.String())
	}
}
