package slogutil

import (
	"io"
	"log/slog"
	"path/filepath"

	"webcompat/internal/config"
	"webcompat/internal/paths"
)

// MCPLogFile is the default log file name of the MCP server.
const MCPLogFile = "mcp.log"

// LoggerFactory creates loggers from configuration.
// Precedence for the level: CLI flag > config > default (info).
type LoggerFactory struct {
	config   *config.Config
	cliLevel *slog.Level
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory. cliLevel is nil when no
// CLI override was given.
func NewLoggerFactory(cfg *config.Config, cliLevel *slog.Level) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{
		config:   cfg,
		cliLevel: cliLevel,
	}
}

// MCPLogger creates the logger of the MCP server. It writes to stderr,
// since stdout carries the protocol, and additionally to the configured
// log file. A file that cannot be opened is reported on stderr and skipped.
func (f *LoggerFactory) MCPLogger(stderr io.Writer) *slog.Logger {
	level := f.effectiveLevel()
	format := f.config.Logging.Format

	handlers := []slog.Handler{NewFormatHandler(stderr, level, format)}

	if path, ok := f.logFilePath(); ok {
		maxSize := int64(f.config.Logging.MaxSizeMB) * 1024 * 1024
		rf, err := OpenRotatingFile(path, maxSize, f.config.Logging.MaxBackups)
		if err != nil {
			slog.New(handlers[0]).Warn("Cannot open log file", "path", path, "error", err)
		} else {
			f.closers = append(f.closers, rf)
			handlers = append(handlers, NewFormatHandler(rf, level, format))
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(NewTeeHandler(handlers...))
}

// CLILogger creates a stderr logger for one-shot commands.
func (f *LoggerFactory) CLILogger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if f.cliLevel != nil {
		level = *f.cliLevel
	}
	return NewLogger(stderr, level, f.config.Logging.Format)
}

// logFilePath resolves the configured log file. Relative names live in the
// log directory under the data home.
func (f *LoggerFactory) logFilePath() (string, bool) {
	file := f.config.Logging.File
	if file == "" {
		return "", false
	}

	expanded, err := paths.ExpandHome(file)
	if err != nil {
		return "", false
	}
	if filepath.IsAbs(expanded) {
		return expanded, true
	}

	dir, err := paths.GetLogDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, expanded), true
}

func (f *LoggerFactory) effectiveLevel() slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	if f.config.Logging.Level != "" {
		return LevelFromString(f.config.Logging.Level)
	}
	return slog.LevelInfo
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
