// Package logger wraps log/slog with printf-style helpers. Output is
// discarded until Init is called so a running TUI is never written over.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logLevel      = new(slog.LevelVar)
)

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init points the package logger at output with the given minimum level.
func Init(level slog.Level, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	logLevel.Set(level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}

	mu.Lock()
	defaultLogger = slog.New(slog.NewTextHandler(output, &opts))
	mu.Unlock()
}

// OpenFile initialises the logger to append to path. An empty path or "-"
// logs to stderr. The returned closer releases the file.
func OpenFile(level slog.Level, path string) (io.Closer, error) {
	if path == "" || path == "-" {
		Init(level, os.Stderr)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Init(level, file)
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	logLevel.Set(level)
}

// Logger exposes the underlying slog logger for structured calls.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func logAtLevel(level slog.Level, format string, args ...any) {
	l := Logger()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}

	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	_ = l.Handler().Handle(ctx, r)
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) { logAtLevel(slog.LevelDebug, format, args...) }

// Infof logs at info level.
func Infof(format string, args ...any) { logAtLevel(slog.LevelInfo, format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...any) { logAtLevel(slog.LevelWarn, format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...any) { logAtLevel(slog.LevelError, format, args...) }
