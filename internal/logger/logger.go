package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	_level  = new(slog.LevelVar)
	_logger *slog.Logger
)

func init() {
	_level.Set(slog.LevelDebug)
	_logger = NewSlogger(os.Stdout)
}

func handler(w io.Writer) *slog.TextHandler {
	var opts = &slog.HandlerOptions{
		Level: _level,
	}
	return slog.NewTextHandler(w, opts)
}

func handle(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := _logger
	mu.RUnlock()
	if !l.Enabled(context.Background(), level) {
		return
	}

	_, f, line, _ := runtime.Caller(2)
	source := fmt.Sprintf("%s:%d", f, line)
	args = append(args, slog.String("source", source))

	l.Log(context.Background(), level, msg, args...)
}

func Debug(msg string, args ...any) {
	handle(slog.LevelDebug, msg, args...)
}

func Info(msg string, args ...any) {
	handle(slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	handle(slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	handle(slog.LevelError, msg, args...)
}

// SetOutput redirects all subsequent log records to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	_logger = NewSlogger(w)
	mu.Unlock()
}

// SetLevel sets the minimum level that is emitted.
func SetLevel(level slog.Level) {
	_level.Set(level)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func NewSlogger(w io.Writer) *slog.Logger {
	return slog.New(handler(w))
}
