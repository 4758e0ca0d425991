// Package logger provides leveled logging for heicconv.
// When HEICCONV_DEBUG=1, logs at Debug level are written to stderr and to heicconv-debug.log (in current directory).
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"HeicConvert/internal/config"
)

var (
	debug    bool
	mu       sync.RWMutex
	log      *slog.Logger
	file     *os.File
	initOnce sync.Once
)

func initLogger() {
	initOnce.Do(func() {
		debug = os.Getenv("HEICCONV_DEBUG") == "1"
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}

		var w io.Writer = os.Stderr
		if debug {
			dir, _ := os.Getwd()
			if dir == "" {
				dir = os.TempDir()
			}
			logPath := filepath.Join(dir, "heicconv-debug.log")
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				file = f
				w = io.MultiWriter(os.Stderr, f)
			}
		}
		mu.Lock()
		log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: true}))
		mu.Unlock()
	})
}

// Setup replaces the logger with one built from cfg writing to w (stderr if nil).
// HEICCONV_DEBUG=1 still forces debug level.
func Setup(cfg config.LogConfig, w io.Writer) *slog.Logger {
	initLogger()
	if w == nil {
		w = os.Stderr
	}
	if file != nil {
		w = io.MultiWriter(w, file)
	}
	level := ParseLevel(cfg.Level)
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h)
	mu.Lock()
	log = l
	mu.Unlock()
	return l
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level; default info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func current() *slog.Logger {
	initLogger()
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs at Debug level. Keys must be string; values can be any type.
func Debug(msg string, keyvals ...any) {
	current().Debug(msg, keyvals...)
}

// Info logs at Info level.
func Info(msg string, keyvals ...any) {
	current().Info(msg, keyvals...)
}

// Warn logs at Warn level.
func Warn(msg string, keyvals ...any) {
	current().Warn(msg, keyvals...)
}

// Error logs at Error level.
func Error(msg string, keyvals ...any) {
	current().Error(msg, keyvals...)
}

// Close closes the debug log file if one was opened. Call from main on exit if desired.
func Close() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}
