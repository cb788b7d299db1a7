// Package logger provides leveled logging for the semdesk service.
// The level defaults to info and is normally set once at startup from
// configuration or the SEMDESK_LOG environment variable.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.RWMutex
	level  Level     = LevelInfo
	output io.Writer = os.Stderr
)

// ParseLevel maps a level name to a Level. Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel sets the minimum level that is emitted.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput sets the output writer for log messages.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(l Level, tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l >= level {
		fmt.Fprintf(output, tag+format+"\n", args...)
	}
}

// Debug prints a debug message.
func Debug(format string, args ...any) {
	emit(LevelDebug, "[DEBUG] ", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	emit(LevelInfo, "[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	emit(LevelWarn, "[WARN] ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	emit(LevelError, "[ERROR] ", format, args...)
}
