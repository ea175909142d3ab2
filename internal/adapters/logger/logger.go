// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/typegen/internal/core/ports"
)

const (
	// FormatEnv selects the output format; "json" switches to JSON lines.
	FormatEnv = "TYPEGEN_LOG_FORMAT"
	// LevelEnv sets the minimum level: debug, info, warn or error.
	LevelEnv = "TYPEGEN_LOG_LEVEL"
)

// messager is implemented by zerr errors.
type messager interface {
	Message() string
}

// metadater is implemented by zerr errors.
type metadater interface {
	Metadata() map[string]any
}

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing to stderr, configured from the environment.
func New() *Logger {
	l := &Logger{level: &slog.LevelVar{}, output: os.Stderr}
	if lvl, ok := parseLevel(os.Getenv(LevelEnv)); ok {
		l.level.Set(lvl)
	}
	l.jsonMode = strings.EqualFold(os.Getenv(FormatEnv), "json")
	l.rebuild()
	return l
}

// SetOutput changes the destination, keeping the format. A nil w means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.rebuild()
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// rebuild must be called with mu held, or before l is shared.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg, args...)
}

// Error logs err. In pretty mode the cause chain is printed one cause per
// line.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err.Error())
		return
	}
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain of err. Each zerr level contributes its
// own message and metadata; the first non-zerr error ends the walk.
// Joined errors contribute one entry per branch.
func collectErrorEntries(err error) []string {
	var entries []string
	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(e)...)
			}
			return entries
		}

		m, ok := err.(messager)
		if !ok {
			return append(entries, err.Error())
		}
		entry := m.Message()
		if md, ok := err.(metadater); ok {
			entry = appendMetadata(entry, md.Metadata())
		}
		if entry != "" {
			entries = append(entries, entry)
		}
		err = errors.Unwrap(err)
	}
	return entries
}

func appendMetadata(msg string, md map[string]any) string {
	if len(md) == 0 {
		return msg
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, md[k]))
	}
	if msg == "" {
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

func formatErrorEntries(entries []string) string {
	var lines []string
	for i, entry := range entries {
		entryLines := strings.Split(entry, "\n")
		switch i {
		case 0:
			lines = append(lines, "Error: "+entryLines[0])
			for _, line := range entryLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		case 1:
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+entryLines[0])
		for _, line := range entryLines[1:] {
			lines = append(lines, "      "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func parseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if s == "" || level.UnmarshalText([]byte(s)) != nil {
		return slog.LevelInfo, false
	}
	return level, true
}
