package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[log.Logger]

// New creates a stderr logger at the named level.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger for w at the named level. Entries carry
// no timestamp or caller.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// NewInteractive creates a timestamped logger for commands that report
// progress to a person, such as init and serve.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "gotypstyle",
		Level:           log.InfoLevel,
	})
}

// ParseLevel maps "debug", "info", "warn" (or "warning") and "error" to a
// level, ignoring case. Anything else is info.
func ParseLevel(level string) log.Level {
	if strings.EqualFold(level, "warning") {
		return log.WarnLevel
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == log.FatalLevel {
		return log.InfoLevel
	}
	return parsed
}

// Default returns the process-wide logger, creating an info-level stderr
// logger on first use.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New("info"))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
