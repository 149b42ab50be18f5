// Package logging builds the structured loggers used by every binary.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the given level
func New(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}

// Open creates a logger for a program that owns the terminal. Logs go to
// path when set and are discarded otherwise. The returned close function is
// always safe to call.
func Open(path, level, prefix string) (*log.Logger, func() error, error) {
	if path == "" {
		logger, err := New(io.Discard, level, prefix)
		return logger, func() error { return nil }, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := New(f, level, prefix)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f.Close, nil
}
