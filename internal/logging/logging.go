package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// New builds a slog logger backed by charmbracelet/log. format is "text" or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	}
	switch format {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "text", "":
		opts.Formatter = log.TextFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return slog.New(log.NewWithOptions(w, opts)), nil
}

// Setup installs the logger as the slog default so package level slog calls go through it.
func Setup(w io.Writer, level, format string) error {
	logger, err := New(w, level, format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
