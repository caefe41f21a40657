// SPDX-License-Identifier: EPL-2.0

// Package logger configures the process-wide slog logger.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrUnknownLevel = errors.New("unknown log level")

// Setup installs the default logger. level is one of none, debug, info,
// warn or error; format is text or json. When file is set logs are appended
// to it instead of stderr and the returned closer must be closed on exit.
func Setup(level, format, file string) (io.Closer, error) {
	h, closer, err := NewHandler(level, format, file)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(h))
	return closer, nil
}

// NewHandler builds the handler Setup installs.
func NewHandler(level, format, file string) (slog.Handler, io.Closer, error) {
	var opts slog.HandlerOptions

	switch strings.ToLower(level) {
	case "none":
		return slog.DiscardHandler, nopCloser{}, nil
	case "debug":
		opts.Level = slog.LevelDebug
	case "info", "":
		opts.Level = slog.LevelInfo
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("%q: %w", level, ErrUnknownLevel)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, &opts), closer, nil
	}
	return slog.NewTextHandler(w, &opts), closer, nil
}

// WithComponent returns the default logger tagged with a component name.
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
