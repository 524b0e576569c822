// Package logging builds the logrus logger shared by every stargazer
// component. The TUI owns the terminal, so log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options select where and how verbosely to log.
type Options struct {
	// File is the log file path. Empty logs to Fallback.
	File    string
	Verbose bool
	// Fallback receives output when File is empty. Defaults to os.Stderr.
	Fallback io.Writer
}

// New returns a configured logger and a function that closes its sink.
func New(opts Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	logger.SetLevel(logrus.InfoLevel)
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	path := strings.TrimSpace(opts.File)
	if path == "" {
		out := opts.Fallback
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
