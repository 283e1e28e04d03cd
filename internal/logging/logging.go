package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a file-backed logrus logger. The TUI owns the terminal, so the
// logger never writes to stdout; if the log file cannot be opened, output is
// discarded rather than corrupting the screen.
func New(level, path string) *logrus.Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logger.SetOutput(io.Discard)
	if path == "" {
		return logger
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return logger
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logger
	}
	logger.SetOutput(f)
	return logger
}
