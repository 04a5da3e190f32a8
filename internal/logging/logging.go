// Package logging owns the process-wide logrus logger. Output is discarded
// until Configure points it at a file, since the UI owns the terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultFile is the log file name inside the state directory.
const DefaultFile = "vibetree.log"

var (
	mu     sync.Mutex
	logger = newLogger()
	file   *os.File
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// L returns the shared logger.
func L() *logrus.Logger {
	return logger
}

// Configure sends log output to path at the given level ("debug", "info",
// "warn", ...). An empty path keeps output discarded. Parent directories are
// created when missing.
func Configure(path, level string) error {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	mu.Lock()
	defer mu.Unlock()

	logger.SetLevel(lvl)
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	if file != nil {
		_ = file.Close()
	}
	file = f
	logger.SetOutput(f)
	return nil
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Close flushes and closes the log file, if any, and discards further output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(io.Discard)
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}
