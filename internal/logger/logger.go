// Package logger provides the application-wide logging facade. Call
// InitLogging once at startup; before that, all logging calls are no-ops so
// library code never has to guard against a missing logger.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.RWMutex
	l    *log.Logger
	file *os.File
)

// InitLogging opens (or creates) the log file at path and routes all
// subsequent log calls to it. Debug enables debug-level output.
func InitLogging(debug bool, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "torro",
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
	}

	l, file = logger, f

	return nil
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	l = nil

	if file == nil {
		return nil
	}

	err := file.Close()
	file = nil

	return err
}

func Debugf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if l != nil {
		l.Debugf(format, args...)
	}
}

func Infof(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if l != nil {
		l.Infof(format, args...)
	}
}

func Warnf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if l != nil {
		l.Warnf(format, args...)
	}
}

func Errorf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if l != nil {
		l.Errorf(format, args...)
	}
}
