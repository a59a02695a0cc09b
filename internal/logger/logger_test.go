package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/torro-bt/torro/internal/logger"
)

func TestCloseFlushesFinalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torro.log")

	if err := logger.InitLogging(false, path); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	logger.Errorf("fatal: %v", "library unreachable")

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if !strings.Contains(string(data), "library unreachable") {
		t.Errorf("log file missing the final error, got %q", data)
	}

	// double Close happens when main also closes via defer
	if err := logger.Close(); err != nil {
		t.Errorf("expected second Close to be a no-op, got %v", err)
	}
}

func TestLoggingBeforeInitIsNoOp(t *testing.T) {
	// must not panic with no logger installed
	logger.Debugf("dropped %d", 1)
	logger.Infof("dropped")
	logger.Warnf("dropped")
	logger.Errorf("dropped")
}
