// Package testutil carries shared helpers for the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yyyup/panelkit/internal/logging"
)

// RunWithTempLog points the shared log file at a throwaway directory for
// the duration of a test binary, so test runs leave no log artifacts in
// the package directory. Use from TestMain.
func RunWithTempLog(m *testing.M) int {
	dir, err := os.MkdirTemp("", "panelkit-test-*")
	if err != nil {
		return m.Run()
	}
	defer os.RemoveAll(dir)
	logging.Configure(filepath.Join(dir, "panelkit.log"))
	return m.Run()
}
