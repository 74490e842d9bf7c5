package main

import (
	"os"
	"path/filepath"
	"testing"
)

// binaryPath locates the built site_agent binary, skipping the test when it
// is absent or when running in short mode.
func binaryPath(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	path := filepath.Join("..", "..", "bin", "site_agent")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", path)
	}
	return path
}
