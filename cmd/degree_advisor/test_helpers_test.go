package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the degree_advisor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "degree_advisor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/degree_advisor ./cmd/degree_advisor'", binaryPath)
	}

	return binaryPath
}

func testdataPath(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}
