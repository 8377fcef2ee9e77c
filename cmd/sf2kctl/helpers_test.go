package main

import (
	"bytes"
	"os"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, true
	selftestDump, selftestSizes, selftestSeed, selftestOnly = "", 32, 1, nil
	benchDuration, benchSize = 0, 1024
	loadMaxSize = 0x200000
	poolsClasses, poolsCacheLine, poolsMmap = "", 32, false
}
