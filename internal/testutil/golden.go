// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// LintFunc lints Rust source and returns the rendered diagnostics.
type LintFunc func(input string) string

// RunGolden runs a single golden file test in the given directory.
// It reads input.rs, applies lintFn, and compares against expected.txt.
func RunGolden(t *testing.T, dir string, lintFn LintFunc) {
	t.Helper()

	inputPath := filepath.Join(dir, "input.rs")
	expectedPath := filepath.Join(dir, "expected.txt")

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}

	actual := lintFn(string(inputBytes))

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	if expected := string(expectedBytes); actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir runs RunGolden as a subtest for every subdirectory of
// testdataDir.
func RunGoldenDir(t *testing.T, testdataDir string, lintFn LintFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			RunGolden(t, filepath.Join(testdataDir, entry.Name()), lintFn)
		})
	}
}
