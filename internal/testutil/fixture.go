// Package testutil provides access to the shared dataset fixtures under
// testdata/fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// BCDFixture is a trimmed Browser Compat Data document.
	BCDFixture = "bcd.json"
	// WebFeaturesFixture is a trimmed web-features document.
	WebFeaturesFixture = "web-features.json"
)

// FixturePath returns the absolute path of a fixture file, failing the test
// if it does not exist.
func FixturePath(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(getFixturesRoot(t), name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Fixture not found: %s", path)
	}
	return path
}

// OpenFixture opens a fixture file. The file is closed when the test ends.
func OpenFixture(t *testing.T, name string) *os.File {
	t.Helper()

	f, err := os.Open(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to open fixture %s: %v", name, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// ReadFixture returns the contents of a fixture file.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return data
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	// Get the directory of this source file
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}
