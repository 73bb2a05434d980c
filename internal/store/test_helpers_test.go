package store

import (
	"path/filepath"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a store in a temp dir with fixed IDs and clock.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"run-1", "run-2", "run-3", "run-4"}
	}
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(NewFixedGenerator(ids...)),
		WithClock(func() time.Time { return testEpoch.Add(time.Minute) }),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
