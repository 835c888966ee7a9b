package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/compstate/internal/ir"
)

// createTestStore opens a store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string, start ir.StatePath) Run {
	return Run{
		ID:            id,
		Machine:       "test",
		Engine:        "composite",
		Fingerprint:   "test-fingerprint",
		Start:         start,
		EngineVersion: ir.EngineVersion,
		TableVersion:  ir.TableVersion,
	}
}

// pragmaValue returns PRAGMA name as text.
func pragmaValue(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("PRAGMA %s: %v", name, err)
	}
	return value
}
