package dbopen

import (
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestOpen_MkdirAllAndSchema(t *testing.T) {
	// WHAT: WithMkdirAll creates missing parent directories and WithSchema
	// runs before Open returns.
	// WHY: First boot on a clean host must not require manual setup.
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "test.db")

	db, err := Open(path, WithMkdirAll(), WithSchema(`CREATE TABLE t (id TEXT PRIMARY KEY)`))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent dir missing: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (id) VALUES ('a')`); err != nil {
		t.Errorf("schema table unusable: %v", err)
	}
}

func TestOpen_PragmasApplied(t *testing.T) {
	// WHAT: foreign_keys is ON after Open.
	// WHY: SQLite defaults it off; callers rely on enforced references.
	db := OpenMemory(t)

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("pragma query: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys: got %d, want 1", fk)
	}
}
