package handlers

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mavendb/mavend/internal/gavdb"
)

// newTestDB seeds a small gav fixture and returns a read-only handle:
// three versions of com.example/widget (1.1.0 with a sources jar) and one
// unrelated pom.
func newTestDB(t *testing.T) *gavdb.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mavendb.sqlite")

	// The sqlite driver is registered by the gavdb package.
	w, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture db: %v", err)
	}
	stmts := []string{
		`CREATE TABLE gav (
			group_id TEXT, artifact_id TEXT, artifact_version TEXT,
			file_name TEXT, major_version INTEGER, version_seq INTEGER, last_modified TEXT,
			size INTEGER, sha1 TEXT, signature_exists INTEGER, sources_exists INTEGER, javadoc_exists INTEGER,
			classifier TEXT, file_extension TEXT, packaging TEXT, name TEXT
		)`,
		`INSERT INTO gav VALUES
			('com.example', 'widget', '1.0.0', 'widget-1.0.0.jar', 1, 100, '2023-01-10 12:00:00',
			 1000, 'aaa', 1, 0, 0, '', 'jar', 'jar', 'Widget'),
			('com.example', 'widget', '1.1.0', 'widget-1.1.0.jar', 1, 110, '2023-06-15 12:00:00',
			 1100, 'bbb', 1, 1, 0, '', 'jar', 'jar', 'Widget'),
			('com.example', 'widget', '1.1.0', 'widget-1.1.0-sources.jar', 1, 110, '2023-06-15 12:00:01',
			 500, 'ccc', 0, 0, 0, 'sources', 'jar', 'jar', 'Widget'),
			('com.example', 'widget', '2.0.0', 'widget-2.0.0.jar', 2, 200, '2024-02-01 09:30:00',
			 2000, 'ddd', 1, 0, 0, '', 'jar', 'jar', 'Widget'),
			('org.other', 'gadget', '0.1', 'gadget-0.1.pom', 0, 1, '2022-11-30 08:00:00',
			 42, 'eee', 0, 0, 0, '', 'pom', 'pom', 'Gadget')`,
	}
	for _, stmt := range stmts {
		if _, err := w.Exec(stmt); err != nil {
			t.Fatalf("failed to seed fixture: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close fixture writer: %v", err)
	}

	d, err := gavdb.Open(path)
	if err != nil {
		t.Fatalf("gavdb.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}
