package gavdb

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const createTableSQL = `CREATE TABLE gav (
	group_id TEXT,
	artifact_id TEXT,
	artifact_version TEXT,
	file_name TEXT,
	major_version INTEGER,
	version_seq INTEGER,
	last_modified TEXT,
	size INTEGER,
	sha1 TEXT,
	signature_exists INTEGER,
	sources_exists INTEGER,
	javadoc_exists INTEGER,
	classifier TEXT,
	file_extension TEXT,
	packaging TEXT,
	name TEXT
)`

const insertSQL = `INSERT INTO gav VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// testRows is a small slice of the real gav table: three versions of one
// artifact (one with a sources classifier) plus an unrelated artifact.
var testRows = []Artifact{
	{
		GroupID: "com.example", ArtifactID: "widget", ArtifactVersion: "1.0.0",
		FileName: "widget-1.0.0.jar", MajorVersion: 1, VersionSeq: 100,
		LastModified: "2023-01-10 12:00:00", Size: 1000, SHA1: "aaa",
		SignatureExists: 1, FileExtension: "jar", Packaging: "jar", Name: "Widget",
	},
	{
		GroupID: "com.example", ArtifactID: "widget", ArtifactVersion: "1.1.0",
		FileName: "widget-1.1.0.jar", MajorVersion: 1, VersionSeq: 110,
		LastModified: "2023-06-15 12:00:00", Size: 1100, SHA1: "bbb",
		SignatureExists: 1, SourcesExists: 1, FileExtension: "jar", Packaging: "jar", Name: "Widget",
	},
	{
		GroupID: "com.example", ArtifactID: "widget", ArtifactVersion: "1.1.0",
		FileName: "widget-1.1.0-sources.jar", MajorVersion: 1, VersionSeq: 110,
		LastModified: "2023-06-15 12:00:01", Size: 500, SHA1: "ccc",
		Classifier: "sources", FileExtension: "jar", Packaging: "jar", Name: "Widget",
	},
	{
		GroupID: "com.example", ArtifactID: "widget", ArtifactVersion: "2.0.0",
		FileName: "widget-2.0.0.jar", MajorVersion: 2, VersionSeq: 200,
		LastModified: "2024-02-01 09:30:00", Size: 2000, SHA1: "ddd",
		SignatureExists: 1, FileExtension: "jar", Packaging: "jar", Name: "Widget",
	},
	{
		GroupID: "org.other", ArtifactID: "gadget", ArtifactVersion: "0.1",
		FileName: "gadget-0.1.pom", MajorVersion: 0, VersionSeq: 1,
		LastModified: "2022-11-30 08:00:00", Size: 42, SHA1: "eee",
		FileExtension: "pom", Packaging: "pom", Name: "Gadget",
	},
}

// createTestDB writes a gav fixture to a temp file and returns an open
// read-only handle to it.
func createTestDB(t *testing.T, rows []Artifact) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mavendb.sqlite")
	seedTestDB(t, path, rows)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func seedTestDB(t *testing.T, path string, rows []Artifact) {
	t.Helper()
	w, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture db: %v", err)
	}
	defer func() { _ = w.Close() }()
	if _, err := w.Exec(createTableSQL); err != nil {
		t.Fatalf("failed to create gav table: %v", err)
	}
	for _, a := range rows {
		_, err := w.Exec(insertSQL,
			a.GroupID, a.ArtifactID, a.ArtifactVersion,
			a.FileName, a.MajorVersion, a.VersionSeq, a.LastModified,
			a.Size, a.SHA1, a.SignatureExists, a.SourcesExists, a.JavadocExists,
			a.Classifier, a.FileExtension, a.Packaging, a.Name)
		if err != nil {
			t.Fatalf("failed to insert fixture row %s: %v", a.FileName, err)
		}
	}
}

func TestOpen_MissingFile(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "missing.sqlite"))
	if err != nil {
		t.Fatalf("Open() on missing file should not fail: %v", err)
	}
	defer func() { _ = d.Close() }()

	if d.Available() {
		t.Error("handle should start unavailable when the file is missing")
	}
	_, err = d.GetByFileName(t.Context(), "widget-1.0.0.jar")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestDB_GetByFileName(t *testing.T) {
	d := createTestDB(t, testRows)

	a, err := d.GetByFileName(t.Context(), "widget-1.1.0.jar")
	if err != nil {
		t.Fatalf("GetByFileName() failed: %v", err)
	}
	if a.GroupID != "com.example" || a.ArtifactID != "widget" || a.ArtifactVersion != "1.1.0" {
		t.Errorf("unexpected GAV: %s/%s/%s", a.GroupID, a.ArtifactID, a.ArtifactVersion)
	}
	if a.VersionSeq != 110 {
		t.Errorf("expected VersionSeq=110, got %d", a.VersionSeq)
	}
	if a.SourcesExists != 1 {
		t.Errorf("expected SourcesExists=1, got %d", a.SourcesExists)
	}
	if a.Size != 1100 {
		t.Errorf("expected Size=1100, got %d", a.Size)
	}

	_, err = d.GetByFileName(t.Context(), "nope.jar")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDB_LastModified(t *testing.T) {
	d := createTestDB(t, testRows)

	// The stem matches both the jar and the sources jar; the sources jar
	// is one second newer.
	lm, err := d.LastModified(t.Context(), "widget-1.1.0")
	if err != nil {
		t.Fatalf("LastModified() failed: %v", err)
	}
	if lm != "2023-06-15 12:00:01" {
		t.Errorf("expected newest timestamp, got %q", lm)
	}

	// max() over zero rows yields NULL, which must come back as not found.
	_, err = d.LastModified(t.Context(), "no-such-artifact")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDB_List(t *testing.T) {
	d := createTestDB(t, testRows)

	items, err := d.List(t.Context(), 100, 0)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(items) != len(testRows) {
		t.Fatalf("expected %d items, got %d", len(testRows), len(items))
	}

	page, err := d.List(t.Context(), 2, 2)
	if err != nil {
		t.Fatalf("List() with offset failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 items, got %d", len(page))
	}

	empty, err := d.List(t.Context(), 10, 100)
	if err != nil {
		t.Fatalf("List() past the end failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no items past the end, got %d", len(empty))
	}
}

func TestDB_GetByGAV(t *testing.T) {
	d := createTestDB(t, testRows)

	items, err := d.GetByGAV(t.Context(), "com.example", "widget", "1.1.0", 100)
	if err != nil {
		t.Fatalf("GetByGAV() failed: %v", err)
	}
	// One row per file: the jar and its sources jar.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, a := range items {
		if a.ArtifactVersion != "1.1.0" {
			t.Errorf("unexpected version %q", a.ArtifactVersion)
		}
	}

	items, err = d.GetByGAV(t.Context(), "com.example", "widget", "9.9.9", 100)
	if err != nil {
		t.Fatalf("GetByGAV() for unknown version failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestDB_Upgrades(t *testing.T) {
	d := createTestDB(t, testRows)

	updates, err := d.Upgrades(t.Context(), "com.example", "widget", 100, 1000)
	if err != nil {
		t.Fatalf("Upgrades() failed: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("expected 2 upgrades, got %d", len(updates))
	}
	// Oldest first, one entry per version.
	if updates[0].ArtifactVersion != "1.1.0" || updates[1].ArtifactVersion != "2.0.0" {
		t.Errorf("unexpected upgrade order: %v", updates)
	}
	// 1.1.0 has two files; the newest timestamp wins.
	if updates[0].LastModified != "2023-06-15 12:00:01" {
		t.Errorf("expected newest timestamp for 1.1.0, got %q", updates[0].LastModified)
	}

	updates, err = d.Upgrades(t.Context(), "com.example", "widget", 200, 1000)
	if err != nil {
		t.Fatalf("Upgrades() on newest version failed: %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("expected no upgrades for the newest version, got %d", len(updates))
	}

	updates, err = d.Upgrades(t.Context(), "com.example", "widget", 100, 1)
	if err != nil {
		t.Fatalf("Upgrades() with limit failed: %v", err)
	}
	if len(updates) != 1 {
		t.Errorf("expected limit to cap results, got %d", len(updates))
	}
}

func TestDB_Stats(t *testing.T) {
	d := createTestDB(t, testRows)

	s, err := d.Stats(t.Context())
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if s.ArtifactCount != int64(len(testRows)) {
		t.Errorf("expected count %d, got %d", len(testRows), s.ArtifactCount)
	}
	if s.FileSizeBytes <= 0 {
		t.Errorf("expected positive file size, got %d", s.FileSizeBytes)
	}
}

func TestDB_MarkUnavailableAndReopen(t *testing.T) {
	d := createTestDB(t, testRows)

	d.MarkUnavailable()
	if d.Available() {
		t.Error("Available() should be false after MarkUnavailable")
	}
	if _, err := d.List(t.Context(), 10, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	if err := d.Reopen(); err != nil {
		t.Fatalf("Reopen() failed: %v", err)
	}
	if !d.Available() {
		t.Error("Available() should be true after Reopen")
	}
	if _, err := d.GetByFileName(t.Context(), "widget-1.0.0.jar"); err != nil {
		t.Errorf("query after Reopen failed: %v", err)
	}
}

func TestDB_WatchHandlesFileSwap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mavendb.sqlite")
	seedTestDB(t, path, testRows)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() { _ = d.Close() }()
	if err := d.Watch(t.Context()); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	// Maintenance starts: the file goes away and the watcher detaches
	// the pool.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return !d.Available() },
		"watcher should mark the handle unavailable after removal")

	// The new file lands and the watcher reopens automatically.
	seedTestDB(t, path, testRows)
	waitFor(t, func() bool {
		if !d.Available() {
			return false
		}
		_, err := d.GetByFileName(t.Context(), "widget-1.0.0.jar")
		return err == nil
	}, "watcher should reopen once the new file is in place")
}

// waitFor polls cond until it holds or the deadline passes. The fsnotify
// events arrive asynchronously, so swap tests have to poll.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestDB_QueryOnly(t *testing.T) {
	d := createTestDB(t, testRows)

	db, err := d.conn()
	if err != nil {
		t.Fatalf("conn() failed: %v", err)
	}
	if _, err := db.ExecContext(t.Context(), "DELETE FROM gav"); err == nil {
		t.Error("writes should be rejected on the read-only handle")
	}
}
