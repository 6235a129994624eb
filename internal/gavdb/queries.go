// Query methods over the gav table.

package gavdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// selectGAV is the shared column list. Order matters: scanArtifact depends
// on it.
const selectGAV = `
	SELECT group_id, artifact_id, artifact_version,
	file_name, major_version, version_seq, last_modified,
	size, sha1, signature_exists, sources_exists, javadoc_exists,
	classifier, file_extension, packaging, name
	FROM gav`

const (
	sqlSelectAll          = selectGAV + " LIMIT ? OFFSET ?"
	sqlSelectFileName     = selectGAV + " WHERE file_name = ? LIMIT 1"
	sqlSelectGAV          = selectGAV + " WHERE group_id = ? AND artifact_id = ? AND artifact_version = ? LIMIT ?"
	sqlSelectLastModified = "SELECT max(last_modified) FROM gav WHERE file_name LIKE ? LIMIT 1"
	// sqlSelectUpgrades finds newer versions of an artifact by version_seq.
	sqlSelectUpgrades = "SELECT DISTINCT artifact_version, max(last_modified) AS last_modified FROM gav" +
		" WHERE group_id = ? AND artifact_id = ? AND version_seq > ?" +
		" GROUP BY artifact_version ORDER BY version_seq LIMIT ?"
	sqlCount = "SELECT count(*) FROM gav"
)

// scanArtifact scans one row in selectGAV column order.
func scanArtifact(s interface{ Scan(...any) error }) (*Artifact, error) {
	var a Artifact
	err := s.Scan(
		&a.GroupID, &a.ArtifactID, &a.ArtifactVersion,
		&a.FileName, &a.MajorVersion, &a.VersionSeq, &a.LastModified,
		&a.Size, &a.SHA1, &a.SignatureExists, &a.SourcesExists, &a.JavadocExists,
		&a.Classifier, &a.FileExtension, &a.Packaging, &a.Name,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByFileName returns the artifact with the exact repository file name.
func (d *DB) GetByFileName(ctx context.Context, fileName string) (*Artifact, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}
	a, err := scanArtifact(db.QueryRowContext(ctx, sqlSelectFileName, fileName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file lookup failed: %w", err)
	}
	return a, nil
}

// LastModified returns the newest last_modified value among files whose
// name starts with the given stem.
func (d *DB) LastModified(ctx context.Context, stem string) (string, error) {
	db, err := d.conn()
	if err != nil {
		return "", err
	}
	// max() always yields a row; no match comes back as NULL.
	var lm sql.NullString
	if err := db.QueryRowContext(ctx, sqlSelectLastModified, stem+"%").Scan(&lm); err != nil {
		return "", fmt.Errorf("last-modified lookup failed: %w", err)
	}
	if !lm.Valid {
		return "", ErrNotFound
	}
	return lm.String, nil
}

// List returns a page of the gav table.
func (d *DB) List(ctx context.Context, limit, offset int) ([]Artifact, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, sqlSelectAll, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectArtifacts(rows)
}

// GetByGAV returns all artifacts of a GAV triple, up to limit rows
// (one per classifier/extension combination).
func (d *DB) GetByGAV(ctx context.Context, groupID, artifactID, artifactVersion string, limit int) ([]Artifact, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, sqlSelectGAV, groupID, artifactID, artifactVersion, limit)
	if err != nil {
		return nil, fmt.Errorf("gav query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectArtifacts(rows)
}

// Upgrades returns versions of the artifact newer than versionSeq, oldest
// first.
func (d *DB) Upgrades(ctx context.Context, groupID, artifactID string, versionSeq int64, limit int) ([]VersionUpdate, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, sqlSelectUpgrades, groupID, artifactID, versionSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("upgrade query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var updates []VersionUpdate
	for rows.Next() {
		var u VersionUpdate
		if err := rows.Scan(&u.ArtifactVersion, &u.LastModified); err != nil {
			return nil, fmt.Errorf("upgrade scan failed: %w", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("upgrade iteration failed: %w", err)
	}
	return updates, nil
}

// Stats returns the row count and file size for the admin surface.
// The count is a full table scan on a 26 GB database, so callers should
// treat it as expensive.
func (d *DB) Stats(ctx context.Context) (*Stats, error) {
	db, err := d.conn()
	if err != nil {
		return nil, err
	}
	var s Stats
	if err := db.QueryRowContext(ctx, sqlCount).Scan(&s.ArtifactCount); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}
	if fi, err := os.Stat(d.path); err == nil {
		s.FileSizeBytes = fi.Size()
	}
	return &s, nil
}

func collectArtifacts(rows *sql.Rows) ([]Artifact, error) {
	var items []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("artifact scan failed: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("artifact iteration failed: %w", err)
	}
	return items, nil
}
