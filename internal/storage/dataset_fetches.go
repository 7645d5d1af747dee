package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// DatasetFetch records the last successful download of a dataset, so the
// next pull can be made conditional.
type DatasetFetch struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	SHA256       string    `json:"sha256,omitempty"`
	Bytes        int64     `json:"bytes"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// GetDatasetFetch returns the fetch record for a dataset, if any.
func (db *DB) GetDatasetFetch(name string) (*DatasetFetch, bool, error) {
	var f DatasetFetch
	var fetchedAt string
	err := db.QueryRow(`
		SELECT name, url, etag, last_modified, sha256, bytes, fetched_at
		FROM dataset_fetches
		WHERE name = ?
	`, name).Scan(&f.Name, &f.URL, &f.ETag, &f.LastModified, &f.SHA256, &f.Bytes, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("dataset fetch lookup failed: %w", err)
	}

	f.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return &f, true, nil
}

// PutDatasetFetch stores or replaces the fetch record for f.Name. A zero
// FetchedAt means now.
func (db *DB) PutDatasetFetch(f DatasetFetch) error {
	at := f.FetchedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := db.Exec(`
		INSERT OR REPLACE INTO dataset_fetches (name, url, etag, last_modified, sha256, bytes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.Name, f.URL, f.ETag, f.LastModified, f.SHA256, f.Bytes, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store dataset fetch: %w", err)
	}
	return nil
}

// ListDatasetFetches returns all fetch records ordered by name.
func (db *DB) ListDatasetFetches() ([]DatasetFetch, error) {
	rows, err := db.Query(`
		SELECT name, url, etag, last_modified, sha256, bytes, fetched_at
		FROM dataset_fetches
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetFetch
	for rows.Next() {
		var f DatasetFetch
		var fetchedAt string
		if err := rows.Scan(&f.Name, &f.URL, &f.ETag, &f.LastModified, &f.SHA256, &f.Bytes, &fetchedAt); err != nil {
			return nil, err
		}
		f.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		out = append(out, f)
	}
	return out, rows.Err()
}
