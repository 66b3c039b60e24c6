package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mdeco/internal/pathtree"
)

// FileRecord is one cataloged file. The baseline fields are denormalized
// into columns for querying; the full metadata tree is kept as JSON.
type FileRecord struct {
	ID            int64
	RunID         string
	Path          string
	FileName      string
	FileType      string
	FileSize      int64
	MimeType      string
	HashAlgorithm string
	HashValue     string
	MetadataJSON  string
	ScannedAt     time.Time
}

// DuplicateGroup lists the paths sharing one content hash.
type DuplicateGroup struct {
	Algorithm string
	Value     string
	Paths     []string
}

// SaveFile records a scanned file under a run. The baseline columns come
// from the metadata tree; a rescan of the same path within one run replaces
// the earlier record.
func (s *Store) SaveFile(ctx context.Context, runID, path string, metadata *pathtree.Tree) (*FileRecord, error) {
	if metadata == nil {
		return nil, errors.New("catalog: nil metadata tree")
	}
	encoded, err := metadata.JSON("")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	record := &FileRecord{
		RunID:         runID,
		Path:          path,
		FileName:      metadata.GetString("file_name"),
		FileType:      metadata.GetString("file_type"),
		MimeType:      metadata.GetString("mime_type"),
		HashAlgorithm: metadata.GetString("file_hash", "algorithm"),
		HashValue:     metadata.GetString("file_hash", "value"),
		MetadataJSON:  string(encoded),
		ScannedAt:     time.Now().UTC(),
	}
	if size, ok := metadata.Get("file_size"); ok {
		if n, ok := size.(int64); ok {
			record.FileSize = n
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO files (
            run_id, path, file_name, file_type, file_size, mime_type,
            hash_algorithm, hash_value, metadata_json, scanned_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (run_id, path) DO UPDATE SET
            file_name = excluded.file_name,
            file_type = excluded.file_type,
            file_size = excluded.file_size,
            mime_type = excluded.mime_type,
            hash_algorithm = excluded.hash_algorithm,
            hash_value = excluded.hash_value,
            metadata_json = excluded.metadata_json,
            scanned_at = excluded.scanned_at`,
		record.RunID, record.Path, record.FileName, record.FileType,
		record.FileSize, record.MimeType, record.HashAlgorithm,
		record.HashValue, record.MetadataJSON, timestamp(record.ScannedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert file record: %w", err)
	}
	if record.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("file record id: %w", err)
	}
	return record, nil
}

// FileByPath returns the most recently scanned record for a path.
func (s *Store) FileByPath(ctx context.Context, path string) (*FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		selectFileColumns+" FROM files WHERE path = ? ORDER BY scanned_at DESC, id DESC LIMIT 1",
		path)
	record, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return record, err
}

// ListFiles returns file records, newest first. A non-empty runID restricts
// the listing to one run; a positive limit caps it.
func (s *Store) ListFiles(ctx context.Context, runID string, limit int) ([]*FileRecord, error) {
	query := selectFileColumns + " FROM files"
	args := []any{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY scanned_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	defer rows.Close()

	var records []*FileRecord
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	return records, nil
}

// Duplicates groups distinct paths by content hash and returns the groups
// holding more than one path, ordered by hash value.
func (s *Store) Duplicates(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`WITH distinct_files AS (
             SELECT DISTINCT hash_algorithm, hash_value, path
             FROM files WHERE hash_value != ''
         )
         SELECT hash_algorithm, hash_value, path
         FROM distinct_files
         WHERE (hash_algorithm, hash_value) IN (
             SELECT hash_algorithm, hash_value FROM distinct_files
             GROUP BY hash_algorithm, hash_value
             HAVING COUNT(*) > 1
         )
         ORDER BY hash_value, path`)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	index := make(map[string]int)
	for rows.Next() {
		var algorithm, value, path string
		if err := rows.Scan(&algorithm, &value, &path); err != nil {
			return nil, fmt.Errorf("scan duplicate row: %w", err)
		}
		key := algorithm + ":" + value
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DuplicateGroup{Algorithm: algorithm, Value: value})
		}
		groups[i].Paths = append(groups[i].Paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	return groups, nil
}

const selectFileColumns = `SELECT id, run_id, path, file_name, file_type, file_size,
    mime_type, hash_algorithm, hash_value, metadata_json, scanned_at`

func scanFile(row rowScanner) (*FileRecord, error) {
	var record FileRecord
	var scannedAt string
	err := row.Scan(&record.ID, &record.RunID, &record.Path, &record.FileName,
		&record.FileType, &record.FileSize, &record.MimeType,
		&record.HashAlgorithm, &record.HashValue, &record.MetadataJSON, &scannedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan file row: %w", err)
	}
	if record.ScannedAt, err = time.Parse(time.RFC3339Nano, scannedAt); err != nil {
		return nil, fmt.Errorf("parse scan time: %w", err)
	}
	return &record, nil
}
