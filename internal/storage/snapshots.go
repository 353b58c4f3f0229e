package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"prox/internal/errors"
	"prox/internal/snapshot"
)

// SnapshotStore persists snapshots with zstd-compressed file lists.
type SnapshotStore struct {
	db      *DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewSnapshotStore creates a snapshot store over the given database.
func NewSnapshotStore(db *DB) (*SnapshotStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &SnapshotStore{db: db, encoder: encoder, decoder: decoder}, nil
}

// Save stores a snapshot. The file list is JSON-encoded and zstd-compressed.
func (s *SnapshotStore) Save(snap *snapshot.Snapshot) error {
	raw, err := json.Marshal(snap.Files)
	if err != nil {
		return fmt.Errorf("failed to encode file list: %w", err)
	}
	blob := s.encoder.EncodeAll(raw, nil)

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO snapshots (id, fingerprint, source, file_count, files_blob, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Fingerprint, string(snap.Source), len(snap.Files), blob, snap.CreatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently created snapshot. A SnapshotMissing
// error is returned when none has been recorded.
func (s *SnapshotStore) Latest() (*snapshot.Snapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, fingerprint, source, files_blob, created_at
		FROM snapshots
		ORDER BY created_at DESC, id
		LIMIT 1
	`)
	return s.scanSnapshot(row)
}

// ByID returns the snapshot with the given ID.
func (s *SnapshotStore) ByID(id string) (*snapshot.Snapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, fingerprint, source, files_blob, created_at
		FROM snapshots
		WHERE id = ?
	`, id)
	return s.scanSnapshot(row)
}

func (s *SnapshotStore) scanSnapshot(row *sql.Row) (*snapshot.Snapshot, error) {
	var (
		id, fingerprint, source, createdAt string
		blob                               []byte
	)
	err := row.Scan(&id, &fingerprint, &source, &blob, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewProxError(
			errors.SnapshotMissing,
			"No snapshot recorded for this repository",
			nil,
			errors.GetSuggestedFixes(errors.SnapshotMissing),
			nil,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	raw, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot %s: %w", id, err)
	}

	var files []string
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at on snapshot %s: %w", id, err)
	}

	return &snapshot.Snapshot{
		ID:          id,
		Fingerprint: fingerprint,
		Source:      snapshot.Source(source),
		Files:       files,
		CreatedAt:   created,
	}, nil
}

// SnapshotInfo is a listing row without the file list.
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	FileCount   int       `json:"fileCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List returns snapshot metadata, newest first.
func (s *SnapshotStore) List(limit int) ([]SnapshotInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, fingerprint, source, file_count, created_at
		FROM snapshots
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &info.Fingerprint, &info.Source, &info.FileCount, &createdAt); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at on snapshot %s: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots and returns how many
// rows were removed.
func (s *SnapshotStore) Prune(keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := s.db.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots
			ORDER BY created_at DESC, id
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
