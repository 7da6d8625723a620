package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
)

// SeenRecently reports whether hash has a ledger entry last seen within window.
func (s *SQLiteStorage) SeenRecently(ctx context.Context, hash string, window time.Duration) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateHash(hash); err != nil {
		return false, err
	}
	if window <= 0 {
		return false, fmt.Errorf("%w: %s", ErrInvalidRange, window)
	}

	cutoff := s.now().UTC().Add(-window).Unix()

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM file_history WHERE sha256 = ? AND last_seen_utc > ?)
	`, hash, cutoff).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query file history: %w", err)
	}

	return exists, nil
}

// Record upserts the ledger entry for hash. A negative size leaves any
// previously stored size untouched.
func (s *SQLiteStorage) Record(ctx context.Context, hash, path string, size int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateHash(hash); err != nil {
		return err
	}
	if err := validateString(path, "path"); err != nil {
		return err
	}

	var sizeArg sql.NullInt64
	if size >= 0 {
		sizeArg = sql.NullInt64{Int64: size, Valid: true}
	}
	now := s.now().UTC().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_history (sha256, size, first_seen_utc, last_seen_utc, last_path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sha256) DO UPDATE SET
			last_seen_utc = MAX(excluded.last_seen_utc, first_seen_utc),
			last_path = excluded.last_path,
			size = COALESCE(excluded.size, size)
	`, hash, sizeArg, now, now, path)
	if err != nil {
		return fmt.Errorf("failed to record file history: %w", err)
	}

	return nil
}

// GetEntry returns the ledger entry for hash, or common.ErrNotFound.
func (s *SQLiteStorage) GetEntry(ctx context.Context, hash string) (*model.LedgerEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateHash(hash); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT sha256, size, first_seen_utc, last_seen_utc, last_path
		FROM file_history
		WHERE sha256 = ?
	`, hash)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file history: %w", err)
	}

	return entry, nil
}

// ListEntries returns the most recently seen ledger entries, newest first.
// A limit of zero or less returns every entry.
func (s *SQLiteStorage) ListEntries(ctx context.Context, limit int) ([]model.LedgerEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listEntries(ctx, s.db, limit)
}

func (s *SQLiteStorage) listEntries(ctx context.Context, q queryable, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := q.QueryContext(ctx, `
		SELECT sha256, size, first_seen_utc, last_seen_utc, last_path
		FROM file_history
		ORDER BY last_seen_utc DESC, sha256
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query file history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file history: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

// CountEntries returns the number of hashes in the ledger.
func (s *SQLiteStorage) CountEntries(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count file history: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.LedgerEntry, error) {
	var (
		entry     model.LedgerEntry
		size      sql.NullInt64
		lastPath  sql.NullString
		firstSeen int64
		lastSeen  int64
	)

	if err := row.Scan(&entry.Hash, &size, &firstSeen, &lastSeen, &lastPath); err != nil {
		return nil, err
	}

	entry.Size = -1
	if size.Valid {
		entry.Size = size.Int64
	}
	entry.LastPath = lastPath.String
	entry.FirstSeen = time.Unix(firstSeen, 0).UTC()
	entry.LastSeen = time.Unix(lastSeen, 0).UTC()

	return &entry, nil
}
