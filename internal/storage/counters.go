package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Count returns the live rate counter for key. Expired rows are deleted
// lazily and reported absent.
func (s *Store) Count(ctx context.Context, key string) (int, bool, error) {
	var count int
	var expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT count, expires_at FROM rate_counters WHERE key = ?`, key,
	).Scan(&count, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("getting rate counter %q: %w", key, err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || s.now().After(expiry) {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM rate_counters WHERE key = ?`, key,
		); err != nil {
			return 0, false, fmt.Errorf("expiring rate counter %q: %w", key, err)
		}
		return 0, false, nil
	}

	return count, true, nil
}

// SetCount stores a counter value under key with the given time-to-live.
func (s *Store) SetCount(ctx context.Context, key string, n int, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_counters (key, count, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			count      = excluded.count,
			expires_at = excluded.expires_at`,
		key, n, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("setting rate counter %q: %w", key, err)
	}
	return nil
}
