package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Credential returns the stored (encrypted) API key for a provider, or ""
// when none has been saved.
func (s *Store) Credential(ctx context.Context, providerID string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx,
		`SELECT api_key FROM credentials WHERE provider_id = ?`, providerID,
	).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("getting credential for %q: %w", providerID, err)
	}
	return key, nil
}

// SetCredential stores the encrypted API key for a provider, replacing any
// previous value.
func (s *Store) SetCredential(ctx context.Context, providerID, encryptedKey string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (provider_id, api_key, updated_at)
		 VALUES (?, ?, datetime('now'))
		 ON CONFLICT(provider_id) DO UPDATE SET
			api_key    = excluded.api_key,
			updated_at = excluded.updated_at`,
		providerID, encryptedKey,
	)
	if err != nil {
		return fmt.Errorf("setting credential for %q: %w", providerID, err)
	}
	return nil
}

// DefaultProvider returns the provider ID marked as default, or "" when no
// default has been chosen.
func (s *Store) DefaultProvider(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT provider_id FROM credentials WHERE is_default = 1 LIMIT 1`,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("getting default provider: %w", err)
	}
	return id, nil
}

// SetDefaultProvider marks a provider as the default, clearing any previous
// default. A credential row is created if the provider has no stored key
// yet.
func (s *Store) SetDefaultProvider(ctx context.Context, providerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning default-provider transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `UPDATE credentials SET is_default = 0`); err != nil {
		return fmt.Errorf("clearing default provider: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO credentials (provider_id, api_key, is_default, updated_at)
		 VALUES (?, '', 1, datetime('now'))
		 ON CONFLICT(provider_id) DO UPDATE SET
			is_default = 1,
			updated_at = excluded.updated_at`,
		providerID,
	); err != nil {
		return fmt.Errorf("setting default provider %q: %w", providerID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing default provider: %w", err)
	}
	return nil
}
