package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inkwelldev/inkwell/internal/models"
)

// GetAudience returns the audience with the given ID, upgraded to the
// current schema. Returns ErrNotFound if no such audience exists.
func (s *Store) GetAudience(ctx context.Context, id string) (*models.Audience, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM audiences WHERE id = ?`, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting audience %q: %w", id, err)
	}

	return decodeAudience(id, doc)
}

// ListAudiences returns every audience ordered by name, each upgraded to
// the current schema.
func (s *Store) ListAudiences(ctx context.Context) ([]models.Audience, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM audiences ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying audiences: %w", err)
	}
	defer rows.Close()

	var audiences []models.Audience
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning audience row: %w", err)
		}
		audience, err := decodeAudience(id, doc)
		if err != nil {
			return nil, err
		}
		audiences = append(audiences, *audience)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audience rows: %w", err)
	}
	return audiences, nil
}

// SaveAudience stores an audience as a whole document, replacing any
// existing record with the same ID.
func (s *Store) SaveAudience(ctx context.Context, audience *models.Audience) error {
	if audience.ID == "" {
		return errors.New("audience ID is required")
	}

	audience.Updated = time.Now().UTC().Truncate(time.Second)
	audience.Version = models.CurrentSchemaVersion

	doc, err := json.Marshal(audience)
	if err != nil {
		return fmt.Errorf("marshaling audience %q: %w", audience.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audiences (id, name, updated_at, version, doc)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			updated_at = excluded.updated_at,
			version    = excluded.version,
			doc        = excluded.doc`,
		audience.ID, audience.Name, audience.Updated.Format(time.RFC3339), audience.Version, string(doc),
	)
	if err != nil {
		return fmt.Errorf("saving audience %q: %w", audience.ID, err)
	}
	return nil
}

// DeleteAudience removes an audience by ID. Returns ErrNotFound if no such
// audience exists.
func (s *Store) DeleteAudience(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audiences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting audience %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of audience %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeAudience unmarshals a stored document and applies the v1→v2
// upgrade.
func decodeAudience(id, doc string) (*models.Audience, error) {
	var audience models.Audience
	if err := json.Unmarshal([]byte(doc), &audience); err != nil {
		return nil, fmt.Errorf("unmarshaling audience %q: %w", id, err)
	}
	audience.ID = id
	audience = models.UpgradeAudience(audience)
	return &audience, nil
}
