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

// GetVoiceProfile returns the voice profile with the given ID, upgraded to
// the current schema. Returns ErrNotFound if no such profile exists.
func (s *Store) GetVoiceProfile(ctx context.Context, id string) (*models.VoiceProfile, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM voice_profiles WHERE id = ?`, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting voice profile %q: %w", id, err)
	}

	return decodeVoiceProfile(id, doc)
}

// ListVoiceProfiles returns every voice profile keyed by ID, each upgraded
// to the current schema.
func (s *Store) ListVoiceProfiles(ctx context.Context) (map[string]models.VoiceProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM voice_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying voice profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[string]models.VoiceProfile)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning voice profile row: %w", err)
		}
		profile, err := decodeVoiceProfile(id, doc)
		if err != nil {
			return nil, err
		}
		profiles[id] = *profile
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating voice profile rows: %w", err)
	}
	return profiles, nil
}

// SaveVoiceProfile stores a profile as a whole document, replacing any
// existing record with the same ID. The Updated timestamp and schema
// version are stamped here.
func (s *Store) SaveVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	if profile.ID == "" {
		return errors.New("voice profile ID is required")
	}

	profile.Updated = time.Now().UTC().Truncate(time.Second)
	profile.Version = models.CurrentSchemaVersion

	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling voice profile %q: %w", profile.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO voice_profiles (id, name, updated_at, version, doc)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			updated_at = excluded.updated_at,
			version    = excluded.version,
			doc        = excluded.doc`,
		profile.ID, profile.Name, profile.Updated.Format(time.RFC3339), profile.Version, string(doc),
	)
	if err != nil {
		return fmt.Errorf("saving voice profile %q: %w", profile.ID, err)
	}
	return nil
}

// DeleteVoiceProfile removes a profile by ID. Returns ErrNotFound if no
// such profile exists.
func (s *Store) DeleteVoiceProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM voice_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting voice profile %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of voice profile %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeVoiceProfile unmarshals a stored document and applies the v1→v2
// upgrade. This is the only place legacy documents are upgraded.
func decodeVoiceProfile(id, doc string) (*models.VoiceProfile, error) {
	var profile models.VoiceProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("unmarshaling voice profile %q: %w", id, err)
	}
	profile.ID = id
	profile = models.UpgradeVoiceProfile(profile)
	return &profile, nil
}
