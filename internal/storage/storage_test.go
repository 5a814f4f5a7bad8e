package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/inkwelldev/inkwell/internal/models"
)

// newTestStore opens a migrated in-memory database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return NewStore(db)
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("first RunMigrations() error = %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
}

func TestVoiceProfileCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	profile := &models.VoiceProfile{
		ID:            "vp_1",
		Name:          "Direct",
		VoiceIdentity: "Blunt and kind.",
		Guardrails:    models.Guardrails{NeverWords: []string{"delve"}},
	}
	if err := store.SaveVoiceProfile(ctx, profile); err != nil {
		t.Fatalf("SaveVoiceProfile() error = %v", err)
	}
	if profile.Version != models.CurrentSchemaVersion {
		t.Errorf("save should stamp version, got %d", profile.Version)
	}
	if profile.Updated.IsZero() {
		t.Error("save should stamp the updated timestamp")
	}

	got, err := store.GetVoiceProfile(ctx, "vp_1")
	if err != nil {
		t.Fatalf("GetVoiceProfile() error = %v", err)
	}
	if got.Name != "Direct" || got.VoiceIdentity != "Blunt and kind." {
		t.Errorf("got %+v", got)
	}
	if len(got.Guardrails.NeverWords) != 1 || got.Guardrails.NeverWords[0] != "delve" {
		t.Errorf("Guardrails = %+v", got.Guardrails)
	}

	// Update replaces the document wholesale.
	profile.VoiceIdentity = "Calmer now."
	if err := store.SaveVoiceProfile(ctx, profile); err != nil {
		t.Fatalf("update SaveVoiceProfile() error = %v", err)
	}
	got, _ = store.GetVoiceProfile(ctx, "vp_1")
	if got.VoiceIdentity != "Calmer now." {
		t.Errorf("update not persisted: %q", got.VoiceIdentity)
	}

	profiles, err := store.ListVoiceProfiles(ctx)
	if err != nil {
		t.Fatalf("ListVoiceProfiles() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("ListVoiceProfiles() returned %d, want 1", len(profiles))
	}
	if _, ok := profiles["vp_1"]; !ok {
		t.Error("profiles should be keyed by ID")
	}

	if err := store.DeleteVoiceProfile(ctx, "vp_1"); err != nil {
		t.Fatalf("DeleteVoiceProfile() error = %v", err)
	}
	if _, err := store.GetVoiceProfile(ctx, "vp_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, err = %v, want ErrNotFound", err)
	}
	if err := store.DeleteVoiceProfile(ctx, "vp_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestVoiceProfileLegacyUpgradeAtLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert a v1 document directly, bypassing SaveVoiceProfile's stamping.
	doc := `{"id": "vp_old", "name": "Old", "version": 1, "content": "Be punchy."}`
	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO voice_profiles (id, name, updated_at, version, doc) VALUES (?, ?, ?, ?, ?)`,
		"vp_old", "Old", "2024-01-01T00:00:00Z", 1, doc,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetVoiceProfile(ctx, "vp_old")
	if err != nil {
		t.Fatalf("GetVoiceProfile() error = %v", err)
	}
	if got.Version != models.CurrentSchemaVersion {
		t.Errorf("loaded version = %d, want %d", got.Version, models.CurrentSchemaVersion)
	}
	if got.Content != "Be punchy." {
		t.Errorf("legacy content must survive the upgrade, got %q", got.Content)
	}
	if !got.IsLegacy() {
		t.Error("upgraded v1 document should still compile as legacy")
	}
}

func TestAudienceCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, aud := range []*models.Audience{
		{ID: "aud_b", Name: "Builders", Definition: "People who ship."},
		{ID: "aud_a", Name: "Analysts", Goals: []string{"Understand the market"}},
	} {
		if err := store.SaveAudience(ctx, aud); err != nil {
			t.Fatalf("SaveAudience(%s) error = %v", aud.ID, err)
		}
	}

	audiences, err := store.ListAudiences(ctx)
	if err != nil {
		t.Fatalf("ListAudiences() error = %v", err)
	}
	if len(audiences) != 2 {
		t.Fatalf("ListAudiences() returned %d, want 2", len(audiences))
	}
	if audiences[0].Name != "Analysts" || audiences[1].Name != "Builders" {
		t.Errorf("audiences should be ordered by name: %q, %q", audiences[0].Name, audiences[1].Name)
	}

	got, err := store.GetAudience(ctx, "aud_a")
	if err != nil {
		t.Fatalf("GetAudience() error = %v", err)
	}
	if len(got.Goals) != 1 || got.Goals[0] != "Understand the market" {
		t.Errorf("Goals = %v", got.Goals)
	}

	if err := store.DeleteAudience(ctx, "aud_a"); err != nil {
		t.Fatalf("DeleteAudience() error = %v", err)
	}
	if _, err := store.GetAudience(ctx, "aud_a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, err = %v, want ErrNotFound", err)
	}
}

func TestAudienceLegacyUpgradeAtLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := `{"id": "aud_old", "name": "Readers", "version": 1, "description": "People who read."}`
	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO audiences (id, name, updated_at, version, doc) VALUES (?, ?, ?, ?, ?)`,
		"aud_old", "Readers", "2024-01-01T00:00:00Z", 1, doc,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetAudience(ctx, "aud_old")
	if err != nil {
		t.Fatalf("GetAudience() error = %v", err)
	}
	if got.Version != models.CurrentSchemaVersion {
		t.Errorf("loaded version = %d, want %d", got.Version, models.CurrentSchemaVersion)
	}
	if got.Definition != "People who read." {
		t.Errorf("description should promote to definition, got %q", got.Definition)
	}
}

func TestTaxonomyReplaceAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	categories := []models.Term{
		{ID: 1, Name: "Engineering", Slug: "engineering"},
		{ID: 2, Name: "Essays", Slug: "essays"},
	}
	tags := []models.Term{{ID: 10, Name: "golang", Slug: "golang"}}

	if err := store.ReplaceTaxonomy(ctx, categories, tags); err != nil {
		t.Fatalf("ReplaceTaxonomy() error = %v", err)
	}

	gotCats, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(gotCats) != 2 {
		t.Errorf("categories = %d, want 2", len(gotCats))
	}

	gotTags, err := store.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	if len(gotTags) != 1 || gotTags[0].Name != "golang" {
		t.Errorf("tags = %+v", gotTags)
	}

	// A second replace swaps the mirrors wholesale.
	if err := store.ReplaceTaxonomy(ctx, []models.Term{{ID: 3, Name: "Notes", Slug: "notes"}}, nil); err != nil {
		t.Fatalf("second ReplaceTaxonomy() error = %v", err)
	}
	gotCats, _ = store.ListCategories(ctx)
	if len(gotCats) != 1 || gotCats[0].Name != "Notes" {
		t.Errorf("replace should clear old terms, got %+v", gotCats)
	}
	gotTags, _ = store.ListTags(ctx)
	if len(gotTags) != 0 {
		t.Errorf("tags should be cleared, got %+v", gotTags)
	}
}

func TestSeedDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}
	cats, _ := store.ListCategories(ctx)
	if len(cats) != 1 || cats[0].Name != "Uncategorized" {
		t.Fatalf("seeded categories = %+v", cats)
	}

	// Seeding again, or over existing terms, is a no-op.
	if err := store.SeedDefaults(ctx); err != nil {
		t.Fatalf("second SeedDefaults() error = %v", err)
	}
	cats, _ = store.ListCategories(ctx)
	if len(cats) != 1 {
		t.Errorf("second seed added terms: %+v", cats)
	}
}

func TestCredentials(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Credential(ctx, "openai")
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if key != "" {
		t.Errorf("missing credential should be \"\", got %q", key)
	}

	if err := store.SetCredential(ctx, "openai", "inkenc:v1:abc"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	key, _ = store.Credential(ctx, "openai")
	if key != "inkenc:v1:abc" {
		t.Errorf("Credential() = %q", key)
	}

	// Overwrite.
	if err := store.SetCredential(ctx, "openai", "inkenc:v1:def"); err != nil {
		t.Fatalf("overwrite SetCredential() error = %v", err)
	}
	key, _ = store.Credential(ctx, "openai")
	if key != "inkenc:v1:def" {
		t.Errorf("Credential() after overwrite = %q", key)
	}
}

func TestDefaultProvider(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.DefaultProvider(ctx)
	if err != nil {
		t.Fatalf("DefaultProvider() error = %v", err)
	}
	if id != "" {
		t.Errorf("no default yet, got %q", id)
	}

	if err := store.SetCredential(ctx, "openai", "inkenc:v1:abc"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	if err := store.SetDefaultProvider(ctx, "openai"); err != nil {
		t.Fatalf("SetDefaultProvider() error = %v", err)
	}
	id, _ = store.DefaultProvider(ctx)
	if id != "openai" {
		t.Errorf("DefaultProvider() = %q", id)
	}

	// Switching the default clears the old one and must not clobber the
	// stored key.
	if err := store.SetDefaultProvider(ctx, "anthropic"); err != nil {
		t.Fatalf("switch SetDefaultProvider() error = %v", err)
	}
	id, _ = store.DefaultProvider(ctx)
	if id != "anthropic" {
		t.Errorf("DefaultProvider() after switch = %q", id)
	}
	key, _ := store.Credential(ctx, "openai")
	if key != "inkenc:v1:abc" {
		t.Errorf("stored key lost on default switch: %q", key)
	}
}

func TestRateCounters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if _, ok, err := store.Count(ctx, "ratelimit:u1"); err != nil || ok {
		t.Fatalf("Count() on empty table = ok=%v, err=%v", ok, err)
	}

	if err := store.SetCount(ctx, "ratelimit:u1", 3, time.Minute); err != nil {
		t.Fatalf("SetCount() error = %v", err)
	}
	count, ok, err := store.Count(ctx, "ratelimit:u1")
	if err != nil || !ok || count != 3 {
		t.Fatalf("Count() = %d, %v, %v", count, ok, err)
	}

	// Advance past the TTL: the row expires lazily.
	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Count(ctx, "ratelimit:u1"); ok {
		t.Error("expired counter should report absent")
	}

	var rows int
	if err := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_counters WHERE key = ?`, "ratelimit:u1",
	).Scan(&rows); err != nil && !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("counting rows: %v", err)
	}
	if rows != 0 {
		t.Error("expired row should be deleted lazily")
	}
}
