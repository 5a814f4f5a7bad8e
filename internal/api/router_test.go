package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/categorizer"
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/ratelimit"
	"github.com/inkwelldev/inkwell/internal/rewriter"
	"github.com/inkwelldev/inkwell/internal/secrets"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// stubProvider answers every AI task with canned output.
type stubProvider struct{}

func (stubProvider) ID() string         { return "openai" }
func (stubProvider) Name() string       { return "OpenAI" }
func (stubProvider) IsConfigured() bool { return true }

func (stubProvider) AnalyzeForCategories(_ context.Context, _ string, categories, _ []models.Term, _ *models.Audience) (*models.CategorySuggestions, error) {
	var ids []int64
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return &models.CategorySuggestions{Categories: ids, Reasoning: "stub"}, nil
}

func (stubProvider) SuggestAudience(_ context.Context, _ string, audiences []models.Audience) (*models.AudienceSuggestion, error) {
	if len(audiences) == 0 {
		return nil, fault.New(fault.KindNoAudiences, "no audiences defined")
	}
	return &models.AudienceSuggestion{AudienceID: audiences[0].ID, Confidence: 90}, nil
}

func (stubProvider) RewriteContent(_ context.Context, _, voicePrompt string, _ *models.Audience) (string, error) {
	return "rewritten in voice: " + voicePrompt, nil
}

type testEnv struct {
	store  *storage.Store
	router http.Handler
}

func newTestEnv(t *testing.T, rateMax int) *testEnv {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	store := storage.NewStore(db)

	codec, err := secrets.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	registry := ai.NewRegistry(store, "openai")
	registry.Register("openai", func(string) ai.Provider { return stubProvider{} })

	cfg := &config.Config{}
	cfg.Limits.MinContentChars = 10

	limiter := ratelimit.New(ratelimit.NewMemoryCounterStore(), rateMax, time.Minute)
	cat := categorizer.New(store, registry, 0)
	rw := rewriter.New(store, registry, 0)

	return &testEnv{
		store:  store,
		router: NewRouter(store, registry, codec, cat, rw, limiter, cfg),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("X-User-ID", "editor-1")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestVoiceProfileLifecycle(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/voice-profiles", map[string]any{
		"name":           "Direct",
		"voice_identity": "Blunt and kind.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[models.VoiceProfile](t, w)
	if !strings.HasPrefix(created.ID, "vp_") {
		t.Errorf("server-assigned ID = %q, want vp_ prefix", created.ID)
	}
	if created.Version != models.CurrentSchemaVersion {
		t.Errorf("Version = %d", created.Version)
	}

	w = env.do(t, http.MethodGet, "/api/v1/voice-profiles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	listed := decodeBody[map[string]models.VoiceProfile](t, w)
	if _, ok := listed[created.ID]; !ok {
		t.Errorf("created profile missing from list: %v", listed)
	}

	w = env.do(t, http.MethodPut, "/api/v1/voice-profiles/"+created.ID, map[string]any{
		"name":           "Direct",
		"voice_identity": "Calmer now.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[models.VoiceProfile](t, w)
	if updated.VoiceIdentity != "Calmer now." {
		t.Errorf("VoiceIdentity = %q", updated.VoiceIdentity)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/voice-profiles/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/api/v1/voice-profiles/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", w.Code)
	}
}

func TestVoiceProfileValidation(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/voice-profiles", map[string]any{"voice_identity": "No name."})
	if w.Code != http.StatusBadRequest {
		t.Errorf("nameless create status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/v1/voice-profiles/vp_missing", map[string]any{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("update of missing profile status = %d, want 404", w.Code)
	}
}

func TestAudienceLifecycle(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/audiences", map[string]any{
		"name":       "Founders",
		"definition": "Startup founders.",
		"goals":      []string{"Ship fast"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody[models.Audience](t, w)
	if !strings.HasPrefix(created.ID, "aud_") {
		t.Errorf("server-assigned ID = %q, want aud_ prefix", created.ID)
	}

	w = env.do(t, http.MethodGet, "/api/v1/audiences", nil)
	listed := decodeBody[[]models.Audience](t, w)
	if len(listed) != 1 || listed[0].Name != "Founders" {
		t.Errorf("listed = %+v", listed)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/audiences/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/audiences", nil)
	if listed := decodeBody[[]models.Audience](t, w); len(listed) != 0 {
		t.Errorf("list after delete = %+v, want empty array", listed)
	}
}

func TestTaxonomyRoundTrip(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPut, "/api/v1/taxonomy", map[string]any{
		"categories": []models.Term{{ID: 1, Name: "Engineering", Slug: "engineering"}},
		"tags":       []models.Term{{ID: 10, Name: "golang", Slug: "golang"}},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("put status = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/taxonomy", nil)
	got := decodeBody[map[string][]models.Term](t, w)
	if len(got["categories"]) != 1 || got["categories"][0].Name != "Engineering" {
		t.Errorf("categories = %+v", got["categories"])
	}
	if len(got["tags"]) != 1 || got["tags"][0].Name != "golang" {
		t.Errorf("tags = %+v", got["tags"])
	}
}

func TestTaxonomyValidation(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPut, "/api/v1/taxonomy", map[string]any{
		"categories": []map[string]any{{"id": 0, "name": "Broken"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid term status = %d, want 400", w.Code)
	}
}

func TestCategorizeEndpoint(t *testing.T) {
	env := newTestEnv(t, 100)

	env.do(t, http.MethodPut, "/api/v1/taxonomy", map[string]any{
		"categories": []models.Term{{ID: 1, Name: "Engineering", Slug: "engineering"}},
	})

	w := env.do(t, http.MethodPost, "/api/v1/categorize", map[string]string{
		"content": "A long enough post about Go testing.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("categorize status = %d: %s", w.Code, w.Body.String())
	}
	got := decodeBody[models.CategorizeResult](t, w)
	if len(got.Categories) != 1 || got.Categories[0].Name != "Engineering" {
		t.Errorf("categories = %+v", got.Categories)
	}
	if got.NewTags == nil {
		t.Error("new_tags must serialize as an array, not null")
	}
}

func TestCategorizeContentTooShort(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/categorize", map[string]string{"content": "short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["kind"] != "rest_invalid_param" {
		t.Errorf("kind = %q", body["kind"])
	}
}

func TestCategorizeMarkupDoesNotCountTowardLength(t *testing.T) {
	env := newTestEnv(t, 100)

	// 5 visible chars padded with markup well past the threshold.
	w := env.do(t, http.MethodPost, "/api/v1/categorize", map[string]string{
		"content": "<div><p><span><b><i>" + "abcde" + "</i></b></span></p></div>",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("markup-padded short content status = %d, want 400", w.Code)
	}
}

func TestSuggestAudienceEndpoint(t *testing.T) {
	env := newTestEnv(t, 100)

	env.do(t, http.MethodPost, "/api/v1/audiences", map[string]any{
		"name":       "Founders",
		"definition": "Startup founders.",
	})

	w := env.do(t, http.MethodPost, "/api/v1/suggest-audience", map[string]string{
		"content": "A long enough post about startups.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decodeBody[models.AudienceSuggestion](t, w)
	if got.Audience == nil || got.Audience.Name != "Founders" {
		t.Errorf("suggestion = %+v", got)
	}
}

func TestSuggestAudienceNoAudiences(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/suggest-audience", map[string]string{
		"content": "A long enough post about startups.",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["kind"] != "no_audiences" {
		t.Errorf("kind = %q", body["kind"])
	}
}

func TestRewriteEndpoint(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/voice-profiles", map[string]any{
		"name":    "Punchy",
		"content": "Be punchy.",
	})
	profile := decodeBody[models.VoiceProfile](t, w)

	w = env.do(t, http.MethodPost, "/api/v1/rewrite", map[string]string{
		"content":          "A long enough draft to rewrite.",
		"voice_profile_id": profile.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rewrite status = %d: %s", w.Code, w.Body.String())
	}
	got := decodeBody[map[string]string](t, w)
	if got["rewritten_content"] != "rewritten in voice: Be punchy." {
		t.Errorf("rewritten_content = %q", got["rewritten_content"])
	}
}

func TestRewriteMissingProfile(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/rewrite", map[string]string{
		"content":          "A long enough draft to rewrite.",
		"voice_profile_id": "vp_gone",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[map[string]string](t, w)
	if body["kind"] != "invalid_profile" {
		t.Errorf("kind = %q", body["kind"])
	}
}

func TestRewriteRequiresProfileID(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodPost, "/api/v1/rewrite", map[string]string{
		"content": "A long enough draft to rewrite.",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAIEndpointsAreMetered(t *testing.T) {
	env := newTestEnv(t, 2)

	body := map[string]string{"content": "A long enough post about Go testing."}
	env.do(t, http.MethodPost, "/api/v1/categorize", body)
	env.do(t, http.MethodPost, "/api/v1/categorize", body)

	w := env.do(t, http.MethodPost, "/api/v1/categorize", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third AI request status = %d, want 429", w.Code)
	}

	// Management endpoints stay unmetered.
	w = env.do(t, http.MethodGet, "/api/v1/voice-profiles", nil)
	if w.Code != http.StatusOK {
		t.Errorf("management endpoint status = %d after rate limit, want 200", w.Code)
	}
}

func TestProviderEndpoints(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodGet, "/api/v1/providers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("providers status = %d", w.Code)
	}
	statuses := decodeBody[map[string]ai.ProviderStatus](t, w)
	if _, ok := statuses["openai"]; !ok {
		t.Errorf("openai missing from %v", statuses)
	}

	w = env.do(t, http.MethodPut, "/api/v1/providers/openai/key", map[string]string{"api_key": "sk-test"})
	if w.Code != http.StatusOK {
		t.Fatalf("set key status = %d: %s", w.Code, w.Body.String())
	}

	// The stored credential must be encrypted, never plaintext.
	stored, err := env.store.Credential(context.Background(), "openai")
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if !secrets.IsEncrypted(stored) {
		t.Errorf("stored credential not encrypted: %q", stored)
	}
	if strings.Contains(stored, "sk-test") {
		t.Error("stored credential contains the plaintext key")
	}

	w = env.do(t, http.MethodPut, "/api/v1/providers/default", map[string]string{"provider_id": "openai"})
	if w.Code != http.StatusOK {
		t.Fatalf("set default status = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPut, "/api/v1/providers/default", map[string]string{"provider_id": "gemini"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown default provider status = %d, want 400", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, 100)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}
