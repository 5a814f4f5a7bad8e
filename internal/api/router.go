package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/api/handlers"
	"github.com/inkwelldev/inkwell/internal/categorizer"
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/ratelimit"
	"github.com/inkwelldev/inkwell/internal/rewriter"
	"github.com/inkwelldev/inkwell/internal/secrets"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// NewRouter creates and configures the HTTP router with all API routes.
// Only the AI task endpoints sit behind the rate limiter; collection and
// settings management is local work and stays unmetered.
func NewRouter(
	store *storage.Store,
	registry *ai.Registry,
	codec *secrets.Codec,
	cat *categorizer.Categorizer,
	rw *rewriter.Rewriter,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	minChars := cfg.Limits.MinContentChars

	r.Route("/api/v1", func(api chi.Router) {
		// AI task endpoints, metered per user.
		api.Group(func(metered chi.Router) {
			metered.Use(RateLimit(limiter))
			metered.Post("/categorize", handlers.Categorize(cat, minChars))
			metered.Post("/suggest-audience", handlers.SuggestAudience(cat, minChars))
			metered.Post("/rewrite", handlers.Rewrite(rw, minChars))
		})

		api.Get("/voice-profiles", handlers.ListVoiceProfiles(store))
		api.Post("/voice-profiles", handlers.CreateVoiceProfile(store))
		api.Put("/voice-profiles/{id}", handlers.UpdateVoiceProfile(store))
		api.Delete("/voice-profiles/{id}", handlers.DeleteVoiceProfile(store))

		api.Get("/audiences", handlers.ListAudiences(store))
		api.Post("/audiences", handlers.CreateAudience(store))
		api.Put("/audiences/{id}", handlers.UpdateAudience(store))
		api.Delete("/audiences/{id}", handlers.DeleteAudience(store))

		api.Get("/providers", handlers.ProviderStatuses(registry))
		api.Put("/providers/default", handlers.SetDefaultProvider(store, registry))
		api.Put("/providers/{id}/key", handlers.SetProviderKey(store, codec, registry))

		api.Get("/taxonomy", handlers.Taxonomy(store))
		api.Put("/taxonomy", handlers.ReplaceTaxonomy(store))

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
		})
	})

	return r
}
