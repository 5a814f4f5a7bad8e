package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/api"
	"github.com/inkwelldev/inkwell/internal/categorizer"
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/ratelimit"
	"github.com/inkwelldev/inkwell/internal/rewriter"
	"github.com/inkwelldev/inkwell/internal/secrets"
	"github.com/inkwelldev/inkwell/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dataDir := flag.String("data-dir", "./data", "path to data directory")
	flag.Parse()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure data directory exists.
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	// Open database with WAL mode and pragmas.
	db, err := storage.OpenDatabase(filepath.Join(*dataDir, "inkwell.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run schema migrations.
	if err := storage.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create store and seed the baseline category.
	store := storage.NewStore(db)
	ctx := context.Background()
	if err := store.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed defaults", "error", err)
		os.Exit(1)
	}

	// Codec for API keys at rest.
	codec, err := secrets.NewCodec(cfg.Secrets.Key)
	if err != nil {
		slog.Error("failed to create secrets codec", "error", err)
		os.Exit(1)
	}

	// Provider registry. Constructors close over the codec and configured
	// models; the registry hands each one the stored encrypted credential.
	registry := ai.NewRegistry(store, cfg.AI.DefaultProvider)
	registry.Register("openai", func(cipherKey string) ai.Provider {
		return ai.NewOpenAIProvider(cipherKey, codec, cfg.AI.OpenAIModel)
	})
	registry.Register("anthropic", func(cipherKey string) ai.Provider {
		return ai.NewAnthropicProvider(cipherKey, codec, cfg.AI.AnthropicModel)
	})

	// Keys exported in the environment seed the credential store. Stored
	// keys are never overwritten.
	seedEnvCredentials(ctx, store, codec)

	if !registry.HasConfigured(ctx) {
		slog.Warn("no AI provider configured, AI features will fail until a key is added")
	}

	limiter := ratelimit.New(store, cfg.Limits.RateMaxRequests,
		time.Duration(cfg.Limits.RateWindowSeconds)*time.Second)

	cat := categorizer.New(store, registry, cfg.Limits.CategorizeMaxChars)
	rw := rewriter.New(store, registry, cfg.Limits.RewriteMaxChars)

	router := api.NewRouter(store, registry, codec, cat, rw, limiter, cfg)

	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	slog.Info("starting server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// seedEnvCredentials stores API keys from the environment for providers
// that have no stored credential yet. Failures are logged and skipped; a
// bad environment key should not stop the server.
func seedEnvCredentials(ctx context.Context, store *storage.Store, codec *secrets.Codec) {
	for providerID, envVar := range map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
	} {
		key := os.Getenv(envVar)
		if key == "" {
			continue
		}

		existing, err := store.Credential(ctx, providerID)
		if err != nil {
			slog.Warn("failed to check stored credential", "provider", providerID, "error", err)
			continue
		}
		if existing != "" {
			continue
		}

		encrypted, err := codec.Encrypt(key)
		if err != nil {
			slog.Warn("failed to encrypt environment key", "provider", providerID, "error", err)
			continue
		}
		if err := store.SetCredential(ctx, providerID, encrypted); err != nil {
			slog.Warn("failed to store environment key", "provider", providerID, "error", err)
			continue
		}
		slog.Info("seeded provider credential from environment", "provider", providerID)
	}
}
