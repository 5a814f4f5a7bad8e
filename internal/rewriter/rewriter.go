// Package rewriter orchestrates the style-rewrite task: resolve the voice
// profile, compile it into a prompt, normalize the draft, and hand both to
// the provider.
package rewriter

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/composer"
	"github.com/inkwelldev/inkwell/internal/content"
	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// Store is the domain-context collaborator: voice profiles and audiences.
type Store interface {
	GetVoiceProfile(ctx context.Context, id string) (*models.VoiceProfile, error)
	GetAudience(ctx context.Context, id string) (*models.Audience, error)
}

// Providers resolves the AI provider to use.
type Providers interface {
	GetConfigured(ctx context.Context) (ai.Provider, error)
}

// Rewriter runs the rewrite pipeline. Stateless between calls.
type Rewriter struct {
	store     Store
	providers Providers
	maxChars  int
}

// New creates a Rewriter. maxChars bounds the normalized content length;
// zero selects the rewrite-mode default.
func New(store Store, providers Providers, maxChars int) *Rewriter {
	return &Rewriter{store: store, providers: providers, maxChars: maxChars}
}

// Rewrite rewrites content in the voice named by profileID, optionally
// tailored to audienceID. An unknown profile fails with invalid_profile;
// the provider's rewritten text (or error) is returned untouched.
func (rw *Rewriter) Rewrite(ctx context.Context, rawContent, profileID, audienceID string) (string, error) {
	provider, err := rw.providers.GetConfigured(ctx)
	if err != nil {
		return "", err
	}

	profile, err := rw.store.GetVoiceProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fault.Newf(fault.KindInvalidProfile, "voice profile not found: %s", profileID)
		}
		return "", fmt.Errorf("loading voice profile %q: %w", profileID, err)
	}

	var audience *models.Audience
	if audienceID != "" {
		audience, err = rw.store.GetAudience(ctx, audienceID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				audience = nil
			} else {
				return "", fmt.Errorf("loading audience %q: %w", audienceID, err)
			}
		}
	}

	clean := content.Normalize(rawContent, content.Options{
		Mode:      content.ModeRewrite,
		MaxLength: rw.maxChars,
	})

	voicePrompt := composer.Compose(*profile)

	return provider.RewriteContent(ctx, clean, voicePrompt, audience)
}
