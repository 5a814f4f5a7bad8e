// Package ai abstracts the upstream LLM vendors behind one capability
// contract and owns the prompt templates and response decoding for the
// three editorial tasks: categorize, suggest-audience, and rewrite.
package ai

import (
	"context"

	"github.com/inkwelldev/inkwell/internal/models"
)

// Provider is the capability contract every vendor integration implements.
// Implementations are safe for concurrent use once constructed: the
// decrypted API key is fixed at construction and no shared state mutates.
type Provider interface {
	// ID returns the provider's stable identifier ("openai", "anthropic").
	ID() string

	// Name returns the provider's display name.
	Name() string

	// IsConfigured reports whether a usable (non-empty, decryptable) API
	// key is present.
	IsConfigured() bool

	// AnalyzeForCategories suggests categories and tags for content from
	// the given candidate lists, optionally biased toward an audience.
	AnalyzeForCategories(ctx context.Context, content string, categories, tags []models.Term, audience *models.Audience) (*models.CategorySuggestions, error)

	// SuggestAudience picks the best-matching audience for content. It
	// fails with a no_audiences fault — before any network call — when
	// audiences is empty.
	SuggestAudience(ctx context.Context, content string, audiences []models.Audience) (*models.AudienceSuggestion, error)

	// RewriteContent rewrites content in the style described by the
	// compiled voice prompt, optionally tailored to an audience. The
	// returned text is the model's reply verbatim, trimmed.
	RewriteContent(ctx context.Context, content, voicePrompt string, audience *models.Audience) (string, error)
}

// Generation parameters shared by both vendors. Structured answers use a
// low temperature and a small token budget; rewrites need creative range
// and room for long-form output.
const (
	structuredTemperature = 0.3
	rewriteTemperature    = 0.7

	categorizeMaxTokens = 1000
	audienceMaxTokens   = 500
	rewriteMaxTokens    = 4000
)
