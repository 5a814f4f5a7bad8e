// Package categorizer orchestrates the categorize and suggest-audience
// tasks: gather domain context, normalize content, call the provider, and
// enrich the structured answer.
package categorizer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/inkwelldev/inkwell/internal/ai"
	"github.com/inkwelldev/inkwell/internal/content"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/storage"
)

// Store is the domain-context collaborator: taxonomy terms and audiences.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Term, error)
	ListTags(ctx context.Context) ([]models.Term, error)
	GetAudience(ctx context.Context, id string) (*models.Audience, error)
	ListAudiences(ctx context.Context) ([]models.Audience, error)
}

// Providers resolves the AI provider to use.
type Providers interface {
	GetConfigured(ctx context.Context) (ai.Provider, error)
}

// Categorizer runs the categorization pipeline. It holds no per-request
// state; each call is a single linear pass.
type Categorizer struct {
	store     Store
	providers Providers
	maxChars  int
}

// New creates a Categorizer. maxChars bounds the normalized content length;
// zero selects the categorize-mode default.
func New(store Store, providers Providers, maxChars int) *Categorizer {
	return &Categorizer{store: store, providers: providers, maxChars: maxChars}
}

// Analyze suggests categories and tags for content, optionally biased
// toward the audience named by audienceID. Vendor-suggested IDs are mapped
// back to full terms; IDs outside the candidate lists are dropped silently.
func (c *Categorizer) Analyze(ctx context.Context, rawContent, audienceID string) (*models.CategorizeResult, error) {
	provider, err := c.providers.GetConfigured(ctx)
	if err != nil {
		return nil, err
	}

	var categories, tags []models.Term
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.store.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = c.store.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	audience, err := c.resolveAudience(ctx, audienceID)
	if err != nil {
		return nil, err
	}

	clean := content.Normalize(rawContent, content.Options{
		Mode:      content.ModeCategorize,
		MaxLength: c.maxChars,
	})

	suggestions, err := provider.AnalyzeForCategories(ctx, clean, categories, tags, audience)
	if err != nil {
		return nil, err
	}

	return enrich(suggestions, categories, tags), nil
}

// SuggestAudience picks the best-matching audience for content. An empty
// audience collection fails before any provider call; a suggestion naming
// a known audience gets the full record attached.
func (c *Categorizer) SuggestAudience(ctx context.Context, rawContent string) (*models.AudienceSuggestion, error) {
	provider, err := c.providers.GetConfigured(ctx)
	if err != nil {
		return nil, err
	}

	audiences, err := c.store.ListAudiences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading audiences: %w", err)
	}

	clean := content.Normalize(rawContent, content.Options{
		Mode:      content.ModeCategorize,
		MaxLength: c.maxChars,
	})

	suggestion, err := provider.SuggestAudience(ctx, clean, audiences)
	if err != nil {
		return nil, err
	}

	for i := range audiences {
		if audiences[i].ID == suggestion.AudienceID {
			suggestion.Audience = &audiences[i]
			break
		}
	}

	return suggestion, nil
}

// resolveAudience loads the audience for a non-empty ID. An unknown ID is
// skipped, not an error: categorization still works without the bias.
func (c *Categorizer) resolveAudience(ctx context.Context, audienceID string) (*models.Audience, error) {
	if audienceID == "" {
		return nil, nil
	}

	audience, err := c.store.GetAudience(ctx, audienceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading audience %q: %w", audienceID, err)
	}
	return audience, nil
}

// enrich maps suggested term IDs back to full terms, passing new_tags and
// reasoning through unchanged.
func enrich(s *models.CategorySuggestions, categories, tags []models.Term) *models.CategorizeResult {
	result := &models.CategorizeResult{
		Categories: matchTerms(s.Categories, categories),
		Tags:       matchTerms(s.Tags, tags),
		NewTags:    s.NewTags,
		Reasoning:  s.Reasoning,
	}
	if result.NewTags == nil {
		result.NewTags = []string{}
	}
	return result
}

// matchTerms returns the candidate terms whose IDs appear in ids, in the
// suggested order. Unknown IDs are ignored.
func matchTerms(ids []int64, candidates []models.Term) []models.Term {
	byID := make(map[int64]models.Term, len(candidates))
	for _, t := range candidates {
		byID[t.ID] = t
	}

	matched := []models.Term{}
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			matched = append(matched, t)
		}
	}
	return matched
}
