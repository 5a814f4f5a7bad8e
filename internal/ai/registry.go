package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/inkwelldev/inkwell/internal/fault"
)

// CredentialSource supplies stored provider credentials and the configured
// default provider ID. The storage layer implements it.
type CredentialSource interface {
	// Credential returns the encrypted API key for a provider, or "" when
	// none is stored.
	Credential(ctx context.Context, providerID string) (string, error)

	// DefaultProvider returns the configured default provider ID, or ""
	// when none has been chosen.
	DefaultProvider(ctx context.Context) (string, error)
}

// Constructor builds a provider from its stored (encrypted) credential.
type Constructor func(cipherKey string) Provider

// ProviderStatus describes one registered provider for the settings UI.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// Registry resolves provider IDs to constructed instances. Instances are
// cached per ID for the process lifetime, so a credential is decrypted at
// most once per provider; Invalidate drops the cached instance after a
// credential change.
type Registry struct {
	mu        sync.Mutex
	ctors     map[string]Constructor
	order     []string
	instances map[string]Provider
	creds     CredentialSource
	defaultID string
}

// NewRegistry creates a Registry. fallbackDefault is the provider ID used
// when the credential source has no stored default.
func NewRegistry(creds CredentialSource, fallbackDefault string) *Registry {
	return &Registry{
		ctors:     make(map[string]Constructor),
		instances: make(map[string]Provider),
		creds:     creds,
		defaultID: fallbackDefault,
	}
}

// Register adds a provider constructor under id. It reports false and
// registers nothing for an empty id or nil constructor. Re-registering an
// id replaces its constructor and drops any cached instance.
func (r *Registry) Register(id string, ctor Constructor) bool {
	if id == "" || ctor == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[id]; !exists {
		r.order = append(r.order, id)
	}
	r.ctors[id] = ctor
	delete(r.instances, id)
	return true
}

// Get returns the provider for id, constructing and caching it on first
// use. An empty id resolves to the default provider. Unknown IDs fail with
// invalid_provider.
func (r *Registry) Get(ctx context.Context, id string) (Provider, error) {
	if id == "" {
		var err error
		if id, err = r.resolveDefault(ctx); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	if inst, ok := r.instances[id]; ok {
		r.mu.Unlock()
		return inst, nil
	}
	ctor, ok := r.ctors[id]
	r.mu.Unlock()

	if !ok {
		return nil, fault.Newf(fault.KindInvalidProvider, "invalid AI provider: %s", id)
	}

	cipherKey, err := r.creds.Credential(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading credential for %s: %w", id, err)
	}

	inst := ctor(cipherKey)

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have constructed it meanwhile; keep the first.
	if existing, ok := r.instances[id]; ok {
		return existing, nil
	}
	r.instances[id] = inst
	return inst, nil
}

// GetConfigured returns the default provider when it is usable, otherwise
// the first configured provider in registration order. With no configured
// provider at all it fails with no_provider.
func (r *Registry) GetConfigured(ctx context.Context) (Provider, error) {
	defaultID, err := r.resolveDefault(ctx)
	if err == nil && r.IsConfigured(ctx, defaultID) {
		return r.Get(ctx, defaultID)
	}

	for _, id := range r.registeredIDs() {
		if r.IsConfigured(ctx, id) {
			return r.Get(ctx, id)
		}
	}

	return nil, fault.New(fault.KindNoProvider,
		"no AI provider is configured; add an API key in the settings")
}

// IsConfigured reports whether the provider exists and holds a usable key.
func (r *Registry) IsConfigured(ctx context.Context, id string) bool {
	p, err := r.Get(ctx, id)
	if err != nil {
		return false
	}
	return p.IsConfigured()
}

// HasConfigured reports whether any registered provider is configured.
func (r *Registry) HasConfigured(ctx context.Context) bool {
	for _, id := range r.registeredIDs() {
		if r.IsConfigured(ctx, id) {
			return true
		}
	}
	return false
}

// Status returns id → {name, configured} for every registered provider.
func (r *Registry) Status(ctx context.Context) map[string]ProviderStatus {
	statuses := make(map[string]ProviderStatus)
	for _, id := range r.registeredIDs() {
		p, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		statuses[id] = ProviderStatus{Name: p.Name(), Configured: p.IsConfigured()}
	}
	return statuses
}

// Invalidate drops the cached instance for id so the next Get reconstructs
// it with the current stored credential.
func (r *Registry) Invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}

// resolveDefault returns the stored default provider ID, falling back to
// the registry's construction-time default.
func (r *Registry) resolveDefault(ctx context.Context) (string, error) {
	id, err := r.creds.DefaultProvider(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving default provider: %w", err)
	}
	if id == "" {
		id = r.defaultID
	}
	if id == "" {
		return "", fault.New(fault.KindNoProvider, "no default AI provider configured")
	}
	return id, nil
}

// registeredIDs snapshots the registration order under the lock.
func (r *Registry) registeredIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
