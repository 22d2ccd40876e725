// Package registry initializes the backends once at startup and exposes them
// read-only for the rest of the process.
package registry

import (
	"context"
	"fmt"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Entry pairs an initialized backend with its description.
type Entry struct {
	Kind        domain.ProviderKind
	Description string
}

// Registry holds the successfully initialized backends in attempt order.
type Registry struct {
	providers map[domain.ProviderKind]ports.Provider
	config    domain.OrchestratorConfig
}

// Build initializes every kind the factory offers. Local inference is attempted
// first, then the remaining kinds in registration order. Backends that fail to
// initialize are left out. When local succeeds it becomes the effective default
// and a notice is emitted.
func Build(ctx context.Context, settings ports.ProviderSettings, factory ports.ProviderFactory, log ports.Logger, notifier ports.Notifier) *Registry {
	r := &Registry{providers: make(map[domain.ProviderKind]ports.Provider)}
	configured := settings.DefaultProvider()

	for _, kind := range orderedKinds(factory.Kinds()) {
		provider, ok := factory.New(kind)
		if !ok {
			continue
		}

		config := settings.APICredentials(kind)
		if kind.IsLocal() {
			config = settings.LocalModelConfig().AsMap()
		}

		if !provider.Initialize(ctx, config) {
			log.Debug("provider skipped", map[string]interface{}{"provider": kind.String()})
			continue
		}
		r.providers[kind] = provider
		r.config.Initialized = append(r.config.Initialized, kind)
		log.Info("provider initialized", map[string]interface{}{
			"provider":    kind.String(),
			"description": provider.Describe(),
		})
	}

	r.config.DefaultProvider = configured
	if _, ok := r.providers[domain.ProviderLocal]; ok {
		r.config.DefaultProvider = domain.ProviderLocal
		message := "Using local LLM as default provider"
		if configured != domain.ProviderLocal {
			message = fmt.Sprintf("%s instead of %s", message, configured)
		}
		notifier.Notify(domain.NoticeInfo, message)
		log.Info("default provider overridden", map[string]interface{}{
			"configured": configured.String(),
			"effective":  domain.ProviderLocal.String(),
		})
	}
	return r
}

// orderedKinds moves local to the front and keeps the rest in registration order.
func orderedKinds(kinds []domain.ProviderKind) []domain.ProviderKind {
	ordered := make([]domain.ProviderKind, 0, len(kinds))
	seen := make(map[domain.ProviderKind]bool, len(kinds))
	for _, kind := range kinds {
		if kind.IsLocal() && !seen[kind] {
			ordered = append(ordered, kind)
			seen[kind] = true
		}
	}
	for _, kind := range kinds {
		if !seen[kind] {
			ordered = append(ordered, kind)
			seen[kind] = true
		}
	}
	return ordered
}

// Provider returns the initialized backend for kind.
func (r *Registry) Provider(kind domain.ProviderKind) (ports.Provider, bool) {
	p, ok := r.providers[kind]
	return p, ok
}

// Config returns a copy of the orchestrator configuration.
func (r *Registry) Config() domain.OrchestratorConfig {
	return domain.OrchestratorConfig{
		DefaultProvider: r.config.DefaultProvider,
		Initialized:     append([]domain.ProviderKind(nil), r.config.Initialized...),
	}
}

// Entries lists initialized backends in order with their descriptions.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.config.Initialized))
	for _, kind := range r.config.Initialized {
		entries = append(entries, Entry{Kind: kind, Description: r.providers[kind].Describe()})
	}
	return entries
}

var _ ports.ProviderLookup = (*Registry)(nil)
