// Package doctor runs environment diagnostics for the CLI.
package doctor

import (
	"context"
	"fmt"

	"github.com/gautham9566/AI-Shell/internal/application/registry"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	SecurityService ports.SecurityService
	Cache           ports.CacheRepository
	// Providers returns the startup registry; it is only invoked after the
	// configuration loaded.
	Providers func(context.Context) *registry.Registry
}

// Run executes checks and returns a report. The error is non-nil when the
// configuration cannot be loaded or no backend is usable.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.guardrailCheck(cfg))
	checks = append(checks, s.cacheCheck(ctx, cfg))
	checks = append(checks, apiKeyChecks(cfg)...)

	if s.Providers == nil {
		checks = append(checks, warn("Providers", "registry not available"))
		return domain.HealthReport{Checks: checks}, nil
	}
	providerChecks, usable := providerChecks(s.Providers(ctx))
	checks = append(checks, providerChecks...)
	if !usable {
		return domain.HealthReport{Checks: checks}, fmt.Errorf("no provider available")
	}
	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) guardrailCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.IsSecurityEnabled() {
		return warn("Guardrail", "disabled in config")
	}
	if s.SecurityService == nil {
		return warn("Guardrail", "security service not initialized")
	}
	if _, err := s.SecurityService.Evaluate("ls"); err != nil {
		return fail("Guardrail", err.Error())
	}
	return ok("Guardrail", "rules loaded")
}

func (s *Service) cacheCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !cfg.Preferences.UseCache {
		return warn("Query cache", "disabled in config")
	}
	if s.Cache == nil {
		return warn("Query cache", "cache store unavailable")
	}
	entries, err := s.Cache.Entries(ctx, 0)
	if err != nil {
		return fail("Query cache", err.Error())
	}
	return ok("Query cache", fmt.Sprintf("%d entries in %s", len(entries), s.Cache.Path()))
}

// apiKeyChecks warns about remote backends whose key resolves to nothing,
// typically an unset environment variable.
func apiKeyChecks(cfg domain.Config) []domain.HealthCheck {
	var checks []domain.HealthCheck
	for _, kind := range domain.KnownProviders {
		key := credentialKey(kind)
		stored, present := cfg.Providers[kind.String()][key]
		if kind.IsLocal() || !present {
			continue
		}
		name := "API key " + kind.String()
		if cfg.APICredentials(kind)[key] == "" {
			checks = append(checks, warn(name, fmt.Sprintf("%s resolves to an empty value", stored)))
			continue
		}
		checks = append(checks, ok(name, "set"))
	}
	return checks
}

func credentialKey(kind domain.ProviderKind) string {
	if kind == domain.ProviderBedrock {
		return "access_key_id"
	}
	return "api_key"
}

func providerChecks(reg *registry.Registry) ([]domain.HealthCheck, bool) {
	if reg == nil {
		return []domain.HealthCheck{fail("Providers", "registry not built")}, false
	}
	entries := reg.Entries()
	initialized := make(map[domain.ProviderKind]string, len(entries))
	for _, entry := range entries {
		initialized[entry.Kind] = entry.Description
	}

	var checks []domain.HealthCheck
	for _, kind := range domain.KnownProviders {
		name := "Provider " + kind.String()
		if description, found := initialized[kind]; found {
			checks = append(checks, ok(name, description))
			continue
		}
		checks = append(checks, warn(name, "not available"))
	}

	cfg := reg.Config()
	if len(cfg.Initialized) == 0 {
		checks = append(checks, fail("Default provider", "no provider initialized"))
		return checks, false
	}
	details := cfg.DefaultProvider.String()
	if !cfg.IsInitialized(cfg.DefaultProvider) {
		return append(checks, warn("Default provider", details+" is not available; other providers will be tried")), true
	}
	return append(checks, ok("Default provider", details)), true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
