// Package generation owns the backend fallback policy.
//
// Normal mode prefers local inference, then the effective default, then every
// other initialized backend in registry order. Regenerate mode asks the remote
// backends first (default first) and falls back to local inference last.
// Backends are called one at a time and each at most once per request; the
// first non-empty command wins.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Attempt is one planned backend call.
type Attempt struct {
	Kind   domain.ProviderKind
	Notice string
}

// Orchestrator implements ports.CommandGenerator.
type Orchestrator struct {
	lookup   ports.ProviderLookup
	config   domain.OrchestratorConfig
	osHint   string
	log      ports.Logger
	notifier ports.Notifier
}

// NewOrchestrator copies config; later changes by the caller are not observed.
func NewOrchestrator(lookup ports.ProviderLookup, config domain.OrchestratorConfig, osHint string, log ports.Logger, notifier ports.Notifier) *Orchestrator {
	return &Orchestrator{
		lookup: lookup,
		config: domain.OrchestratorConfig{
			DefaultProvider: config.DefaultProvider,
			Initialized:     append([]domain.ProviderKind(nil), config.Initialized...),
		},
		osHint:   osHint,
		log:      log,
		notifier: notifier,
	}
}

// GenerateCommand returns the first non-empty result in policy order, or the
// empty result plus a diagnostic when every backend fails.
func (o *Orchestrator) GenerateCommand(ctx context.Context, request string, mode domain.GenerationMode) domain.Result {
	if strings.TrimSpace(request) == "" {
		return domain.Result{}
	}

	requestID := uuid.NewString()
	tried := make(map[domain.ProviderKind]bool, len(o.config.Initialized))

	for _, attempt := range o.Plan(mode) {
		if tried[attempt.Kind] {
			continue
		}
		tried[attempt.Kind] = true

		provider, ok := o.lookup.Provider(attempt.Kind)
		if !ok {
			continue
		}
		if attempt.Notice != "" {
			o.notifier.Notify(domain.NoticeInfo, attempt.Notice)
		}

		o.log.Debug("trying provider", map[string]interface{}{
			"request_id": requestID,
			"provider":   attempt.Kind.String(),
			"mode":       mode.String(),
		})
		result := provider.Generate(ctx, request, o.osHint)
		if !result.Empty() {
			o.log.Info("command generated", map[string]interface{}{
				"request_id": requestID,
				"provider":   attempt.Kind.String(),
				"mode":       mode.String(),
			})
			return result
		}
		o.log.Debug("provider returned no command", map[string]interface{}{
			"request_id": requestID,
			"provider":   attempt.Kind.String(),
		})
	}

	message := fmt.Sprintf("Command generation failed. Available providers: %s", o.config.InitializedNames())
	o.notifier.Notify(domain.NoticeError, message)
	o.log.Warn("all providers failed", map[string]interface{}{
		"request_id": requestID,
		"mode":       mode.String(),
		"available":  o.config.InitializedNames(),
	})
	return domain.Result{}
}

// Plan returns the attempt order for mode. Every kind appears at most once.
func (o *Orchestrator) Plan(mode domain.GenerationMode) []Attempt {
	if mode == domain.ModeRegenerate {
		return o.regeneratePlan()
	}
	return o.normalPlan()
}

func (o *Orchestrator) normalPlan() []Attempt {
	var plan []Attempt
	def := o.config.DefaultProvider

	if o.config.IsInitialized(domain.ProviderLocal) {
		plan = append(plan, Attempt{Kind: domain.ProviderLocal})
	}
	if !def.IsLocal() && o.config.IsInitialized(def) {
		plan = append(plan, Attempt{Kind: def})
	}
	for _, kind := range o.config.Initialized {
		if kind.IsLocal() || kind == def {
			continue
		}
		plan = append(plan, Attempt{Kind: kind})
	}
	return plan
}

func (o *Orchestrator) regeneratePlan() []Attempt {
	var plan []Attempt
	def := o.config.DefaultProvider

	remote := make([]domain.ProviderKind, 0, len(o.config.Initialized))
	for _, kind := range o.config.Initialized {
		if !kind.IsLocal() {
			remote = append(remote, kind)
		}
	}

	for _, kind := range remote {
		if kind == def {
			plan = append(plan, Attempt{Kind: kind, Notice: fmt.Sprintf("↳ Regenerating with %s...", o.describe(kind))})
			break
		}
	}
	for _, kind := range remote {
		if kind == def {
			continue
		}
		plan = append(plan, Attempt{Kind: kind, Notice: fmt.Sprintf("↳ Trying %s...", o.describe(kind))})
	}
	if o.config.IsInitialized(domain.ProviderLocal) {
		plan = append(plan, Attempt{Kind: domain.ProviderLocal, Notice: "↳ All APIs failed, falling back to local LLM"})
	}
	return plan
}

func (o *Orchestrator) describe(kind domain.ProviderKind) string {
	if p, ok := o.lookup.Provider(kind); ok {
		return p.Describe()
	}
	return kind.String()
}

var _ ports.CommandGenerator = (*Orchestrator)(nil)
