// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The application depends on these abstractions, never on
// a concrete backend, database or CLI framework.
package ports

import (
	"context"

	"github.com/gautham9566/AI-Shell/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aishell/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderSettings is the configuration collaborator consumed at startup by the registry.
// domain.Config satisfies it.
type ProviderSettings interface {
	DefaultProvider() domain.ProviderKind
	LocalModelConfig() domain.LocalModelConfig
	APICredentials(kind domain.ProviderKind) map[string]string
}

// Provider is the capability every backend implements.
//
// Initialize and Generate never return errors: a backend that cannot be set up
// reports false, and a backend that cannot produce a command returns an empty Result.
type Provider interface {
	Kind() domain.ProviderKind
	Initialize(ctx context.Context, config map[string]string) bool
	Generate(ctx context.Context, request string, osHint string) domain.Result
	Describe() string
}

// ProviderFactory builds uninitialized backends by kind.
type ProviderFactory interface {
	Kinds() []domain.ProviderKind
	New(kind domain.ProviderKind) (Provider, bool)
}

// ProviderLookup resolves initialized backends by identity.
type ProviderLookup interface {
	Provider(kind domain.ProviderKind) (Provider, bool)
}

// CommandGenerator produces a command for a request using the fallback policy.
type CommandGenerator interface {
	GenerateCommand(ctx context.Context, request string, mode domain.GenerationMode) domain.Result
}

// CacheRepository persists accepted query → command pairs.
type CacheRepository interface {
	Get(ctx context.Context, query string) (domain.CacheEntry, bool, error)
	Save(ctx context.Context, query, command, explanation string) error
	Entries(ctx context.Context, limit int) ([]domain.CacheEntry, error)
	Clear(ctx context.Context) error
	Path() string
}

// SecurityService evaluates commands against guardrail rules before execution.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// CommandExecutor runs shell commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ChoicePrompter asks the user what to do with a generated command (y/N/R).
type ChoicePrompter interface {
	Choose(resp domain.QueryResponse) (domain.Choice, error)
	Enabled() bool
}

// Notifier surfaces user-visible diagnostics such as the local-default override
// or the list of available providers after a total failure.
type Notifier interface {
	Notify(level domain.NoticeLevel, message string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
