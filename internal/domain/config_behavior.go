package domain

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults applied when the configuration leaves a value unset.
const (
	FallbackDefaultProvider = ProviderOpenAI
	DefaultLocalModelPath   = "tinyllama.gguf"
	DefaultLocalContextSize = 2048
	DefaultLocalThreads     = 4
)

// DefaultProvider returns the configured default backend, or the fallback when unset
// or unknown.
func (c Config) DefaultProvider() ProviderKind {
	if kind, ok := ParseProviderKind(c.Preferences.DefaultProvider); ok {
		return kind
	}
	return FallbackDefaultProvider
}

// LocalModelConfig returns the local model settings with fallbacks filled in.
func (c Config) LocalModelConfig() LocalModelConfig {
	cfg := LocalModelConfig{
		Path:        c.LocalModel.Path,
		ContextSize: c.LocalModel.ContextSize,
		Threads:     c.LocalModel.Threads,
		Host:        c.LocalModel.Host,
	}
	if cfg.Path == "" {
		cfg.Path = DefaultLocalModelPath
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultLocalContextSize
	}
	if cfg.Threads <= 0 {
		cfg.Threads = DefaultLocalThreads
	}
	return cfg
}

// APICredentials returns a copy of the credentials stored for kind.
// Values of the form $NAME or ${NAME} are resolved from the environment.
func (c Config) APICredentials(kind ProviderKind) map[string]string {
	stored := c.Providers[string(kind)]
	creds := make(map[string]string, len(stored))
	for key, value := range stored {
		creds[key] = expandEnvValue(value)
	}
	return creds
}

// SetDefaultProvider changes the default backend.
// Returns an error if the kind is not a known backend.
func (c *Config) SetDefaultProvider(name string) error {
	kind, ok := ParseProviderKind(name)
	if !ok {
		return fmt.Errorf("cannot set default provider: %q is not a known provider", name)
	}
	c.Preferences.DefaultProvider = string(kind)
	return nil
}

// ConfiguredProviders lists the remote kinds that have at least one non-empty credential.
func (c Config) ConfiguredProviders() []ProviderKind {
	var kinds []ProviderKind
	for _, kind := range KnownProviders {
		if kind.IsLocal() {
			continue
		}
		for _, value := range c.Providers[string(kind)] {
			if strings.TrimSpace(value) != "" {
				kinds = append(kinds, kind)
				break
			}
		}
	}
	return kinds
}

// IsSecurityEnabled checks if security guardrails are enabled
func (c Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// ShouldConfirmBeforeExecution checks if user confirmation is required before execution
func (c Config) ShouldConfirmBeforeExecution() bool {
	return c.Execution.ConfirmBeforeExecute
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c Config) ValidateConsistency() error {
	if c.Preferences.DefaultProvider != "" {
		if _, ok := ParseProviderKind(c.Preferences.DefaultProvider); !ok {
			return fmt.Errorf("default provider %q is not a known provider", c.Preferences.DefaultProvider)
		}
	}
	for name := range c.Providers {
		kind, ok := ParseProviderKind(name)
		if !ok {
			return fmt.Errorf("providers.%s: unknown provider", name)
		}
		if kind.IsLocal() {
			return fmt.Errorf("providers.%s: configure the local model under local_model", name)
		}
	}
	if c.LocalModel.ContextSize < 0 || c.LocalModel.Threads < 0 {
		return fmt.Errorf("local_model: n_ctx and n_threads must not be negative")
	}
	return nil
}

// MaskedCredentials returns the stored (unexpanded) credentials of kind with secrets masked.
func (c Config) MaskedCredentials(kind ProviderKind) map[string]string {
	masked := make(map[string]string)
	for key, value := range c.Providers[string(kind)] {
		if value == "" {
			continue
		}
		if isSecretKey(key) && !strings.HasPrefix(value, "$") {
			masked[key] = MaskSecret(value)
			continue
		}
		masked[key] = value
	}
	return masked
}

// MaskSecret keeps the first four characters of a secret.
func MaskSecret(value string) string {
	if len(value) > 4 {
		return value[:4] + "****"
	}
	return "****"
}

// IntSetting reads an integer credential, returning def when absent or malformed.
func IntSetting(cfg map[string]string, key string, def int) int {
	raw := strings.TrimSpace(cfg[key])
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "key") || strings.Contains(key, "secret") || strings.Contains(key, "token")
}

func expandEnvValue(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "$") {
		return value
	}
	name := strings.TrimPrefix(value, "$")
	name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
	return os.Getenv(name)
}
