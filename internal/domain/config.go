package domain

// Config mirrors ~/.aishell/config.yaml (or config.toml).
type Config struct {
	ConfigFormatVersion string                      `yaml:"config_format_version" toml:"config_format_version"`
	Preferences         Preferences                 `yaml:"preferences" toml:"preferences"`
	LocalModel          LocalModelSettings          `yaml:"local_model" toml:"local_model"`
	Providers           map[string]ProviderSettings `yaml:"providers" toml:"providers"`
	Security            SecuritySettings            `yaml:"security" toml:"security"`
	Execution           ExecutionSettings           `yaml:"execution" toml:"execution"`
	Cache               CacheSettings               `yaml:"cache" toml:"cache"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultProvider string `yaml:"default_provider" toml:"default_provider"`
	UseCache        bool   `yaml:"use_cache" toml:"use_cache"`
}

// LocalModelSettings configures the local inference server and model file.
type LocalModelSettings struct {
	Path        string `yaml:"path" toml:"path"`
	ContextSize int    `yaml:"n_ctx" toml:"n_ctx"`
	Threads     int    `yaml:"n_threads" toml:"n_threads"`
	Host        string `yaml:"host,omitempty" toml:"host,omitempty"`
}

// ProviderSettings holds the credentials of one remote backend, e.g.
// {"api_key": "$OPENAI_API_KEY", "model": "gpt-4o-mini"}.
type ProviderSettings map[string]string

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	RulesFile string `yaml:"rules_file" toml:"rules_file"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell                string `yaml:"shell" toml:"shell"`
	ConfirmBeforeExecute bool   `yaml:"confirm_before_execute" toml:"confirm_before_execute"`
}

// CacheSettings points at the query cache database.
type CacheSettings struct {
	Path string `yaml:"path" toml:"path"`
}
