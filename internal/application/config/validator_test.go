package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gautham9566/AI-Shell/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences:         domain.Preferences{DefaultProvider: "openai", UseCache: true},
		LocalModel:          domain.LocalModelSettings{Path: "tinyllama.gguf", Host: "http://127.0.0.1:8080"},
		Providers: map[string]domain.ProviderSettings{
			"openai": {"api_key": "$OPENAI_API_KEY", "base_url": "https://api.openai.com/v1", "max_tokens": "256"},
			"ollama": {"host": "http://localhost:11434"},
		},
		Security:  domain.SecuritySettings{Enabled: true, RulesFile: "/tmp/guardrail.yaml"},
		Execution: domain.ExecutionSettings{Shell: "auto"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{
			name:    "unknown default",
			mutate:  func(c *domain.Config) { c.Preferences.DefaultProvider = "mistral" },
			wantErr: "mistral",
		},
		{
			name:    "relative base url",
			mutate:  func(c *domain.Config) { c.Providers["openai"]["base_url"] = "api.openai.com" },
			wantErr: "providers.openai.base_url",
		},
		{
			name:    "ftp host",
			mutate:  func(c *domain.Config) { c.Providers["ollama"]["host"] = "ftp://localhost" },
			wantErr: "http or https",
		},
		{
			name:    "bad max tokens",
			mutate:  func(c *domain.Config) { c.Providers["openai"]["max_tokens"] = "lots" },
			wantErr: "max_tokens",
		},
		{
			name:    "max tokens beyond int32",
			mutate:  func(c *domain.Config) { c.Providers["openai"]["max_tokens"] = "4294967296" },
			wantErr: "must not exceed",
		},
		{
			name:    "bad local host",
			mutate:  func(c *domain.Config) { c.LocalModel.Host = "localhost:8080" },
			wantErr: "local_model.host",
		},
		{
			name:    "security without rules",
			mutate:  func(c *domain.Config) { c.Security.RulesFile = "" },
			wantErr: "rules_file",
		},
		{
			name:   "security disabled without rules",
			mutate: func(c *domain.Config) { c.Security = domain.SecuritySettings{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
