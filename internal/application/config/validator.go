// Package config validates user configuration before it is persisted.
package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateLocalModel(cfg.LocalModel); err != nil {
		return err
	}
	for name, settings := range cfg.Providers {
		if err := validateEndpoints(name, settings); err != nil {
			return err
		}
	}
	if err := validateSecurity(cfg.Security); err != nil {
		return err
	}
	return validateExecution(cfg.Execution)
}

func validateLocalModel(local domain.LocalModelSettings) error {
	if local.Host == "" {
		return nil
	}
	return validateURL("local_model.host", local.Host)
}

func validateEndpoints(name string, settings domain.ProviderSettings) error {
	for _, key := range []string{"base_url", "host"} {
		if value := settings[key]; value != "" {
			if err := validateURL(fmt.Sprintf("providers.%s.%s", name, key), value); err != nil {
				return err
			}
		}
	}
	if raw := strings.TrimSpace(settings["max_tokens"]); raw != "" {
		n := domain.IntSetting(settings, "max_tokens", -1)
		if n <= 0 {
			return fmt.Errorf("providers.%s.max_tokens must be a positive integer, got %q", name, raw)
		}
		if n > math.MaxInt32 {
			return fmt.Errorf("providers.%s.max_tokens must not exceed %d, got %q", name, math.MaxInt32, raw)
		}
	}
	return nil
}

func validateURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, value)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	return nil
}

func validateSecurity(sec domain.SecuritySettings) error {
	if sec.Enabled && sec.RulesFile == "" {
		return fmt.Errorf("security.rules_file must be set when security is enabled")
	}
	return nil
}

func validateExecution(exec domain.ExecutionSettings) error {
	if strings.ContainsAny(exec.Shell, "\n\r") {
		return fmt.Errorf("execution.shell must be a single path or \"auto\"")
	}
	return nil
}
