package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gautham9566/AI-Shell/assets"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/filesystem"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// EnvConfigPath overrides the configuration file location.
const EnvConfigPath = "AISHELL_CONFIG"

// FileLoader loads configuration from ~/.aishell/config.yaml (overridable via AISHELL_CONFIG).
// Files ending in .toml are decoded as TOML, everything else as YAML.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path means the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err := defaultConfig()
		if err != nil {
			return domain.Config{}, err
		}
		if err := writeDefault(path, cfg); err != nil {
			return domain.Config{}, err
		}
		return hydrateDefaults(cfg), nil
	}

	cfg, err := decode(path, data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes cfg back to disk in the format implied by the file extension.
func (l *FileLoader) Save(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	path := l.resolvePath()
	raw, err := encode(path, cfg)
	if err != nil {
		return err
	}
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".aishell", "config.yaml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, data []byte) (domain.Config, error) {
	var cfg domain.Config
	if isTOML(path) {
		err := toml.Unmarshal(data, &cfg)
		return cfg, err
	}
	err := yaml.Unmarshal(data, &cfg)
	return cfg, err
}

func encode(path string, cfg domain.Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// writeDefault keeps the commented embedded YAML when the target is YAML.
func writeDefault(path string, cfg domain.Config) error {
	raw := assets.DefaultConfigYAML
	if isTOML(path) {
		var err error
		if raw, err = toml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("embedded default config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig exposes the bootstrap configuration with paths expanded.
func DefaultConfig() (domain.Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultProvider == "" {
		cfg.Preferences.DefaultProvider = domain.FallbackDefaultProvider.String()
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = filepath.Join(filesystem.UserHomeDir(), ".aishell", "guardrail.yaml")
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = filepath.Join(filesystem.UserHomeDir(), ".aishell", "command_cache.db")
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = "auto"
	}
	cfg.LocalModel.Path = expandPath(cfg.LocalModel.Path)
	cfg.Security.RulesFile = expandPath(cfg.Security.RulesFile)
	cfg.Cache.Path = expandPath(cfg.Cache.Path)
	return cfg
}

func expandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return filesystem.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
