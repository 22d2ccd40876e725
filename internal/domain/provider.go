// Package domain defines core business entities and value objects for aishell.
//
// This file contains the provider identities and the generation result shared by
// every backend. The domain layer is independent of infrastructure concerns.
package domain

import (
	"strconv"
	"strings"
)

// ProviderKind is the immutable identity tag of a backend.
type ProviderKind string

const (
	ProviderLocal      ProviderKind = "local"
	ProviderBedrock    ProviderKind = "bedrock"
	ProviderOpenAI     ProviderKind = "openai"
	ProviderAnthropic  ProviderKind = "anthropic"
	ProviderOllama     ProviderKind = "ollama"
	ProviderOpenRouter ProviderKind = "openrouter"
	ProviderGemini     ProviderKind = "gemini"
)

// KnownProviders lists every backend kind in registration order.
// Local inference is always first.
var KnownProviders = []ProviderKind{
	ProviderLocal,
	ProviderBedrock,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderOllama,
	ProviderOpenRouter,
	ProviderGemini,
}

// ParseProviderKind normalizes user input ("OpenAI", " ollama ") into a known kind.
func ParseProviderKind(value string) (ProviderKind, bool) {
	kind := ProviderKind(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range KnownProviders {
		if known == kind {
			return kind, true
		}
	}
	return "", false
}

// IsLocal reports whether the kind is the local inference backend.
func (k ProviderKind) IsLocal() bool {
	return k == ProviderLocal
}

func (k ProviderKind) String() string {
	return string(k)
}

// Result is the outcome of one generation attempt.
// An empty Command means the attempt failed and Explanation is empty as well.
type Result struct {
	Command     string
	Explanation string
}

// NewResult builds a Result, collapsing the explanation when there is no command.
func NewResult(command, explanation string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{}
	}
	return Result{Command: command, Explanation: strings.TrimSpace(explanation)}
}

// Empty reports a total failure.
func (r Result) Empty() bool {
	return r.Command == ""
}

// HasExplanation reports whether an explanation accompanies the command.
func (r Result) HasExplanation() bool {
	return r.Command != "" && r.Explanation != ""
}

// GenerationMode selects the fallback policy.
type GenerationMode int

const (
	// ModeNormal prefers local inference, then the default provider.
	ModeNormal GenerationMode = iota
	// ModeRegenerate asks for an alternative answer and deprioritizes local inference.
	ModeRegenerate
)

func (m GenerationMode) String() string {
	switch m {
	case ModeRegenerate:
		return "regenerate"
	default:
		return "normal"
	}
}

// OrchestratorConfig is built once at startup and read-only afterwards.
type OrchestratorConfig struct {
	DefaultProvider ProviderKind
	Initialized     []ProviderKind
}

// IsInitialized reports whether kind is in the initialized list.
func (c OrchestratorConfig) IsInitialized(kind ProviderKind) bool {
	for _, k := range c.Initialized {
		if k == kind {
			return true
		}
	}
	return false
}

// InitializedNames renders the initialized kinds for diagnostics, "none" when empty.
func (c OrchestratorConfig) InitializedNames() string {
	if len(c.Initialized) == 0 {
		return "none"
	}
	names := make([]string, 0, len(c.Initialized))
	for _, k := range c.Initialized {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// LocalModelConfig describes the local inference backend.
type LocalModelConfig struct {
	Path        string
	ContextSize int
	Threads     int
	Host        string
}

// AsMap converts the local settings into the generic provider config mapping.
func (c LocalModelConfig) AsMap() map[string]string {
	m := map[string]string{
		"path":      c.Path,
		"n_ctx":     strconv.Itoa(c.ContextSize),
		"n_threads": strconv.Itoa(c.Threads),
	}
	if c.Host != "" {
		m["host"] = c.Host
	}
	return m
}
