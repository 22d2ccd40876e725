// Package security screens commands against regex guardrail rules before they run.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gautham9566/AI-Shell/assets"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/pkg/filesystem"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Guardrail implements the SecurityService port.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads guardrail rules from path. A missing file, an empty path
// or a file without patterns falls back to the embedded defaults.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return compile(rules.Rules.DangerPatterns)
}

// NewPermissive returns a guardrail without rules; every command is allowed.
func NewPermissive() *Guardrail {
	return &Guardrail{}
}

func compile(patterns []DangerPattern) (*Guardrail, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Guardrail{patterns: compiled}, nil
}

// Evaluate implements ports.SecurityService. The most severe matching rule
// decides the action; every match contributes a reason.
func (g *Guardrail) Evaluate(command string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("guardrail nil")
	}
	assessment := domain.RiskAssessment{
		Level:  domain.RiskSafe,
		Action: domain.ActionAllow,
	}
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		level := parseRiskLevel(pattern.rule.Level)
		action := parseAction(pattern.rule.Action, level)
		if moreSevere(level, assessment.Level) || (level == assessment.Level && stricter(action, assessment.Action)) {
			assessment.Level = level
			assessment.Action = action
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	return assessment, nil
}

// Rules returns the number of loaded patterns.
func (g *Guardrail) Rules() int {
	return len(g.patterns)
}

func loadRules(path string) (RulesFile, error) {
	if path != "" {
		data, err := os.ReadFile(expandPath(path))
		switch {
		case err == nil:
			var rules RulesFile
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return RulesFile{}, fmt.Errorf("parse guardrail rules: %w", err)
			}
			if len(rules.Rules.DangerPatterns) > 0 {
				return rules, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return RulesFile{}, err
		}
	}
	return defaultRules()
}

func defaultRules() (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultGuardrailYAML, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("embedded guardrail rules: %w", err)
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func parseAction(value string, fallback domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "allow":
		return domain.ActionAllow
	case "confirm":
		return domain.ActionConfirm
	case "block":
		return domain.ActionBlock
	default:
		if fallback == domain.RiskSafe {
			return domain.ActionAllow
		}
		return domain.ActionConfirm
	}
}

var severity = map[domain.RiskLevel]int{
	domain.RiskSafe:     0,
	domain.RiskLow:      1,
	domain.RiskMedium:   2,
	domain.RiskHigh:     3,
	domain.RiskCritical: 4,
}

func moreSevere(next, current domain.RiskLevel) bool {
	return severity[next] > severity[current]
}

func stricter(next, current domain.GuardrailAction) bool {
	rank := map[domain.GuardrailAction]int{
		domain.ActionAllow:   0,
		domain.ActionConfirm: 1,
		domain.ActionBlock:   2,
	}
	return rank[next] > rank[current]
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filesystem.UserHomeDir() + path[1:]
	}
	return path
}

var _ ports.SecurityService = (*Guardrail)(nil)
