package domain

import "time"

// QueryRequest captures user intent originating from the CLI.
type QueryRequest struct {
	Prompt     string
	Regenerate bool
	NoCache    bool
	Execute    bool
	Preview    bool
}

// QueryResponse is the canonical response propagated back to the CLI.
type QueryResponse struct {
	Prompt          string
	Command         string
	Explanation     string
	RiskAssessment  RiskAssessment
	FromCache       bool
	Regenerations   int
	ExecutionResult *ExecutionResult
	SavedToCache    bool
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	Err        error
}

// Succeeded reports a zero exit status.
func (r ExecutionResult) Succeeded() bool {
	return r.Ran && r.Err == nil && r.ExitCode == 0
}

// Choice is the user's answer to "Run command? (y/N/R)".
type Choice int

const (
	ChoiceSkip Choice = iota
	ChoiceRun
	ChoiceRegenerate
)

// CacheEntry is one persisted query → command mapping.
type CacheEntry struct {
	Query       string    `json:"query"`
	Command     string    `json:"command"`
	Explanation string    `json:"explanation,omitempty"`
	UsageCount  int       `json:"usage_count"`
	LastUsed    time.Time `json:"last_used"`
}

// Result converts the entry into a generation result.
func (e CacheEntry) Result() Result {
	return NewResult(e.Command, e.Explanation)
}
