// Package ai implements the command generation backends.
//
// Every backend satisfies ports.Provider:
//   - Factory: builds uninitialized backends by kind, in registration order
//   - transport: shared JSON-over-HTTP plumbing with per-backend request pacing
//   - Prompt templates: render the system and user prompts for an OS hint
//
// Backends never return errors to callers. Transport failures are typed as
// *TransportError, logged at debug level and collapsed to an empty domain.Result.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/parser"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// TransportError describes a failed exchange with a backend.
type TransportError struct {
	Provider domain.ProviderKind
	Op       string
	Status   int
	Cause    error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// transport is the HTTP client shared by the JSON backends of one kind.
type transport struct {
	kind    domain.ProviderKind
	client  *http.Client
	limiter *rate.Limiter
	log     ports.Logger
}

func newTransport(kind domain.ProviderKind, client *http.Client, log ports.Logger) *transport {
	return &transport{
		kind:    kind,
		client:  client,
		limiter: newLimiter(0),
		log:     log,
	}
}

// newLimiter paces requests to perMinute; zero or less disables pacing.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// configure applies the settings shared by every remote backend.
func (t *transport) configure(config map[string]string) {
	t.limiter = newLimiter(domain.IntSetting(config, "requests_per_minute", 0))
}

func (t *transport) postJSON(ctx context.Context, url string, headers map[string]string, payload, out interface{}) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &TransportError{Provider: t.kind, Op: "wait", Cause: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Provider: t.kind, Op: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Provider: t.kind, Op: "create request", Cause: err}
	}
	req.Header.Set("content-type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return t.do(req, out)
}

// probe issues a short GET used during initialization. It bypasses pacing.
func (t *transport) probe(ctx context.Context, url string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, domain.DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Provider: t.kind, Op: "create request", Cause: err}
	}
	return t.do(req, out)
}

func (t *transport) do(req *http.Request, out interface{}) error {
	op := req.Method + " " + req.URL.Path

	resp, err := t.client.Do(req)
	if err != nil {
		return &TransportError{Provider: t.kind, Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &TransportError{Provider: t.kind, Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Provider: t.kind, Op: op, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// fail logs the error and returns the empty result.
func (t *transport) fail(err error) domain.Result {
	t.log.Debug("generation failed", map[string]interface{}{
		"provider": t.kind.String(),
		"error":    err.Error(),
	})
	return domain.Result{}
}

// parseReply runs free-form remote output through the full extraction pipeline.
func parseReply(text, osHint string) domain.Result {
	return domain.NewResult(parser.Parse(text, osHint))
}

// parseCompletion handles the short raw completions of local models: the first
// line is cleaned as a command, falling back to full extraction.
func parseCompletion(text, osHint, describe string) domain.Result {
	command := ""
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			command, _ = parser.CleanCommand(line)
			break
		}
	}
	if command == "" {
		command, _ = parser.Parse(text, osHint)
	}
	if command == "" {
		return domain.Result{}
	}
	return domain.NewResult(command, "Generated by "+describe)
}

// tokenBudget converts a max_tokens setting to the int32 the SDK clients take,
// clamping values that do not fit.
func tokenBudget(n int) int32 {
	switch {
	case n <= 0:
		return domain.DefaultMaxTokens
	case n > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(n)
	}
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func trimBaseURL(value, def string) string {
	return strings.TrimRight(valueOrDefault(strings.TrimSpace(value), def), "/")
}
