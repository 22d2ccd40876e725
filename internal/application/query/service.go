// Package query runs one natural-language request end to end: cache lookup,
// generation, guardrail, confirmation, execution and cache write-back.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

var (
	// ErrEmptyQuery is returned for blank input.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNoCommand is returned when no backend produced a command.
	ErrNoCommand = errors.New("failed to generate command")
	// ErrBlocked is returned when the guardrail refuses the command.
	ErrBlocked = errors.New("command blocked by guardrail")
)

// Service orchestrates the query lifecycle.
type Service struct {
	Generator ports.CommandGenerator
	Cache     ports.CacheRepository
	Security  ports.SecurityService
	Executor  ports.CommandExecutor
	Prompter  ports.ChoicePrompter
	Notifier  ports.Notifier
	Logger    ports.Logger

	UseCache             bool
	ConfirmBeforeExecute bool
}

// Run processes a single natural-language query.
func (s *Service) Run(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	if s.Generator == nil || s.Security == nil || s.Executor == nil || s.Logger == nil || s.Notifier == nil {
		return domain.QueryResponse{}, errors.New("query.Service dependencies not satisfied")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return domain.QueryResponse{}, ErrEmptyQuery
	}
	resp := domain.QueryResponse{Prompt: prompt}

	result, fromCache := s.lookup(ctx, prompt, req)
	if result.Empty() {
		mode := domain.ModeNormal
		if req.Regenerate {
			mode = domain.ModeRegenerate
		}
		result = s.Generator.GenerateCommand(ctx, prompt, mode)
	}
	if result.Empty() {
		return resp, ErrNoCommand
	}

	for {
		resp.Command = result.Command
		resp.Explanation = result.Explanation
		resp.FromCache = fromCache

		risk, err := s.Security.Evaluate(result.Command)
		if err != nil {
			return resp, fmt.Errorf("security evaluate: %w", err)
		}
		resp.RiskAssessment = risk

		choice, err := s.decide(req, resp)
		if err != nil {
			return resp, err
		}

		switch choice {
		case domain.ChoiceRun:
			return s.execute(ctx, req, resp)
		case domain.ChoiceRegenerate:
			s.Notifier.Notify(domain.NoticeInfo, "Regenerating command...")
			result = s.Generator.GenerateCommand(ctx, prompt, domain.ModeRegenerate)
			if result.Empty() {
				s.Notifier.Notify(domain.NoticeError, "Regeneration failed")
				return resp, ErrNoCommand
			}
			fromCache = false
			resp.Regenerations++
		default:
			return resp, nil
		}
	}
}

func (s *Service) cacheEnabled(req domain.QueryRequest) bool {
	return s.Cache != nil && s.UseCache && !req.NoCache
}

// lookup consults the cache unless the caller asked for a fresh answer.
func (s *Service) lookup(ctx context.Context, prompt string, req domain.QueryRequest) (domain.Result, bool) {
	if !s.cacheEnabled(req) || req.Regenerate {
		return domain.Result{}, false
	}
	entry, ok, err := s.Cache.Get(ctx, prompt)
	if err != nil {
		s.Logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		return domain.Result{}, false
	}
	if !ok {
		return domain.Result{}, false
	}
	s.Notifier.Notify(domain.NoticeInfo, "Using cached command")
	s.Logger.Debug("cache hit", map[string]interface{}{"usage_count": entry.UsageCount})
	return entry.Result(), true
}

func (s *Service) decide(req domain.QueryRequest, resp domain.QueryResponse) (domain.Choice, error) {
	if resp.RiskAssessment.Blocked() {
		s.Logger.Warn("command blocked", map[string]interface{}{
			"command": resp.Command,
			"reasons": resp.RiskAssessment.Reasons,
		})
		return domain.ChoiceSkip, fmt.Errorf("%w: %s", ErrBlocked, strings.Join(resp.RiskAssessment.Reasons, "; "))
	}
	if req.Preview {
		return domain.ChoiceSkip, nil
	}
	safe := resp.RiskAssessment.Action == domain.ActionAllow
	if safe && (req.Execute || !s.ConfirmBeforeExecute) {
		return domain.ChoiceRun, nil
	}
	if s.Prompter == nil || !s.Prompter.Enabled() {
		return domain.ChoiceSkip, nil
	}
	choice, err := s.Prompter.Choose(resp)
	if err != nil {
		return domain.ChoiceSkip, fmt.Errorf("prompt: %w", err)
	}
	return choice, nil
}

// execute runs the command and saves freshly generated commands to the cache
// once they ran successfully.
func (s *Service) execute(ctx context.Context, req domain.QueryRequest, resp domain.QueryResponse) (domain.QueryResponse, error) {
	result, err := s.Executor.Execute(ctx, resp.Command)
	resp.ExecutionResult = &result
	if err != nil {
		s.Logger.Info("command failed", map[string]interface{}{
			"exit_code": result.ExitCode,
			"error":     err.Error(),
		})
		return resp, err
	}

	if resp.FromCache || !s.cacheEnabled(req) {
		return resp, nil
	}
	if err := s.Cache.Save(ctx, resp.Prompt, resp.Command, resp.Explanation); err != nil {
		s.Logger.Warn("cache save failed", map[string]interface{}{"error": err.Error()})
		return resp, nil
	}
	resp.SavedToCache = true
	return resp, nil
}
