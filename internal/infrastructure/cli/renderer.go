package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/helpers"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Renderer prints query results to out and notices to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
}

// NewRenderer builds a renderer; nil writers default to stdout and stderr.
func NewRenderer(out, errOut io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Renderer{out: out, errOut: errOut}
}

// Notify implements ports.Notifier.
func (r *Renderer) Notify(level domain.NoticeLevel, message string) {
	fmt.Fprintln(r.errOut, helpers.NoticeStyle(level).Render(message))
}

// RenderCommand shows the command, its explanation and any guardrail findings.
func (r *Renderer) RenderCommand(resp domain.QueryResponse) {
	if resp.FromCache {
		fmt.Fprintln(r.out, helpers.MutedStyle.Render("(from cache)"))
	}
	fmt.Fprintln(r.out, helpers.CommandBoxStyle.Render("Command: "+helpers.CommandStyle.Render(resp.Command)))
	if resp.Explanation != "" {
		fmt.Fprintln(r.out, helpers.InfoStyle.Render("Explanation: "+resp.Explanation))
	}

	risk := resp.RiskAssessment
	if risk.Level == "" || risk.Level == domain.RiskSafe {
		return
	}
	style := helpers.RiskStyle(risk.Level)
	fmt.Fprintln(r.out, style.Render(fmt.Sprintf("Risk: %s (%s)", strings.ToUpper(string(risk.Level)), risk.Action)))
	for _, reason := range risk.Reasons {
		fmt.Fprintln(r.out, style.Render(" - "+reason))
	}
}

// RenderOutcome reports what happened after the prompt, if anything.
func (r *Renderer) RenderOutcome(resp domain.QueryResponse) {
	result := resp.ExecutionResult
	if result == nil {
		return
	}
	if result.Succeeded() {
		if resp.SavedToCache {
			fmt.Fprintln(r.errOut, helpers.MutedStyle.Render("Saved to cache"))
		}
		return
	}
	if result.Ran {
		r.Notify(domain.NoticeError, fmt.Sprintf("Command failed with exit code %d", result.ExitCode))
		return
	}
	if result.Err != nil {
		r.Notify(domain.NoticeError, fmt.Sprintf("Command failed: %v", result.Err))
	}
}

var _ ports.Notifier = (*Renderer)(nil)
