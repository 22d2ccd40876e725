package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/helpers"
	"github.com/gautham9566/AI-Shell/internal/ports"
)

// Prompter implements ChoicePrompter using stdin/stdout.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	renderer    *Renderer
	interactive bool
	asked       int
}

// NewPrompter constructs a prompter referencing stdio. It is interactive only
// when stdin is a terminal.
func NewPrompter(in io.Reader, out io.Writer, renderer *Renderer) *Prompter {
	interactive := false
	if in == nil {
		in = os.Stdin
		interactive = term.IsTerminal(int(os.Stdin.Fd()))
	}
	if out == nil {
		out = os.Stdout
	}
	if renderer == nil {
		renderer = NewRenderer(out, nil)
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		renderer:    renderer,
		interactive: interactive,
	}
}

// SetInteractive overrides terminal detection.
func (p *Prompter) SetInteractive(interactive bool) {
	p.interactive = interactive
}

// Enabled indicates the prompter can ask questions.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Asked reports how many times the user was prompted.
func (p *Prompter) Asked() int {
	return p.asked
}

// Choose shows the command and asks "Run command? (y/N/R)".
// Anything other than y or r declines.
func (p *Prompter) Choose(resp domain.QueryResponse) (domain.Choice, error) {
	p.asked++
	p.renderer.RenderCommand(resp)
	fmt.Fprint(p.out, helpers.PromptStyle.Render("Run command? (y/N/R)")+" ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.ChoiceSkip, err
	}
	return parseChoice(line), nil
}

func parseChoice(line string) domain.Choice {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return domain.ChoiceRun
	case "r", "regenerate":
		return domain.ChoiceRegenerate
	default:
		return domain.ChoiceSkip
	}
}

var _ ports.ChoicePrompter = (*Prompter)(nil)
