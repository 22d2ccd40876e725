package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gautham9566/AI-Shell/internal/domain"
)

func TestParseChoice(t *testing.T) {
	tests := map[string]domain.Choice{
		"y\n":          domain.ChoiceRun,
		" YES ":        domain.ChoiceRun,
		"r\n":          domain.ChoiceRegenerate,
		"R":            domain.ChoiceRegenerate,
		"regenerate\n": domain.ChoiceRegenerate,
		"\n":           domain.ChoiceSkip,
		"n":            domain.ChoiceSkip,
		"":             domain.ChoiceSkip,
		"yep":          domain.ChoiceSkip,
	}
	for input, want := range tests {
		assert.Equal(t, want, parseChoice(input), "input %q", input)
	}
}

func TestPrompterChoose(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("r\ny\n"), &out, NewRenderer(&out, &out))
	assert.False(t, p.Enabled(), "explicit readers are not a terminal")
	p.SetInteractive(true)
	assert.True(t, p.Enabled())

	resp := domain.QueryResponse{
		Command:     "ls -la",
		Explanation: "lists files",
		RiskAssessment: domain.RiskAssessment{
			Level:   domain.RiskMedium,
			Action:  domain.ActionConfirm,
			Reasons: []string{"Runs with elevated privileges"},
		},
	}

	choice, err := p.Choose(resp)
	require.NoError(t, err)
	assert.Equal(t, domain.ChoiceRegenerate, choice)

	choice, err = p.Choose(resp)
	require.NoError(t, err)
	assert.Equal(t, domain.ChoiceRun, choice)

	choice, err = p.Choose(resp)
	require.NoError(t, err, "EOF declines")
	assert.Equal(t, domain.ChoiceSkip, choice)

	assert.Equal(t, 3, p.Asked())
	text := out.String()
	assert.Contains(t, text, "ls -la")
	assert.Contains(t, text, "lists files")
	assert.Contains(t, text, "Runs with elevated privileges")
	assert.Contains(t, text, "Run command? (y/N/R)")
}

func TestRendererOutcome(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut)

	r.RenderOutcome(domain.QueryResponse{ExecutionResult: &domain.ExecutionResult{Ran: true, ExitCode: 2}})
	assert.Contains(t, errOut.String(), "exit code 2")

	errOut.Reset()
	r.RenderOutcome(domain.QueryResponse{ExecutionResult: &domain.ExecutionResult{Ran: true}, SavedToCache: true})
	assert.Contains(t, errOut.String(), "Saved to cache")

	errOut.Reset()
	r.RenderOutcome(domain.QueryResponse{})
	assert.Empty(t, errOut.String())
	assert.Empty(t, out.String())
}
