package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gautham9566/AI-Shell/internal/app"
	"github.com/gautham9566/AI-Shell/internal/application/generation"
	"github.com/gautham9566/AI-Shell/internal/application/registry"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/helpers"
)

// NewProvidersCommand lists the initialized providers in attempt order.
func NewProvidersCommand(container *app.Container) *cobra.Command {
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List available providers and the order they are tried in",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := container.Registry(cmd.Context())
			mode := domain.ModeNormal
			if regenerate {
				mode = domain.ModeRegenerate
			}
			displayProviders(cmd.OutOrStdout(), reg, container.Generator(cmd.Context()).Plan(mode), mode)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&regenerate, "regenerate", "r", false, "Show the order used when regenerating")
	return cmd
}

func displayProviders(out io.Writer, reg *registry.Registry, plan []generation.Attempt, mode domain.GenerationMode) {
	entries := reg.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoProviders)
		return
	}

	cfg := reg.Config()
	fmt.Fprintln(out, helpers.TitleStyle.Render("Available providers"))
	for _, entry := range entries {
		marker := " "
		if entry.Kind == cfg.DefaultProvider {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %-11s %s\n", marker, entry.Kind, helpers.MutedStyle.Render(entry.Description))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, helpers.TitleStyle.Render(fmt.Sprintf("Attempt order (%s)", mode)))
	for i, attempt := range plan {
		fmt.Fprintf(out, " %d. %s\n", i+1, attempt.Kind)
	}
}
