package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gautham9566/AI-Shell/internal/app"
	"github.com/gautham9566/AI-Shell/internal/application/query"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// NewRootCmd wires the cobra root command. The returned cleanup closes the
// container and must be called after execution.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error, error) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	renderer := NewRenderer(stdout, stderr)

	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
		Notifier:   renderer,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	prompter := NewPrompter(opts.Stdin, stdout, renderer)
	container.QueryService.Prompter = prompter

	run := func(cmd *cobra.Command, args []string, qo *queryOptions) error {
		return runQuery(cmd, args, qo, container, renderer, prompter)
	}
	queryCmd := newQueryCommand(run)

	var rootOpts queryOptions
	root := &cobra.Command{
		Use:   "aishell [query]",
		Short: "AI Shell - natural language to shell commands",
		Long: "AI Shell turns a natural-language request into a single shell command using a local model " +
			"or remote AI providers, asks before running it and caches commands that worked.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(cmd, args, &rootOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootOpts.bind(root)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(queryCmd)
	root.AddCommand(commands.NewProvidersCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, container.Close, nil
}

type queryOptions struct {
	regenerate bool
	execute    bool
	noCache    bool
	preview    bool
	timeout    time.Duration
}

func (o *queryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.regenerate, "regenerate", "r", false, "Ask remote providers for a fresh command, skipping the cache")
	cmd.Flags().BoolVarP(&o.execute, "execute", "x", false, "Run safe commands without asking (guardrails still apply)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "Neither read nor write the query cache")
	cmd.Flags().BoolVarP(&o.preview, "preview-only", "p", false, "Only show the command, never run it")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 2*time.Minute, "Overall time limit for the query including execution")
}

func newQueryCommand(run func(*cobra.Command, []string, *queryOptions) error) *cobra.Command {
	var opts queryOptions
	cmd := &cobra.Command{
		Use:   "query [natural language]",
		Short: "Generate a command from natural language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *queryOptions, container *app.Container, renderer *Renderer, prompter *Prompter) error {
	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	req := domain.QueryRequest{
		Prompt:     strings.Join(args, " "),
		Regenerate: opts.regenerate,
		NoCache:    opts.noCache,
		Execute:    opts.execute,
		Preview:    opts.preview,
	}
	resp, err := container.QueryService.Run(ctx, req)
	if resp.Command != "" && prompter.Asked() == 0 {
		renderer.RenderCommand(resp)
	}
	renderer.RenderOutcome(resp)
	if errors.Is(err, query.ErrNoCommand) && resp.Command == "" {
		renderer.Notify(domain.NoticeError, "Failed to generate command")
	}
	return err
}
