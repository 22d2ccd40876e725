package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gautham9566/AI-Shell/internal/app"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cache"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/helpers"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the query cache",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheGetCommand(container),
		newCacheClearCommand(container),
		newCachePathCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached commands, most recently used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(container)
			if err != nil {
				return err
			}
			entries, err := store.Entries(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to retrieve cache entries: %w", err)
			}
			listCacheEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultCacheListLimit, "Maximum entries to show (0 for all)")
	return cmd
}

// newCacheGetCommand creates the 'cache get' subcommand. Reading an entry
// counts as a use.
func newCacheGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <query>",
		Short: "Show the cached command for an exact query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(container)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			entry, ok, err := store.Get(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("cache lookup failed: %w", err)
			}
			if !ok {
				return fmt.Errorf("no cached command for %q", query)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, helpers.CommandStyle.Render(entry.Command))
			if entry.Explanation != "" {
				fmt.Fprintln(out, helpers.InfoStyle.Render(entry.Explanation))
			}
			fmt.Fprintln(out, helpers.MutedStyle.Render(fmt.Sprintf("used %d times", entry.UsageCount)))
			return nil
		},
	}
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached command",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cacheStore(container)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !force && !helpers.PromptForConfirmation(out, bufio.NewReader(cmd.InOrStdin()), "Clear the query cache?") {
				fmt.Fprintln(out, MsgClearCancelled)
				return nil
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(out, MsgCacheCleared)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}

// newCachePathCommand creates the 'cache path' subcommand
func newCachePathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.Config.Cache.Path
			if container.CacheStore != nil {
				path = container.CacheStore.Path()
			}
			if path == "" {
				path = cache.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func cacheStore(container *app.Container) (*cache.SQLiteStore, error) {
	if container.CacheStore == nil {
		return nil, errors.New(ErrCacheStoreUnavailable)
	}
	return container.CacheStore, nil
}

// listCacheEntries prints one entry per line: usage, last use, query and command.
func listCacheEntries(out io.Writer, entries []domain.CacheEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedCommands)
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%4d  %s  %s\n      %s\n",
			entry.UsageCount,
			helpers.MutedStyle.Render(entry.LastUsed.Local().Format(domain.TimestampFormat)),
			entry.Query,
			helpers.CommandStyle.Render(entry.Command))
	}
}
