package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gautham9566/AI-Shell/internal/app"
	configapp "github.com/gautham9566/AI-Shell/internal/application/config"
	"github.com/gautham9566/AI-Shell/internal/domain"
	"github.com/gautham9566/AI-Shell/internal/infrastructure/cli/helpers"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect AI Shell configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container.Config)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show configuration with secrets masked",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd.OutOrStdout(), container.Config)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
				return nil
			},
		},
		newConfigSetDefaultCommand(container),
		newConfigValidateCommand(container),
	)

	return configCmd
}

// newConfigSetDefaultCommand creates the 'config set-default' subcommand
func newConfigSetDefaultCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:       "set-default <provider>",
		Short:     "Persist the default provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: providerNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.SetDefaultProvider(args[0]); err != nil {
				return err
			}
			if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), helpers.SuccessStyle.Render("Default provider set to "+cfg.DefaultProvider().String()))
			if cfg.DefaultProvider() != domain.ProviderLocal {
				fmt.Fprintln(cmd.OutOrStdout(), helpers.MutedStyle.Render("A loaded local model still takes precedence."))
			}
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err == nil {
				err = configapp.Validate(cfg)
			}
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// showConfiguration prints the configuration as YAML with API keys masked.
func showConfiguration(out io.Writer, cfg domain.Config) error {
	masked := cfg
	masked.Providers = make(map[string]domain.ProviderSettings, len(cfg.Providers))
	for name := range cfg.Providers {
		kind, ok := domain.ParseProviderKind(name)
		if !ok {
			continue
		}
		masked.Providers[name] = cfg.MaskedCredentials(kind)
	}

	raw, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(raw)
	return err
}

func providerNames() []string {
	names := make([]string, 0, len(domain.KnownProviders))
	for _, kind := range domain.KnownProviders {
		names = append(names, kind.String())
	}
	return names
}
