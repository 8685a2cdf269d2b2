package commands

import (
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/mastopoll/internal/app"
	configinfra "github.com/doeshing/mastopoll/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(session *Session) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect mastopoll configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, showConfiguration)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(session),
		newConfigPathCommand(session),
		newConfigValidateCommand(session),
		newConfigDiffCommand(session),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration with defaults applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, showConfiguration)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), configinfra.NewFileLoader(session.Options.ConfigPath).Path())
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, func(out io.Writer, container *app.Container) error {
				if err := app.Validate(container.Config); err != nil {
					return err
				}
				fmt.Fprintln(out, MsgConfigurationValid)
				return nil
			})
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show differences from the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, showConfigurationDiff)
		},
	}
}

// showConfiguration prints the effective configuration as YAML
func showConfiguration(out io.Writer, container *app.Container) error {
	data, err := yaml.Marshal(container.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(out io.Writer, container *app.Container) error {
	diff := cmp.Diff(configinfra.DefaultConfig(), container.Config)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, diff)
	return nil
}

func withContainer(cmd *cobra.Command, session *Session, fn func(io.Writer, *app.Container) error) error {
	container, err := session.Container(cmd.Context())
	if err != nil {
		return err
	}
	return fn(cmd.OutOrStdout(), container)
}
