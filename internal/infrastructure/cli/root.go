package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/doeshing/mastopoll/internal/application/poll"
	"github.com/doeshing/mastopoll/internal/infrastructure/cli/commands"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned session must be
// closed once the command has run.
func NewRootCmd(opts Options) (*cobra.Command, *commands.Session) {
	session := &commands.Session{}
	session.Options.Verbose = opts.Verbose
	var envFile string

	root := &cobra.Command{
		Use:   "mastopoll",
		Short: "Generate novel opinion polls and post them to Mastodon",
		Long: "mastopoll asks a language model for a four-answer poll, rejects candidates " +
			"too close to earlier polls, and publishes the first novel one.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&session.Options.ConfigPath, "config", "", "Config file (default ~/.mastopoll/config.yaml)")
	flags.StringVar(&session.Options.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	flags.BoolVar(&session.Options.LogJSON, "log-json", false, "Emit logs as JSON")
	flags.StringVar(&envFile, "env-file", DefaultEnvFile, "Dotenv file with credentials")

	root.AddCommand(newRunCommand(session))
	root.AddCommand(commands.NewHistoryCommand(session))
	root.AddCommand(commands.NewConfigCommand(session))
	root.AddCommand(commands.NewDoctorCommand(session))
	root.AddCommand(commands.NewVersionCommand())
	return root, session
}

// loadEnvFile reads dotenv credentials without overriding the process
// environment. Only an explicitly named file is required to exist.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && path == DefaultEnvFile && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func newRunCommand(session *commands.Session) *cobra.Command {
	var (
		dryRun      bool
		maxAttempts int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate, filter and publish one poll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-attempts") && maxAttempts < 1 {
				return errors.New(commands.ErrInvalidMaxAttempts)
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			container, err := session.Container(ctx)
			if err != nil {
				return err
			}
			svc, err := container.RunService(dryRun)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-attempts") {
				svc.Settings.MaxAttempts = maxAttempts
			}

			report, err := svc.Run(ctx, poll.RunOptions{DryRun: dryRun})
			RenderRunReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Filter normally but do not publish or record")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Override generation.max_attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Abort the whole pass after this long")

	return cmd
}
