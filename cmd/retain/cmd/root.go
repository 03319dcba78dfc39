// Package cmd implements the retain CLI commands.
//
// The root command carries the global flags (--config, --verbose) and
// dispatches to subcommands (check, render, theme).
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-drift/retain/pkg/config"
	"github.com/go-drift/retain/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

type globalFlags struct {
	config  string
	verbose bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "retain",
		Short: "retain - retained widget graph tooling",
		Long: `retain inspects configuration files for the retained widget graph and
renders a demo scene into vertex buffers without a window.

Use "retain <command> --help" for more information about a command.`,
		Version:       Version + " (built " + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.verbose {
				logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log frame diagnostics to stderr")

	root.AddCommand(
		newCheckCommand(flags),
		newRenderCommand(flags),
		newThemeCommand(flags),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig loads the --config file, or returns an empty config when the
// flag is unset.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	if f.config == "" {
		return &config.Config{}, nil
	}
	return config.Load(f.config)
}
