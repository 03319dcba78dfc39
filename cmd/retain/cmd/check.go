package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/retain/pkg/text"
	"github.com/go-drift/retain/pkg/theme"
)

func newCheckCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a config file",
		Long: `Validate a config file and print the settings it resolves to.

The file may be given as an argument or with --config. Fonts listed in the
file are loaded to make sure they parse.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.config = args[0]
			}
			if flags.config == "" {
				return fmt.Errorf("no config file given")
			}
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			th, err := cfg.Theme.Apply(theme.Default())
			if err != nil {
				return err
			}
			fonts := text.NewFontMap()
			defer fonts.Close()
			if err := cfg.LoadFonts(fonts); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			version := cfg.Version
			if version == "" {
				version = "(current)"
			}
			fmt.Fprintf(out, "Config: %s\n", flags.config)
			fmt.Fprintf(out, "  version:       %s\n", version)
			fmt.Fprintf(out, "  window:        %gx%g @%gx\n", cfg.Window.Width, cfg.Window.Height, cfg.Window.DPIFactor)
			if g := cfg.Graph.RemovalGrace; g != nil {
				fmt.Fprintf(out, "  removal grace: %d\n", *g)
			}
			fmt.Fprintf(out, "  fonts:         %d\n", fonts.Len())
			fmt.Fprintf(out, "  theme:         %s\n", th.Name)
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}
