package cmd

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/theme"
)

func newThemeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Print the resolved theme",
		Long: `Print the default theme with the overrides from --config applied.

Colors are shown as swatches when the terminal supports them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			th, err := cfg.Theme.Apply(theme.Default())
			if err != nil {
				return err
			}
			printTheme(termenv.NewOutput(cmd.OutOrStdout()), th)
			return nil
		},
	}
}

func printTheme(out *termenv.Output, th *theme.Theme) {
	swatch := func(name string, c geometry.Color) {
		hex := c.Hex()
		block := out.String("    ").Background(out.Color(hex[:7]))
		fmt.Fprintf(out, "  %-18s %s %s\n", name, block, hex)
	}
	fmt.Fprintf(out, "Theme: %s\n", th.Name)
	swatch("background", th.Background)
	swatch("shape_color", th.ShapeColor)
	swatch("border_color", th.BorderColor)
	swatch("label_color", th.LabelColor)
	fmt.Fprintf(out, "  %-18s %g\n", "border_width", th.BorderWidth)
	fmt.Fprintf(out, "  %-18s %d\n", "font", th.Font)
	fmt.Fprintf(out, "  %-18s %g\n", "font_size", th.FontSize)
	fmt.Fprintf(out, "  %-18s %g\n", "line_thickness", th.LineThickness)
	fmt.Fprintf(out, "  %-18s %d\n", "circle_resolution", th.CircleResolution)
}
