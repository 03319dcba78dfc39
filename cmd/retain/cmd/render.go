package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/ui"
)

type renderFlags struct {
	width, height float64
	dpi           float64
	frames        int
	atlas         string
}

func newRenderCommand(flags *globalFlags) *cobra.Command {
	rf := &renderFlags{}
	c := &cobra.Command{
		Use:   "render",
		Short: "Render the demo scene headlessly",
		Long: `Declare the demo scene for a number of frames and fill the mesh renderer
each time something changed. Prints per-frame statistics.

Window size and DPI factor come from --config unless set by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			b := ui.NewBuilder(rf.width, rf.height).FromConfig(cfg)
			var w, h float64
			if cmd.Flags().Changed("width") {
				w = rf.width
			}
			if cmd.Flags().Changed("height") {
				h = rf.height
			}
			b.Size(w, h)
			if cmd.Flags().Changed("dpi") {
				b.DPIFactor(rf.dpi)
			}
			u, err := b.Build()
			if err != nil {
				return err
			}
			return runRender(cmd, u, rf)
		},
	}
	c.Flags().Float64Var(&rf.width, "width", 640, "window width in points")
	c.Flags().Float64Var(&rf.height, "height", 400, "window height in points")
	c.Flags().Float64Var(&rf.dpi, "dpi", 1, "DPI factor")
	c.Flags().IntVarP(&rf.frames, "frames", "n", 3, "number of frames to run")
	c.Flags().StringVar(&rf.atlas, "atlas", "", "write the glyph atlas to this PNG file")
	return c
}

func runRender(cmd *cobra.Command, u *ui.Ui, rf *renderFlags) error {
	out := cmd.OutOrStdout()
	r := u.NewRenderer()
	imgs := images.NewMap[images.Dims]()
	s := newScene(u.IDGenerator())
	w, h := u.Dims()

	for frame := range rf.frames {
		var declErr error
		u.Update(func(c *ui.Cell) {
			declErr = s.declare(c, frame, w, h)
		})
		if declErr != nil {
			return declErr
		}
		prims, ok := u.DrawIfChanged()
		if !ok {
			fmt.Fprintf(out, "frame %d: unchanged\n", frame)
			continue
		}
		f, err := r.Fill(prims, imgs)
		if err != nil {
			return err
		}
		st := prims.Stats()
		fmt.Fprintf(out, "frame %d: %d primitives (%d emitted, %d reused, %d pruned), %d commands, %d vertices, %d uploads\n",
			frame, f.Stats.Primitives, st.Emitted, st.Reused, st.Pruned, f.Stats.Commands, f.Stats.Vertices, len(f.Uploads))
	}

	glyphs := r.GlyphCache()
	fmt.Fprintf(out, "glyphs cached: %d, evicted: %d\n", glyphs.Len(), glyphs.Evicted())
	if rf.atlas == "" {
		return nil
	}
	file, err := os.Create(rf.atlas)
	if err != nil {
		return fmt.Errorf("failed to create atlas file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, glyphs.Atlas()); err != nil {
		return fmt.Errorf("failed to encode atlas: %w", err)
	}
	fmt.Fprintf(out, "atlas written to %s\n", rf.atlas)
	return nil
}
