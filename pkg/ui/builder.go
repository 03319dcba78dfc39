package ui

import (
	"log/slog"

	"github.com/go-drift/retain/pkg/config"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/logging"
	"github.com/go-drift/retain/pkg/text"
	"github.com/go-drift/retain/pkg/theme"
)

// Builder configures a Ui before it is built.
//
//	u, err := ui.NewBuilder(800, 600).
//	    Theme(myTheme).
//	    RemovalGrace(2).
//	    Build()
type Builder struct {
	width, height float64
	dpi           float64
	theme         *theme.Theme
	grace         int
	cacheW        int
	cacheH        int
	logger        *slog.Logger
	cfg           *config.Config
}

// NewBuilder starts a Ui of width×height logical points.
func NewBuilder(width, height float64) *Builder {
	return &Builder{
		width:  width,
		height: height,
		dpi:    1,
		grace:  graph.DefaultRemovalGrace,
	}
}

// Size sets the window size in logical points. Non-positive values keep
// the current dimension.
func (b *Builder) Size(width, height float64) *Builder {
	if width > 0 {
		b.width = width
	}
	if height > 0 {
		b.height = height
	}
	return b
}

// Theme sets the style defaults. The theme is copied.
func (b *Builder) Theme(t *theme.Theme) *Builder {
	if t != nil {
		b.theme = t.Copy()
	}
	return b
}

// RemovalGrace sets how many frames an undeclared widget is kept before it
// is removed.
func (b *Builder) RemovalGrace(frames int) *Builder {
	b.grace = max(frames, 0)
	return b
}

// DPIFactor records the window's scale factor for renderers built from the
// Ui.
func (b *Builder) DPIFactor(f float64) *Builder {
	if f > 0 {
		b.dpi = f
	}
	return b
}

// GlyphCacheSize sets the glyph atlas size of renderers created with
// Ui.NewRenderer.
func (b *Builder) GlyphCacheSize(width, height int) *Builder {
	b.cacheW, b.cacheH = max(width, 0), max(height, 0)
	return b
}

// Logger sets the logger for frame diagnostics. Without one the package
// logger from pkg/logging is used.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// FromConfig applies a loaded configuration. Window, graph and glyph cache
// settings made after this call override the file; theme overrides from the
// file are applied on top of the builder theme at Build.
func (b *Builder) FromConfig(cfg *config.Config) *Builder {
	if cfg == nil {
		return b
	}
	b.cfg = cfg
	if cfg.Window.Width > 0 {
		b.width = cfg.Window.Width
	}
	if cfg.Window.Height > 0 {
		b.height = cfg.Window.Height
	}
	if cfg.Window.DPIFactor > 0 {
		b.dpi = cfg.Window.DPIFactor
	}
	if cfg.Graph.RemovalGrace != nil {
		b.grace = max(*cfg.Graph.RemovalGrace, 0)
	}
	if cfg.Text.CacheWidth > 0 {
		b.cacheW = cfg.Text.CacheWidth
	}
	if cfg.Text.CacheHeight > 0 {
		b.cacheH = cfg.Text.CacheHeight
	}
	return b
}

// Build creates the Ui. It fails only when configured fonts or theme
// overrides cannot be loaded. Without configured fonts, Go Regular is
// registered as font 0.
func (b *Builder) Build() (*Ui, error) {
	th := b.theme
	if th == nil {
		th = theme.Default()
	}
	fonts := text.NewFontMap()
	if b.cfg != nil {
		var err error
		if th, err = b.cfg.Theme.Apply(th); err != nil {
			return nil, err
		}
		if err := b.cfg.LoadFonts(fonts); err != nil {
			return nil, err
		}
	}
	if fonts.Len() == 0 {
		fonts.InsertGoRegular()
	}
	logger := b.logger
	if logger == nil {
		logger = logging.Logger()
	}
	return newUi(b, th, fonts, logger), nil
}
