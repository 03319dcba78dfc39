// Package config loads Ui settings from YAML or TOML files.
//
// A minimal file:
//
//	version: v1.0.0
//	window:
//	  width: 1280
//	  height: 720
//	theme:
//	  shape_color: "#3a7bd5"
//
// Every field is optional; zero values leave the Ui defaults in place.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/text"
	"github.com/go-drift/retain/pkg/theme"
)

// SchemaMajor is the config schema major version this package reads.
const SchemaMajor = "v1"

// Config is the on-disk configuration.
type Config struct {
	// Version is the schema version, e.g. "v1.2.0". Empty means current.
	Version string       `yaml:"version,omitempty" toml:"version,omitempty"`
	Window  WindowConfig `yaml:"window" toml:"window"`
	Graph   GraphConfig  `yaml:"graph" toml:"graph"`
	Text    TextConfig   `yaml:"text" toml:"text"`
	Theme   ThemeConfig  `yaml:"theme" toml:"theme"`
}

// WindowConfig sets the initial window dimensions.
type WindowConfig struct {
	Width     float64 `yaml:"width,omitempty" toml:"width,omitempty"`
	Height    float64 `yaml:"height,omitempty" toml:"height,omitempty"`
	DPIFactor float64 `yaml:"dpi_factor,omitempty" toml:"dpi_factor,omitempty"`
}

// GraphConfig tunes the widget graph.
type GraphConfig struct {
	// RemovalGrace is the number of frames an undeclared widget is kept.
	// Nil keeps the default.
	RemovalGrace *int `yaml:"removal_grace,omitempty" toml:"removal_grace,omitempty"`
}

// TextConfig configures fonts and the glyph atlas.
type TextConfig struct {
	// Fonts are font files registered in order; the first gets id 0.
	// Relative paths resolve against the config file's directory.
	Fonts       []string `yaml:"fonts,omitempty" toml:"fonts,omitempty"`
	CacheWidth  int      `yaml:"cache_width,omitempty" toml:"cache_width,omitempty"`
	CacheHeight int      `yaml:"cache_height,omitempty" toml:"cache_height,omitempty"`
}

// ThemeConfig overrides theme fields. Colors are "#rrggbb" or "#rrggbbaa".
type ThemeConfig struct {
	Name             string  `yaml:"name,omitempty" toml:"name,omitempty"`
	Background       string  `yaml:"background,omitempty" toml:"background,omitempty"`
	ShapeColor       string  `yaml:"shape_color,omitempty" toml:"shape_color,omitempty"`
	BorderColor      string  `yaml:"border_color,omitempty" toml:"border_color,omitempty"`
	LabelColor       string  `yaml:"label_color,omitempty" toml:"label_color,omitempty"`
	BorderWidth      float64 `yaml:"border_width,omitempty" toml:"border_width,omitempty"`
	FontSize         float64 `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	LineThickness    float64 `yaml:"line_thickness,omitempty" toml:"line_thickness,omitempty"`
	CircleResolution int     `yaml:"circle_resolution,omitempty" toml:"circle_resolution,omitempty"`
}

// Load reads and validates the file at path. The format is chosen by
// extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(op, errors.KindConfig, 0, fmt.Errorf("failed to read %s: %w", path, err))
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// LoadOptional is like Load but returns an empty config when path does not
// exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && stderrors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Parse decodes data in the format named by ext (with or without the dot)
// and validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	const op = "config.Parse"
	var cfg Config
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &cfg)
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, errors.New(op, errors.KindConfig, 0, fmt.Errorf("unsupported config format %q", ext))
	}
	if err != nil {
		return nil, errors.New(op, errors.KindConfig, 0, fmt.Errorf("failed to parse config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and the schema version.
func (c *Config) Validate() error {
	const op = "config.Validate"
	var errs []error
	if c.Version != "" {
		switch {
		case !semver.IsValid(c.Version):
			errs = append(errs, fmt.Errorf("version %q is not a semantic version", c.Version))
		case semver.Major(c.Version) != SchemaMajor:
			errs = append(errs, fmt.Errorf("version %s is not supported (want %s.x.y)", c.Version, SchemaMajor))
		}
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window size must not be negative"))
	}
	if c.Window.DPIFactor < 0 {
		errs = append(errs, fmt.Errorf("dpi_factor must not be negative"))
	}
	if g := c.Graph.RemovalGrace; g != nil && *g < 0 {
		errs = append(errs, fmt.Errorf("removal_grace must not be negative"))
	}
	if c.Text.CacheWidth < 0 || c.Text.CacheHeight < 0 {
		errs = append(errs, fmt.Errorf("glyph cache size must not be negative"))
	}
	if c.Theme.CircleResolution < 0 {
		errs = append(errs, fmt.Errorf("circle_resolution must not be negative"))
	}
	if _, err := c.Theme.Apply(theme.Default()); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.New(op, errors.KindConfig, 0, stderrors.Join(errs...))
	}
	return nil
}

func (c *Config) resolvePaths(dir string) {
	for i, p := range c.Text.Fonts {
		if !filepath.IsAbs(p) {
			c.Text.Fonts[i] = filepath.Join(dir, p)
		}
	}
}

// Apply returns a copy of base with the configured overrides applied.
func (t ThemeConfig) Apply(base *theme.Theme) (*theme.Theme, error) {
	out := base.Copy()
	if t.Name != "" {
		out.Name = t.Name
	}
	colors := []struct {
		name string
		hex  string
		dst  *geometry.Color
	}{
		{"background", t.Background, &out.Background},
		{"shape_color", t.ShapeColor, &out.ShapeColor},
		{"border_color", t.BorderColor, &out.BorderColor},
		{"label_color", t.LabelColor, &out.LabelColor},
	}
	for _, c := range colors {
		if c.hex == "" {
			continue
		}
		col, err := geometry.ParseHex(c.hex)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", c.name, err)
		}
		*c.dst = col
	}
	if t.BorderWidth > 0 {
		out.BorderWidth = t.BorderWidth
	}
	if t.FontSize > 0 {
		out.FontSize = t.FontSize
	}
	if t.LineThickness > 0 {
		out.LineThickness = t.LineThickness
	}
	if t.CircleResolution > 0 {
		out.CircleResolution = t.CircleResolution
	}
	return out, nil
}

// LoadFonts registers the configured font files in m.
func (c *Config) LoadFonts(m *text.FontMap) error {
	const op = "config.LoadFonts"
	for _, path := range c.Text.Fonts {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.New(op, errors.KindConfig, 0, fmt.Errorf("failed to read font: %w", err))
		}
		if _, err := m.InsertBytes(data); err != nil {
			return errors.New(op, errors.KindConfig, 0, fmt.Errorf("%s: %w", path, err))
		}
	}
	return nil
}
