package geometry

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// maxByte is the maximum value of a byte, used for color normalization.
const maxByte = 255.0

// Color is stored as ARGB (0xAARRGGBB). The zero value is fully transparent
// black and is treated by built-in widgets as "use the theme default".
type Color uint32

// RGBA constructs a Color from red, green, blue, alpha bytes.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	alpha := uint8(0xFF)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return 0, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	r, g, b := c.Clamped().RGB255()
	return RGBA(r, g, b, alpha), nil
}

// Hex formats the color as "#rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", uint8(c>>16), uint8(c>>8), uint8(c), uint8(c>>24))
}

// RGBAF returns normalized color components (0.0 to 1.0).
func (c Color) RGBAF() (r, g, b, a float64) {
	return float64(uint8(c>>16)) / maxByte,
		float64(uint8(c>>8)) / maxByte,
		float64(uint8(c)) / maxByte,
		float64(uint8(c>>24)) / maxByte
}

// Linear returns the color as linear-light RGBA floats, the layout vertex
// shaders expect when blending in linear space.
func (c Color) Linear() [4]float32 {
	_, _, _, a := c.RGBAF()
	col := colorful.Color{
		R: float64(uint8(c>>16)) / maxByte,
		G: float64(uint8(c>>8)) / maxByte,
		B: float64(uint8(c)) / maxByte,
	}
	r, g, b := col.LinearRgb()
	return [4]float32{float32(r), float32(g), float32(b), float32(a)}
}

// Float32 returns normalized sRGB components as float32.
func (c Color) Float32() [4]float32 {
	r, g, b, a := c.RGBAF()
	return [4]float32{float32(r), float32(g), float32(b), float32(a)}
}

// WithAlpha returns a copy of the color with the given alpha (0-255).
func (c Color) WithAlpha(a uint8) Color {
	return Color(uint32(a)<<24 | uint32(c)&0x00FFFFFF)
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool {
	return c == 0
}

// Or returns c, or fallback if c is unset.
func (c Color) Or(fallback Color) Color {
	if c == 0 {
		return fallback
	}
	return c
}

// Common colors.
var (
	ColorTransparent = Color(0x00000000)
	ColorBlack       = Color(0xFF000000)
	ColorWhite       = Color(0xFFFFFFFF)
	ColorRed         = Color(0xFFFF0000)
	ColorGreen       = Color(0xFF00FF00)
	ColorBlue        = Color(0xFF0000FF)
)
