package text

import (
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/retain/pkg/geometry"
)

// PositionedGlyph is one glyph of a laid-out run.
type PositionedGlyph struct {
	Rune rune
	// Dot is the pen position on the baseline, snapped to whole pixels.
	Dot geometry.Point
	// Advance is the horizontal advance in pixels.
	Advance float64
}

// Layout positions the runes of s starting at origin, which sits on the
// baseline of the first line. Newlines move the pen down by the face's line
// height; kerning is applied between adjacent runes on a line.
func Layout(face font.Face, s string, origin geometry.Point) []PositionedGlyph {
	out := make([]PositionedGlyph, 0, utf8.RuneCountInString(s))
	lineHeight := face.Metrics().Height
	dot := fixed.Point26_6{X: toFixed(origin.X), Y: toFixed(origin.Y)}
	startX := dot.X
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			dot.X = startX
			dot.Y += lineHeight
			prev = -1
			continue
		}
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance(utf8.RuneError)
		}
		out = append(out, PositionedGlyph{
			Rune:    r,
			Dot:     geometry.Pt(float64(dot.X.Round()), float64(dot.Y.Round())),
			Advance: fromFixed(adv),
		})
		dot.X += adv
		prev = r
	}
	return out
}

// Measure returns the size of the run's layout box: the widest line by the
// number of lines times the line height.
func Measure(face font.Face, s string) geometry.Size {
	var widest, line fixed.Int26_6
	lines := 1
	prev := rune(-1)
	for _, r := range s {
		if r == '\n' {
			widest = max(widest, line)
			line = 0
			lines++
			prev = -1
			continue
		}
		if prev >= 0 {
			line += face.Kern(prev, r)
		}
		adv, _ := face.GlyphAdvance(r)
		line += adv
		prev = r
	}
	widest = max(widest, line)
	return geometry.Size{
		Width:  fromFixed(widest),
		Height: fromFixed(face.Metrics().Height) * float64(lines),
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
