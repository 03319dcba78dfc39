// Package text resolves fonts and glyphs for text primitives.
//
// FontMap registers parsed fonts under opaque ids and hands out sized faces.
// GlyphCache rasterizes glyphs into a single alpha atlas and records the
// regions a renderer must upload before drawing. Layout positions the glyphs
// of a run along a baseline.
package text

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/go-drift/retain/pkg/errors"
)

// FontID identifies a font in a FontMap. The first inserted font has id 0,
// which is also the theme default.
type FontID uint32

type faceKey struct {
	font FontID
	size uint32 // 26.6 fixed point
}

// FontMap registers fonts and caches faces per (font, size).
type FontMap struct {
	fonts []*opentype.Font
	faces map[faceKey]font.Face
}

// NewFontMap creates an empty font map.
func NewFontMap() *FontMap {
	return &FontMap{faces: make(map[faceKey]font.Face)}
}

// Insert registers a parsed font.
func (m *FontMap) Insert(f *opentype.Font) FontID {
	m.fonts = append(m.fonts, f)
	return FontID(len(m.fonts) - 1)
}

// InsertBytes parses TrueType or OpenType data and registers it.
func (m *FontMap) InsertBytes(data []byte) (FontID, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("parse font: %w", err)
	}
	return m.Insert(f), nil
}

// InsertGoRegular registers the Go Regular font bundled with x/image.
func (m *FontMap) InsertGoRegular() FontID {
	id, err := m.InsertBytes(goregular.TTF)
	if err != nil {
		// The bundled font is known-good.
		panic(err)
	}
	return id
}

// Get returns the font for id.
func (m *FontMap) Get(id FontID) (*opentype.Font, bool) {
	if int(id) >= len(m.fonts) {
		return nil, false
	}
	return m.fonts[id], true
}

// Len returns the number of registered fonts.
func (m *FontMap) Len() int {
	return len(m.fonts)
}

// Face returns a face for id at size pixels. Faces are cached.
func (m *FontMap) Face(id FontID, size float64) (font.Face, error) {
	key := faceKey{font: id, size: quantizeSize(size)}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	f, ok := m.Get(id)
	if !ok {
		return nil, errors.New("text.Face", errors.KindResource, 0, errors.ErrUnknownFont)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(key.size) / 64,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	m.faces[key] = face
	return face, nil
}

// Close releases cached faces.
func (m *FontMap) Close() error {
	var errs []error
	for key, face := range m.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.faces, key)
	}
	return errors.Join(errs...)
}

func quantizeSize(size float64) uint32 {
	if size <= 0 || math.IsNaN(size) {
		return 0
	}
	return uint32(math.Round(size * 64))
}
