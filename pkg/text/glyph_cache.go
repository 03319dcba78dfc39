package text

import (
	"image"
	"image/draw"
	"slices"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
)

const (
	// DefaultCacheSize is the default atlas width and height in pixels.
	DefaultCacheSize = 1024
	// glyphPadding separates glyphs in the atlas so linear filtering does
	// not bleed between neighbours.
	glyphPadding = 1
)

// GlyphKey identifies a rasterized glyph.
type GlyphKey struct {
	Font FontID
	Size uint32 // 26.6 fixed point pixels
	Rune rune
}

// Glyph is a glyph resident in the atlas.
type Glyph struct {
	// Offset is the distance from the pen position to the bitmap's
	// top-left corner, in pixels.
	Offset geometry.Point
	// Size is the bitmap size in pixels.
	Size geometry.Size
	// UV is the bitmap's rect in normalized atlas coordinates.
	UV geometry.Rect
	// Texels is the bitmap's rect in atlas pixels.
	Texels image.Rectangle
}

// Empty reports whether the glyph has no ink (spaces, missing glyphs).
func (g Glyph) Empty() bool {
	return g.Texels.Empty()
}

// Upload is a region of the atlas that changed and must be copied to the
// renderer's texture. Pixels holds one alpha byte per texel, row-major.
type Upload struct {
	Rect   image.Rectangle
	Pixels []byte
}

type span struct {
	x, w int
}

// shelf is one row of the atlas. Glyphs are packed left to right; freed
// spans are reused first-fit.
type shelf struct {
	y, h int
	end  int
	free []span
}

func (s *shelf) empty() bool {
	return s.end == 0
}

func (s *shelf) alloc(w, width int) (int, bool) {
	for i, f := range s.free {
		if f.w < w {
			continue
		}
		x := f.x
		if f.w == w {
			s.free = slices.Delete(s.free, i, i+1)
		} else {
			s.free[i] = span{x: f.x + w, w: f.w - w}
		}
		return x, true
	}
	if s.end+w > width {
		return 0, false
	}
	x := s.end
	s.end += w
	return x, true
}

func (s *shelf) release(x, w int) {
	s.free = append(s.free, span{x: x, w: w})
	slices.SortFunc(s.free, func(a, b span) int { return a.x - b.x })
	merged := s.free[:0]
	for _, f := range s.free {
		if n := len(merged); n > 0 && merged[n-1].x+merged[n-1].w == f.x {
			merged[n-1].w += f.w
			continue
		}
		merged = append(merged, f)
	}
	s.free = merged
	if n := len(s.free); n > 0 && s.free[n-1].x+s.free[n-1].w == s.end {
		s.end = s.free[n-1].x
		s.free = s.free[:n-1]
	}
}

type cacheEntry struct {
	glyph    Glyph
	shelf    *shelf
	x, w     int
	lastUsed uint64
}

// GlyphCache rasterizes glyphs into an alpha atlas.
//
// Glyphs looked up during the current frame never move. When the atlas is
// full, glyphs not used since the last BeginFrame are evicted and their
// space reused; if the glyph still does not fit, Lookup fails with
// ErrGlyphCacheFull.
type GlyphCache struct {
	fonts   *FontMap
	atlas   *image.Alpha
	width   int
	height  int
	shelves []*shelf
	entries map[GlyphKey]*cacheEntry
	frame   uint64
	uploads []Upload
	evicted int
}

// NewGlyphCache creates a cache with a width×height atlas. Non-positive
// dimensions use DefaultCacheSize.
func NewGlyphCache(fonts *FontMap, width, height int) *GlyphCache {
	if width <= 0 {
		width = DefaultCacheSize
	}
	if height <= 0 {
		height = DefaultCacheSize
	}
	return &GlyphCache{
		fonts:   fonts,
		atlas:   image.NewAlpha(image.Rect(0, 0, width, height)),
		width:   width,
		height:  height,
		entries: make(map[GlyphKey]*cacheEntry),
	}
}

// Fonts returns the font map glyphs are resolved against.
func (c *GlyphCache) Fonts() *FontMap {
	return c.fonts
}

// Face returns a face from the cache's font map.
func (c *GlyphCache) Face(id FontID, size float64) (font.Face, error) {
	return c.fonts.Face(id, size)
}

// Dimensions returns the atlas size. It lets the cache act as the texture
// handle of text draw commands.
func (c *GlyphCache) Dimensions() (int, int) {
	return c.width, c.height
}

// Atlas returns the CPU-side copy of the atlas.
func (c *GlyphCache) Atlas() *image.Alpha {
	return c.atlas
}

// Len returns the number of cached glyphs.
func (c *GlyphCache) Len() int {
	return len(c.entries)
}

// Evicted returns the total number of glyphs evicted so far.
func (c *GlyphCache) Evicted() int {
	return c.evicted
}

// BeginFrame starts a new frame. Glyphs used in earlier frames become
// eligible for eviction.
func (c *GlyphCache) BeginFrame() {
	c.frame++
}

// TakeUploads returns the regions written since the last call and clears
// the pending list.
func (c *GlyphCache) TakeUploads() []Upload {
	up := c.uploads
	c.uploads = nil
	return up
}

// Lookup returns the glyph for r in font id at size pixels, rasterizing it
// into the atlas if needed.
func (c *GlyphCache) Lookup(id FontID, size float64, r rune) (Glyph, error) {
	const op = "text.GlyphCache.Lookup"
	key := GlyphKey{Font: id, Size: quantizeSize(size), Rune: r}
	if e, ok := c.entries[key]; ok {
		e.lastUsed = c.frame
		return e.glyph, nil
	}

	face, err := c.fonts.Face(id, size)
	if err != nil {
		return Glyph{}, err
	}
	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		dr, mask, maskp, _, ok = face.Glyph(fixed.Point26_6{}, utf8.RuneError)
	}
	if !ok || dr.Empty() {
		c.entries[key] = &cacheEntry{lastUsed: c.frame}
		return Glyph{}, nil
	}

	w, h := dr.Dx(), dr.Dy()
	if w+glyphPadding > c.width || h+glyphPadding > c.height {
		return Glyph{}, errors.New(op, errors.KindResource, 0, errors.ErrGlyphCacheFull)
	}
	s, x, ok := c.alloc(w+glyphPadding, h+glyphPadding)
	if !ok {
		c.evictUnused()
		s, x, ok = c.alloc(w+glyphPadding, h+glyphPadding)
	}
	if !ok {
		return Glyph{}, errors.New(op, errors.KindResource, 0, errors.ErrGlyphCacheFull)
	}

	texels := image.Rect(x, s.y, x+w, s.y+h)
	draw.Draw(c.atlas, texels, mask, maskp, draw.Src)
	c.uploads = append(c.uploads, Upload{Rect: texels, Pixels: c.copyRegion(texels)})

	g := Glyph{
		Offset: geometry.Pt(float64(dr.Min.X), float64(dr.Min.Y)),
		Size:   geometry.Size{Width: float64(w), Height: float64(h)},
		UV: geometry.Rect{
			Left:   float64(texels.Min.X) / float64(c.width),
			Top:    float64(texels.Min.Y) / float64(c.height),
			Right:  float64(texels.Max.X) / float64(c.width),
			Bottom: float64(texels.Max.Y) / float64(c.height),
		},
		Texels: texels,
	}
	c.entries[key] = &cacheEntry{glyph: g, shelf: s, x: x, w: w + glyphPadding, lastUsed: c.frame}
	return g, nil
}

func (c *GlyphCache) copyRegion(r image.Rectangle) []byte {
	out := make([]byte, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := c.atlas.PixOffset(r.Min.X, y)
		out = append(out, c.atlas.Pix[start:start+r.Dx()]...)
	}
	return out
}

// alloc finds room for a w×h cell. Shelves that are at most half again as
// tall as the glyph are preferred; empty shelves accept anything that fits.
func (c *GlyphCache) alloc(w, h int) (*shelf, int, bool) {
	if w > c.width || h > c.height {
		return nil, 0, false
	}
	candidates := make([]*shelf, 0, len(c.shelves))
	for _, s := range c.shelves {
		if s.h < h || (!s.empty() && s.h > h+h/2) {
			continue
		}
		candidates = append(candidates, s)
	}
	slices.SortStableFunc(candidates, func(a, b *shelf) int { return a.h - b.h })
	for _, s := range candidates {
		if x, ok := s.alloc(w, c.width); ok {
			return s, x, true
		}
	}

	top := 0
	if n := len(c.shelves); n > 0 {
		last := c.shelves[n-1]
		top = last.y + last.h
	}
	if top+h > c.height {
		return nil, 0, false
	}
	s := &shelf{y: top, h: h}
	c.shelves = append(c.shelves, s)
	x, _ := s.alloc(w, c.width)
	return s, x, true
}

// evictUnused drops glyphs not used this frame and releases their space.
func (c *GlyphCache) evictUnused() {
	for key, e := range c.entries {
		if e.lastUsed == c.frame {
			continue
		}
		if e.shelf != nil {
			e.shelf.release(e.x, e.w)
		}
		delete(c.entries, key)
		c.evicted++
	}
	for n := len(c.shelves); n > 0 && c.shelves[n-1].empty(); n-- {
		c.shelves = c.shelves[:n-1]
	}
}
