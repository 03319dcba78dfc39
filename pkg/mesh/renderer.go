package mesh

import (
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/images"
	"github.com/go-drift/retain/pkg/logging"
	"github.com/go-drift/retain/pkg/render"
	"github.com/go-drift/retain/pkg/text"
)

// Options configures a Renderer.
type Options struct {
	// DPIFactor scales logical coordinates to physical pixels. Zero means 1.
	DPIFactor float64
	// LinearColor converts vertex colors from sRGB to linear RGB, for
	// backends rendering into an sRGB framebuffer.
	LinearColor bool
	// GlyphCacheWidth and GlyphCacheHeight size the glyph atlas in
	// physical pixels. Zero uses text.DefaultCacheSize.
	GlyphCacheWidth  int
	GlyphCacheHeight int
}

// Renderer fills vertex and command buffers from primitive streams. It owns
// the glyph atlas for its fonts and reuses its buffers between frames. It is
// not safe for concurrent use.
type Renderer struct {
	opts   Options
	dpi    float32
	glyphs *text.GlyphCache
	frame  Frame
}

// NewRenderer creates a renderer that rasterizes text from fonts. A nil
// font map makes every text primitive fail with ErrUnknownFont.
func NewRenderer(fonts *text.FontMap, opts Options) *Renderer {
	if opts.DPIFactor <= 0 {
		opts.DPIFactor = 1
	}
	r := &Renderer{opts: opts, dpi: float32(opts.DPIFactor)}
	if fonts != nil {
		r.glyphs = text.NewGlyphCache(fonts, opts.GlyphCacheWidth, opts.GlyphCacheHeight)
	}
	return r
}

// GlyphCache returns the renderer's glyph atlas, or nil without fonts.
func (r *Renderer) GlyphCache() *text.GlyphCache {
	return r.glyphs
}

// Options returns the renderer options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Fill drains prims into the renderer's buffers.
//
// A primitive whose image or glyphs cannot be resolved is dropped along with
// any vertices it already wrote; the rest of the frame is still filled. The
// returned error joins every per-primitive error, each of which is also
// reported to the global error handler. imgs may be nil when the stream
// holds no images.
//
// Passing a stream that has already been pulled from panics.
func (r *Renderer) Fill(prims *render.Primitives, imgs images.Resolver) (*Frame, error) {
	if prims.Started() {
		panic(errors.Misuse("mesh.Renderer.Fill", errors.ErrStalePrimitives))
	}
	glyphs := r.glyphs
	if glyphs != nil {
		glyphs.BeginFrame()
	}

	f := &r.frame
	f.Vertices = f.Vertices[:0]
	f.Commands = f.Commands[:0]
	f.Uploads = nil
	f.Stats = Statistics{}

	var errs []error
	for prim := range prims.All() {
		f.Stats.Primitives++
		start := len(f.Vertices)
		tex, err := r.add(prim, imgs, glyphs)
		if err != nil {
			f.Vertices = f.Vertices[:start]
			f.Stats.Dropped++
			errs = append(errs, err)
			var ue *errors.UiError
			if errors.As(err, &ue) {
				errors.Report(ue)
			}
			continue
		}
		if len(f.Vertices) == start {
			continue
		}
		r.batch(prim, tex, start)
	}

	if glyphs != nil {
		f.Uploads = glyphs.TakeUploads()
	}
	f.Stats.Commands = len(f.Commands)
	f.Stats.Vertices = len(f.Vertices)
	logging.Logger().Debug("mesh filled",
		slog.Int("primitives", f.Stats.Primitives),
		slog.Int("commands", f.Stats.Commands),
		slog.Int("vertices", f.Stats.Vertices),
		slog.Int("dropped", f.Stats.Dropped))
	return f, errors.Join(errs...)
}

// batch extends the last command when prim shares its kind, clip and image,
// and starts a new command otherwise.
func (r *Renderer) batch(prim render.Primitive, tex images.Texture, start int) {
	f := &r.frame
	end := len(f.Vertices)
	if n := len(f.Commands); n > 0 {
		last := &f.Commands[n-1]
		if last.Kind == prim.Kind && last.Clip == prim.Clip && last.Image == prim.Image.ID && last.End == start {
			last.End = end
			return
		}
	}
	cmd := Command{
		Kind:    prim.Kind,
		Start:   start,
		End:     end,
		Clip:    prim.Clip,
		Scissor: r.scissor(prim.Clip),
		Texture: tex,
	}
	if prim.Kind == render.KindImage {
		cmd.Image = prim.Image.ID
	}
	f.Commands = append(f.Commands, cmd)
}

func (r *Renderer) add(prim render.Primitive, imgs images.Resolver, glyphs *text.GlyphCache) (images.Texture, error) {
	switch prim.Kind {
	case render.KindShape:
		r.addShape(prim.Triangles)
		return nil, nil
	case render.KindImage:
		return r.addImage(prim, imgs)
	case render.KindText:
		if err := r.addText(prim, glyphs); err != nil {
			return nil, err
		}
		return glyphs, nil
	}
	return nil, nil
}

func (r *Renderer) addShape(tris []render.Triangle) {
	for _, tri := range tris {
		for _, p := range tri {
			r.frame.Vertices = append(r.frame.Vertices, Vertex{
				Position: r.position(p.Pos),
				Color:    r.color(p.Color),
				Mode:     ModeGeometry,
			})
		}
	}
}

func (r *Renderer) addImage(prim render.Primitive, imgs images.Resolver) (images.Texture, error) {
	const op = "mesh.Renderer.Fill"
	var tex images.Texture
	ok := false
	if imgs != nil {
		tex, ok = imgs.Resolve(prim.Image.ID)
	}
	if !ok {
		return nil, errors.New(op, errors.KindResource, uint64(prim.ID), errors.ErrUnknownImage)
	}

	uv := geometry.Rect{Right: 1, Bottom: 1}
	if src := prim.Image.Source; !src.IsEmpty() {
		w, h := tex.Dimensions()
		if w > 0 && h > 0 {
			uv = geometry.Rect{
				Left:   src.Left / float64(w),
				Top:    src.Top / float64(h),
				Right:  src.Right / float64(w),
				Bottom: src.Bottom / float64(h),
			}
		}
	}
	tint := prim.Image.Color
	if tint.IsZero() {
		tint = geometry.ColorWhite
	}
	r.quad(prim.Image.Rect, uv, r.color(tint), ModeImage)
	return tex, nil
}

func (r *Renderer) addText(prim render.Primitive, glyphs *text.GlyphCache) error {
	const op = "mesh.Renderer.Fill"
	t := prim.Text
	if t.Size <= 0 {
		return nil
	}
	if glyphs == nil {
		return errors.New(op, errors.KindResource, uint64(prim.ID), errors.ErrUnknownFont)
	}
	size := t.Size * r.opts.DPIFactor
	face, err := glyphs.Face(t.Font, size)
	if err != nil {
		return withID(err, prim.ID)
	}
	color := r.color(t.Color)
	for _, pg := range text.Layout(face, t.Text, t.Origin.Scale(r.opts.DPIFactor)) {
		g, err := glyphs.Lookup(t.Font, size, pg.Rune)
		if err != nil {
			return withID(err, prim.ID)
		}
		if g.Empty() {
			continue
		}
		// Layout already works in physical pixels.
		topLeft := pg.Dot.Add(g.Offset)
		rect := geometry.Rect{
			Left:   topLeft.X,
			Top:    topLeft.Y,
			Right:  topLeft.X + g.Size.Width,
			Bottom: topLeft.Y + g.Size.Height,
		}
		r.physicalQuad(rect, g.UV, color, ModeText)
	}
	return nil
}

// withID attaches the widget id to a UiError that lacks one.
func withID(err error, id graph.ID) error {
	var ue *errors.UiError
	if errors.As(err, &ue) && ue.ID == 0 {
		copied := *ue
		copied.ID = uint64(id)
		return &copied
	}
	return err
}

// quad appends two triangles covering a logical rect.
func (r *Renderer) quad(rect, uv geometry.Rect, color [4]float32, mode Mode) {
	r.physicalQuad(geometry.Rect{
		Left:   rect.Left * r.opts.DPIFactor,
		Top:    rect.Top * r.opts.DPIFactor,
		Right:  rect.Right * r.opts.DPIFactor,
		Bottom: rect.Bottom * r.opts.DPIFactor,
	}, uv, color, mode)
}

func (r *Renderer) physicalQuad(rect, uv geometry.Rect, color [4]float32, mode Mode) {
	v := func(x, y, s, t float64) Vertex {
		return Vertex{
			Position: [2]float32{float32(x), float32(y)},
			UV:       [2]float32{float32(s), float32(t)},
			Color:    color,
			Mode:     mode,
		}
	}
	tl := v(rect.Left, rect.Top, uv.Left, uv.Top)
	tr := v(rect.Right, rect.Top, uv.Right, uv.Top)
	br := v(rect.Right, rect.Bottom, uv.Right, uv.Bottom)
	bl := v(rect.Left, rect.Bottom, uv.Left, uv.Bottom)
	r.frame.Vertices = append(r.frame.Vertices, tl, tr, br, tl, br, bl)
}

func (r *Renderer) position(p geometry.Point) [2]float32 {
	return [2]float32{float32(p.X) * r.dpi, float32(p.Y) * r.dpi}
}

func (r *Renderer) color(c geometry.Color) [4]float32 {
	if r.opts.LinearColor {
		return c.Linear()
	}
	return c.Float32()
}

// scissor converts a logical clip to whole physical pixels, growing it
// outward so partially covered pixels stay visible.
func (r *Renderer) scissor(clip geometry.Rect) Scissor {
	left := math32.Floor(float32(clip.Left) * r.dpi)
	top := math32.Floor(float32(clip.Top) * r.dpi)
	right := math32.Ceil(float32(clip.Right) * r.dpi)
	bottom := math32.Ceil(float32(clip.Bottom) * r.dpi)
	return Scissor{
		X: int32(left),
		Y: int32(top),
		W: int32(math32.Max(right-left, 0)),
		H: int32(math32.Max(bottom-top, 0)),
	}
}
