// Package images maps opaque image ids to renderer-owned textures.
//
// The core never decodes or uploads images. Callers insert their texture
// handles and reference the returned ids from widgets; the renderer resolves
// ids back to textures when it builds draw commands.
package images

// ID identifies an image in a Map. The zero ID never resolves, so a widget
// left without an image is reported instead of drawing another texture.
type ID uint32

// NoID is the zero ID.
const NoID ID = 0

// Texture is a renderer-owned texture handle. Only its pixel dimensions are
// visible to the core.
type Texture interface {
	Dimensions() (width, height int)
}

// Resolver looks textures up by id.
type Resolver interface {
	Resolve(id ID) (Texture, bool)
}

// Dims is a Texture known only by its dimensions, for callers that track
// their GPU handles elsewhere.
type Dims struct {
	Width  int
	Height int
}

// Dimensions implements Texture.
func (d Dims) Dimensions() (int, int) { return d.Width, d.Height }

// Map stores textures of one concrete type.
type Map[T Texture] struct {
	next     ID
	textures map[ID]T
}

// NewMap creates an empty map.
func NewMap[T Texture]() *Map[T] {
	return &Map[T]{next: NoID + 1, textures: make(map[ID]T)}
}

// Insert stores t and returns a fresh non-zero id. Ids are never reused.
func (m *Map[T]) Insert(t T) ID {
	id := m.next
	m.next++
	m.textures[id] = t
	return id
}

// Get returns the texture for id.
func (m *Map[T]) Get(id ID) (T, bool) {
	t, ok := m.textures[id]
	return t, ok
}

// Replace swaps the texture stored under id, returning the previous one.
func (m *Map[T]) Replace(id ID, t T) (T, bool) {
	prev, ok := m.textures[id]
	if ok {
		m.textures[id] = t
	}
	return prev, ok
}

// Remove deletes id and returns its texture.
func (m *Map[T]) Remove(id ID) (T, bool) {
	t, ok := m.textures[id]
	delete(m.textures, id)
	return t, ok
}

// Len returns the number of stored textures.
func (m *Map[T]) Len() int {
	return len(m.textures)
}

// Resolve implements Resolver.
func (m *Map[T]) Resolve(id ID) (Texture, bool) {
	t, ok := m.textures[id]
	if !ok {
		return nil, false
	}
	return t, true
}
