package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/retain/pkg/geometry"
)

func TestApply(t *testing.T) {
	s := NewState()

	s.Apply(Motion{Pos: geometry.Pt(3, 4)})
	s.Apply(Press{Button: ButtonLeft})
	s.Apply(Press{Key: 65, IsKey: true})
	s.Apply(Press{Key: 65, IsKey: true})
	s.Apply(Text{Text: "a"})
	s.Apply(Text{Text: "b"})
	s.Apply(Scroll{Delta: geometry.Pt(0, 1)})
	s.Apply(Scroll{Delta: geometry.Pt(0, 2)})

	assert.Equal(t, geometry.Pt(3, 4), s.Pointer)
	assert.True(t, s.Pressed(ButtonLeft))
	assert.False(t, s.Pressed(ButtonRight))
	assert.True(t, s.KeyDown(65))
	assert.Len(t, s.Keys, 1)
	assert.Equal(t, "ab", s.Text)
	assert.Equal(t, geometry.Pt(0, 3), s.Scroll)

	s.Apply(Release{Button: ButtonLeft})
	s.Apply(Release{Key: 65, IsKey: true})
	assert.False(t, s.Pressed(ButtonLeft))
	assert.False(t, s.KeyDown(65))

	s.ResetFrame()
	assert.Empty(t, s.Text)
	assert.Equal(t, geometry.Point{}, s.Scroll)
	assert.Equal(t, geometry.Pt(3, 4), s.Pointer)
}

func TestFocusLossReleasesEverything(t *testing.T) {
	s := NewState()
	s.Apply(Press{Button: ButtonMiddle})
	s.Apply(Press{Key: 1, IsKey: true})

	s.Apply(Focus{Focused: false})
	assert.False(t, s.Focused)
	assert.False(t, s.Pressed(ButtonMiddle))
	assert.False(t, s.KeyDown(1))

	s.Apply(Resize{Width: 10, Height: 10})
	assert.False(t, s.Focused)
}
