package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", RectFromLTWH(0, 0, 100, 100), RectFromLTWH(50, 50, 100, 100), RectFromLTWH(50, 50, 50, 50)},
		{"contained", RectFromLTWH(0, 0, 100, 100), RectFromLTWH(10, 10, 20, 20), RectFromLTWH(10, 10, 20, 20)},
		{"disjoint", RectFromLTWH(0, 0, 10, 10), RectFromLTWH(20, 20, 10, 10), Rect{}},
		{"touching edges", RectFromLTWH(0, 0, 10, 10), RectFromLTWH(10, 0, 10, 10), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.IsEmpty(), got.IsEmpty())
		})
	}
}

func TestRectContains(t *testing.T) {
	r := RectFromLTWH(10, 10, 10, 10)
	assert.True(t, r.Contains(Pt(10, 10)))
	assert.True(t, r.Contains(Pt(19.9, 19.9)))
	assert.False(t, r.Contains(Pt(20, 15)))
	assert.False(t, r.Contains(Pt(5, 15)))
}

func TestRectHelpers(t *testing.T) {
	r := RectFromLTWH(0, 0, 40, 20)
	assert.Equal(t, Pt(20, 10), r.Center())
	assert.Equal(t, Size{Width: 40, Height: 20}, r.Size())
	assert.Equal(t, RectFromLTWH(2, 2, 36, 16), r.Inset(2))
	assert.Equal(t, RectFromLTWH(5, 5, 40, 20), r.Translate(5, 5))
	assert.True(t, r.Approx(RectFromLTWH(0.00001, 0, 40, 20)))
	assert.Equal(t, RectFromLTWH(0, 0, 50, 50), r.Union(RectFromLTWH(30, 30, 20, 20)))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGB(0xff, 0x80, 0x00), c)

	c, err = ParseHex("#10203040")
	require.NoError(t, err)
	assert.Equal(t, RGBA(0x10, 0x20, 0x30, 0x40), c)
	assert.Equal(t, "#10203040", c.Hex())

	_, err = ParseHex("nope")
	assert.Error(t, err)
}

func TestColorOr(t *testing.T) {
	assert.Equal(t, ColorRed, Color(0).Or(ColorRed))
	assert.Equal(t, ColorBlue, ColorBlue.Or(ColorRed))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, ColorWhite.Float32())
	lin := ColorWhite.Linear()
	assert.InDelta(t, 1.0, lin[0], 1e-6)
	assert.InDelta(t, 1.0, lin[3], 1e-6)
}
