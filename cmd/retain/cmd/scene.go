package cmd

import (
	"fmt"
	"math"

	"github.com/go-drift/retain/pkg/geometry"
	"github.com/go-drift/retain/pkg/graph"
	"github.com/go-drift/retain/pkg/ui"
	"github.com/go-drift/retain/pkg/widgets"
)

// scene is the demo widget tree drawn by the render command. Only the
// ticker bar and the frame label change between frames.
type scene struct {
	ids struct {
		panel, header, title, ticker, dial, hand, chart, label graph.ID
	}
	bars graph.IDList
}

func newScene(gen *graph.Generator) *scene {
	s := &scene{}
	gen.Assign(&s.ids.panel, &s.ids.header, &s.ids.title, &s.ids.ticker,
		&s.ids.dial, &s.ids.hand, &s.ids.chart, &s.ids.label)
	s.bars = graph.NewIDs(gen, 8)
	return s
}

func (s *scene) declare(c *ui.Cell, frame int, w, h float64) error {
	set := func(id, parent graph.ID, p graph.Payload) error {
		_, err := c.SetIn(id, parent, p)
		return err
	}
	panel := geometry.RectFromLTWH(16, 16, w-32, h-32)
	if err := set(s.ids.panel, graph.NoID, widgets.Canvas{Rect: panel, BorderWidth: 2}); err != nil {
		return err
	}
	header := geometry.RectFromLTWH(panel.Left, panel.Top, panel.Width(), 40)
	steps := []error{
		set(s.ids.header, s.ids.panel, widgets.Rectangle{Rect: header, Color: geometry.RGB(0x3a, 0x7b, 0xd5)}),
		set(s.ids.title, s.ids.panel, widgets.Text{
			Text:   "retain demo",
			Origin: geometry.Pt(header.Left+12, header.Top+26),
			Rect:   header,
			Color:  geometry.ColorWhite,
		}),
	}

	track := panel.Width() - 48
	x := panel.Left + 24 + math.Mod(float64(frame)*17, track)
	steps = append(steps, set(s.ids.ticker, s.ids.panel, widgets.Rectangle{
		Rect:  geometry.RectFromLTWH(x, header.Bottom+8, 24, 6),
		Color: geometry.RGB(0xf5, 0xa6, 0x23),
	}))

	dial := geometry.RectFromLTWH(panel.Left+24, header.Bottom+32, 120, 120)
	center := dial.Center()
	angle := float64(frame%60) / 60 * 2 * math.Pi
	steps = append(steps,
		set(s.ids.dial, s.ids.panel, widgets.Oval{Rect: dial, Outline: true, Thickness: 3}),
		set(s.ids.hand, s.ids.dial, widgets.Line{
			Start:     center,
			End:       geometry.Pt(center.X+50*math.Sin(angle), center.Y-50*math.Cos(angle)),
			Thickness: 2,
		}),
	)

	chart := geometry.RectFromLTWH(dial.Right+32, dial.Top, panel.Right-dial.Right-56, dial.Height())
	points := make([]geometry.Point, 0, s.bars.Len())
	for i, id := range s.bars.All() {
		bw := chart.Width() / float64(s.bars.Len())
		bh := chart.Height() * (0.3 + 0.6*math.Abs(math.Sin(float64(i)*0.7)))
		bar := geometry.Rect{Left: chart.Left + float64(i)*bw + 2, Top: chart.Bottom - bh, Right: chart.Left + float64(i+1)*bw - 2, Bottom: chart.Bottom}
		steps = append(steps, set(id, s.ids.panel, widgets.BorderedRectangle{Rect: bar}))
		points = append(points, geometry.Pt((bar.Left+bar.Right)/2, bar.Top))
	}
	steps = append(steps,
		set(s.ids.chart, s.ids.panel, widgets.Polyline{Points: points, Thickness: 2, Color: geometry.RGB(0xd0, 0x02, 0x1b)}),
		set(s.ids.label, s.ids.panel, widgets.Text{
			Text:   fmt.Sprintf("frame %d", frame),
			Origin: geometry.Pt(panel.Left+24, panel.Bottom-16),
		}),
	)
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	return nil
}
