// Package uitest drives a Ui frame by frame for tests, without a window or
// GPU.
//
// A Tester owns a Ui, a mesh renderer and an image map. Pump runs one
// declaration pass and fills the renderer when anything changed:
//
//	func TestPanel(t *testing.T) {
//	    tester := uitest.NewTester(t, 200, 100)
//	    tester.Pump(func(c *ui.Cell) {
//	        c.Set(1, widgets.Rectangle{Rect: geometry.RectFromLTWH(0, 0, 50, 50)})
//	    })
//	    tester.CaptureSnapshot().MatchesFile(t, "testdata/panel.snapshot.json")
//	}
//
// Update golden files with:
//
//	RETAIN_UPDATE_SNAPSHOTS=1 go test ./...
package uitest
