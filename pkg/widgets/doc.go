// Package widgets provides the built-in payloads for the widget graph.
//
// Every widget is a plain struct declared with a struct literal and passed
// to a builder cell:
//
//	cell.Set(ids.At(0), widgets.Rectangle{
//	    Rect:  geometry.RectFromLTWH(10, 10, 100, 40),
//	    Color: geometry.RGB(200, 60, 60),
//	})
//
// # Styling Model
//
// Widgets are themed by default: a zero style field means "use the Ui
// theme". For example:
//
//   - Color: 0 fills with Theme.ShapeColor (Theme.LabelColor for text)
//   - BorderWidth: 0 uses Theme.BorderWidth
//   - Size: 0 uses Theme.FontSize
//
// To draw nothing, leave the widget out of the frame instead.
//
// # Visual Signatures
//
// A widget's visual signature is the widget value itself, so any field change
// marks the node dirty and the next draw re-emits it. Widgets holding slices
// (Polygon, Polyline) compare by deep equality.
//
// # Clipping
//
// Clip and Canvas restrict their descendants to a rect. Children are attached
// with Cell.SetIn; clips nest by intersection.
package widgets
