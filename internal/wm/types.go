package wm

import "fmt"

// WindowID is a server-assigned window identifier. It is a weak reference:
// the server may destroy the window at any time.
type WindowID uint32

func (w WindowID) String() string {
	return fmt.Sprintf("0x%x", uint32(w))
}

// Rect describes a rectangular region in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry is the reply of a geometry query.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
	Border int
	Depth  int
}

// Rect drops border and depth.
func (g Geometry) Rect() Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// Placement pairs a managed child with the geometry its frame should take.
type Placement struct {
	Window WindowID
	Bounds Rect
}

// Client relates a managed child window to its decorating frame.
type Client struct {
	Child WindowID `json:"child"`
	Frame WindowID `json:"frame"`
}
