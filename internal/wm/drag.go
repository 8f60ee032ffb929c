package wm

// DragKind selects what a pointer drag does to the frame.
type DragKind int

const (
	DragMove DragKind = iota
	DragResize
)

func (k DragKind) String() string {
	switch k {
	case DragMove:
		return "move"
	case DragResize:
		return "resize"
	default:
		return "unknown"
	}
}

// DragState is the live state of one interactive drag.
type DragState struct {
	Frame  WindowID
	Kind   DragKind
	StartX int
	StartY int
	Start  Rect
	LastX  int
	LastY  int
}

// Moved reports whether the pointer left its starting position.
func (s DragState) Moved() bool {
	return s.LastX != s.StartX || s.LastY != s.StartY
}

// DragController is the Idle/Dragging state machine. At most one drag is
// live at a time.
type DragController struct {
	state     *DragState
	minWidth  int
	minHeight int
}

// NewDragController clamps resize results to minWidth x minHeight; values
// below 1 are raised to 1.
func NewDragController(minWidth, minHeight int) *DragController {
	return &DragController{
		minWidth:  max(1, minWidth),
		minHeight: max(1, minHeight),
	}
}

// Begin enters Dragging. It refuses when a drag is already live.
func (c *DragController) Begin(frame WindowID, kind DragKind, x, y int, start Rect) bool {
	if c.state != nil {
		return false
	}
	c.state = &DragState{
		Frame:  frame,
		Kind:   kind,
		StartX: x,
		StartY: y,
		Start:  start,
		LastX:  x,
		LastY:  y,
	}
	return true
}

func (c *DragController) Active() bool {
	return c.state != nil
}

// State returns a copy of the live drag.
func (c *DragController) State() (DragState, bool) {
	if c.state == nil {
		return DragState{}, false
	}
	return *c.state, true
}

// Update records the latest pointer position and returns the frame
// geometry it implies.
func (c *DragController) Update(x, y int) (DragState, Rect, bool) {
	if c.state == nil {
		return DragState{}, Rect{}, false
	}
	c.state.LastX, c.state.LastY = x, y
	s := *c.state
	dx, dy := x-s.StartX, y-s.StartY

	r := s.Start
	switch s.Kind {
	case DragMove:
		r.X += dx
		r.Y += dy
	case DragResize:
		r.Width = max(c.minWidth, s.Start.Width+dx)
		r.Height = max(c.minHeight, s.Start.Height+dy)
	}
	return s, r, true
}

// End returns to Idle. Calling it while Idle is a no-op.
func (c *DragController) End() (DragState, bool) {
	if c.state == nil {
		return DragState{}, false
	}
	s := *c.state
	c.state = nil
	return s, true
}

// Cancel ends the drag only if it tracks frame.
func (c *DragController) Cancel(frame WindowID) bool {
	if c.state == nil || c.state.Frame != frame {
		return false
	}
	c.state = nil
	return true
}
