package wm

// Event is one notification or request from the display server.
type Event interface {
	Kind() string
}

// KeyEvent is a key press or release with the raw keycode and modifier state.
type KeyEvent struct {
	Window  WindowID
	Code    uint8
	State   uint16
	Release bool
}

func (e KeyEvent) Kind() string {
	if e.Release {
		return "KeyRelease"
	}
	return "KeyPress"
}

// ButtonEvent is a pointer button press or release. Child is the top-level
// window under the pointer when the event was reported on the root.
type ButtonEvent struct {
	Window  WindowID
	Child   WindowID
	Button  uint8
	State   uint16
	RootX   int
	RootY   int
	Release bool
}

func (e ButtonEvent) Kind() string {
	if e.Release {
		return "ButtonRelease"
	}
	return "ButtonPress"
}

type MotionNotify struct {
	Window WindowID
	Child  WindowID
	State  uint16
	RootX  int
	RootY  int
}

func (MotionNotify) Kind() string { return "MotionNotify" }

type MapRequest struct {
	Parent WindowID
	Window WindowID
}

func (MapRequest) Kind() string { return "MapRequest" }

// ConfigureRequest carries the fields named by ValueMask
// (xproto.ConfigWindow* bits); the others are meaningless.
type ConfigureRequest struct {
	Parent      WindowID
	Window      WindowID
	ValueMask   uint16
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
	Sibling     WindowID
	StackMode   uint8
}

func (ConfigureRequest) Kind() string { return "ConfigureRequest" }

type DestroyNotify struct {
	Event  WindowID
	Window WindowID
}

func (DestroyNotify) Kind() string { return "DestroyNotify" }

type UnmapNotify struct {
	Event  WindowID
	Window WindowID
}

func (UnmapNotify) Kind() string { return "UnmapNotify" }

type MapNotify struct {
	Event  WindowID
	Window WindowID
}

func (MapNotify) Kind() string { return "MapNotify" }

type CreateNotify struct {
	Parent WindowID
	Window WindowID
	Bounds Rect
}

func (CreateNotify) Kind() string { return "CreateNotify" }

type ReparentNotify struct {
	Event  WindowID
	Window WindowID
	Parent WindowID
}

func (ReparentNotify) Kind() string { return "ReparentNotify" }

type ConfigureNotify struct {
	Event  WindowID
	Window WindowID
	Bounds Rect
}

func (ConfigureNotify) Kind() string { return "ConfigureNotify" }

// UnknownEvent stands in for every event kind the manager does not handle.
type UnknownEvent struct {
	Name string
}

func (e UnknownEvent) Kind() string { return e.Name }
