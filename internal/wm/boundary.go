package wm

// Layout decides where managed windows go. The manager applies whatever
// geometry it returns to the frame of the window.
type Layout interface {
	WindowMapped(child WindowID) Rect
	WindowDestroyed(child WindowID)
	WindowUnmapped(child WindowID)
}

// Arranger is an optional Layout extension that recomputes every visible
// window after a lifecycle change.
type Arranger interface {
	Arrange() []Placement
}

// Floater is an optional Layout extension told when the user dragged a
// window out of the arrangement.
type Floater interface {
	WindowFloated(child WindowID)
}

// Observer is an optional Layout extension that receives informational
// lifecycle notifications. It returns true when the arrangement changed.
type Observer interface {
	Observe(n Notification) bool
}

type NotificationKind int

const (
	NotifyCreated NotificationKind = iota
	NotifyMapped
	NotifyUnmapped
	NotifyReparented
	NotifyConfigured
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyCreated:
		return "created"
	case NotifyMapped:
		return "mapped"
	case NotifyUnmapped:
		return "unmapped"
	case NotifyReparented:
		return "reparented"
	case NotifyConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// Notification is a lifecycle fact forwarded to the layout. When the window
// is managed, Window is the child even if the server reported the frame.
type Notification struct {
	Kind    NotificationKind
	Window  WindowID
	Parent  WindowID
	Bounds  Rect
	Managed bool
}

// Action is the result of resolving a key binding. Exactly one of Name and
// Command is set.
type Action struct {
	Name    string
	Command string
}

func (a Action) String() string {
	if a.Command != "" {
		return "spawn:" + a.Command
	}
	return a.Name
}

// KeyResolver maps raw key events to actions.
type KeyResolver interface {
	Resolve(ev KeyEvent) (Action, bool)
}

// DragPolicy decides whether a button press starts a drag and of which kind.
type DragPolicy interface {
	DragKind(button uint8, state uint16) (DragKind, bool)
}

// ActionFunc runs a resolved action on the event loop goroutine.
type ActionFunc func(Action)
