package wm

import "github.com/BurntSushi/xgb/xproto"

// RootEventMask is selected on the root window during the ownership
// handshake. Only one client per display may hold SubstructureRedirect.
const RootEventMask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify

// FrameEventMask is selected on every frame so the manager keeps receiving
// requests and notifications for the reparented child.
const FrameEventMask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify

// Display is the single connection to the display server.
//
// Requests other than GetGeometry, CreateFrame and Sync are asynchronous:
// failures are reported later to the active FaultHandler, not returned.
type Display interface {
	// Name is the resolved display name, used in diagnostics.
	Name() string
	Root() WindowID

	SelectInput(win WindowID, mask uint32) error
	// GetGeometry returns an error wrapping ErrInvalidWindow when the
	// window no longer exists.
	GetGeometry(win WindowID) (Geometry, error)
	Configure(win WindowID, r Rect) error
	// ConfigureRaw issues a configure request with an explicit value mask
	// (xproto.ConfigWindow* bits) and the matching value list.
	ConfigureRaw(win WindowID, mask uint16, values []uint32) error
	Raise(win WindowID) error
	Reparent(child, parent WindowID, x, y int) error
	Map(win WindowID) error
	Unmap(win WindowID) error

	CreateFrame(r Rect, borderWidth int, borderColor uint32) (WindowID, error)
	DestroyWindow(win WindowID) error
	AddToSaveSet(win WindowID) error
	SetBorder(win WindowID, width int, color uint32) error
	Focus(win WindowID) error
	// CloseWindow asks the client to close politely, killing it when it
	// does not support WM_DELETE_WINDOW.
	CloseWindow(win WindowID) error

	// Sync blocks until every outstanding request has been processed and
	// any resulting faults have been delivered to the active handler.
	Sync() error
	// NextEvent blocks until an event arrives. It returns
	// ErrConnectionClosed once the connection is gone.
	NextEvent() (Event, error)
	// PollEvent returns the next already-queued event, or nil when the
	// queue is empty. It never blocks.
	PollEvent() (Event, error)

	SetFaultHandler(h FaultHandler)
	Close() error
}

// Publisher is implemented by displays that advertise manager state to
// other clients (pagers, bars).
type Publisher interface {
	PublishClients(clients []WindowID)
	PublishActive(win WindowID)
}
