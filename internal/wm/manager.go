package wm

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// Options tune frame decoration and drag limits.
type Options struct {
	BorderWidth        int
	BorderColor        uint32
	FocusedBorderColor uint32
	MinWidth           int
	MinHeight          int

	SessionID string
	// Faults, when set, supplies the fault counter shown in snapshots.
	Faults func() uint64
}

// Manager is the event dispatcher. Everything except Snapshot and Stop must
// be called from the goroutine running Run.
type Manager struct {
	display Display
	layout  Layout
	keys    KeyResolver
	drags   DragPolicy
	onKey   ActionFunc
	logger  *slog.Logger
	opts    Options

	clients *ClientTable
	drag    *DragController
	focused WindowID
	hidden  map[WindowID]bool
	pending []Event
	dirty   bool

	stopping atomic.Bool

	started  time.Time
	snapshot atomic.Pointer[Snapshot]
}

// NewManager wires the dispatcher. keys and drags may be nil, in which case
// key events and button presses are ignored.
func NewManager(d Display, layout Layout, keys KeyResolver, drags DragPolicy, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		display: d,
		layout:  layout,
		keys:    keys,
		drags:   drags,
		logger:  logger,
		opts:    opts,
		clients: NewClientTable(),
		hidden:  make(map[WindowID]bool),
		drag:    NewDragController(opts.MinWidth, opts.MinHeight),
		started: time.Now(),
	}
	m.publish()
	return m
}

// OnAction sets the callback for resolved key bindings.
func (m *Manager) OnAction(fn ActionFunc) {
	m.onKey = fn
}

func (m *Manager) Clients() *ClientTable {
	return m.clients
}

func (m *Manager) Drag() *DragController {
	return m.drag
}

// Run reads and dispatches events until the connection is closed or Stop
// is called.
func (m *Manager) Run() error {
	m.logger.Info("event loop started", "display", m.display.Name(), "root", m.display.Root())
	for {
		ev, err := m.nextEvent()
		if err != nil {
			if errors.Is(err, ErrConnectionClosed) {
				m.logger.Info("event loop stopped", "clients", m.clients.Len())
				return nil
			}
			return err
		}
		if m.stopping.Load() {
			m.logger.Info("event loop stopped", "clients", m.clients.Len())
			return nil
		}
		m.Dispatch(ev)
	}
}

// Stop makes Run return before dispatching another event. Call it before
// closing the display from another goroutine; a handler already running
// when the display closes is then dropped quietly.
func (m *Manager) Stop() {
	m.stopping.Store(true)
}

func (m *Manager) nextEvent() (Event, error) {
	if len(m.pending) > 0 {
		ev := m.pending[0]
		m.pending = m.pending[1:]
		return ev, nil
	}
	return m.display.NextEvent()
}

// Dispatch routes one event to its handler. A panicking handler is logged
// and the event dropped.
func (m *Manager) Dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			if m.stopping.Load() {
				m.logger.Debug("event dropped during shutdown", "event", ev.Kind(), "panic", r)
				return
			}
			m.logger.Error("event handler panicked", "event", ev.Kind(), "panic", r)
		}
	}()

	switch e := ev.(type) {
	case KeyEvent:
		m.handleKey(e)
	case ButtonEvent:
		if e.Release {
			m.handleButtonRelease(e)
		} else {
			m.handleButtonPress(e)
		}
	case MotionNotify:
		m.handleMotion(e)
	case MapRequest:
		m.handleMapRequest(e)
	case ConfigureRequest:
		m.handleConfigureRequest(e)
	case DestroyNotify:
		m.handleDestroy(e)
	case UnmapNotify:
		m.handleUnmap(e)
	case MapNotify:
		m.notify(NotifyMapped, e.Window, e.Event, Rect{})
	case CreateNotify:
		m.notify(NotifyCreated, e.Window, e.Parent, e.Bounds)
	case ReparentNotify:
		m.notify(NotifyReparented, e.Window, e.Parent, Rect{})
	case ConfigureNotify:
		m.notify(NotifyConfigured, e.Window, e.Event, e.Bounds)
	default:
		m.logger.Debug("ignoring event", "event", ev.Kind())
	}

	if m.dirty {
		m.dirty = false
		m.publish()
	}
}

func (m *Manager) handleKey(e KeyEvent) {
	if m.keys == nil {
		return
	}
	action, ok := m.keys.Resolve(e)
	if !ok {
		return
	}
	m.logger.Debug("key binding", "action", action.String(), "code", e.Code, "state", e.State)
	if m.onKey != nil {
		m.onKey(action)
	}
}

func (m *Manager) handleButtonPress(e ButtonEvent) {
	target := e.Child
	if target == 0 {
		target = e.Window
	}
	c, ok := m.clients.Resolve(target)
	if !ok {
		m.logger.Debug("button press on unmanaged window", "window", target)
		return
	}
	m.focus(c.Child)

	if m.drag.Active() || m.drags == nil {
		return
	}
	kind, ok := m.drags.DragKind(e.Button, e.State)
	if !ok {
		return
	}
	geom, err := m.display.GetGeometry(c.Frame)
	if err != nil {
		m.dropInvalid("button press", c.Frame, err)
		return
	}
	if m.drag.Begin(c.Frame, kind, e.RootX, e.RootY, geom.Rect()) {
		m.display.Raise(c.Frame)
		m.dirty = true
	}
}

func (m *Manager) handleMotion(e MotionNotify) {
	if !m.drag.Active() {
		return
	}
	e = m.compressMotion(e)

	st, _ := m.drag.State()
	child, ok := m.clients.ChildOf(st.Frame)
	if !ok {
		m.drag.End()
		m.dirty = true
		return
	}

	st, r, _ := m.drag.Update(e.RootX, e.RootY)
	m.display.Configure(st.Frame, r)
	if st.Kind == DragResize {
		m.display.Configure(child, Rect{Width: r.Width, Height: r.Height})
	}
}

// compressMotion drains queued motion for the same window and returns the
// newest sample. The first other event is kept for the next read.
func (m *Manager) compressMotion(e MotionNotify) MotionNotify {
	for {
		next, err := m.display.PollEvent()
		if err != nil || next == nil {
			return e
		}
		mn, ok := next.(MotionNotify)
		if !ok || mn.Window != e.Window {
			m.pending = append(m.pending, next)
			return e
		}
		e = mn
	}
}

func (m *Manager) handleButtonRelease(e ButtonEvent) {
	st, ok := m.drag.End()
	if !ok {
		return
	}
	m.dirty = true
	if !st.Moved() {
		return
	}
	if fl, ok := m.layout.(Floater); ok {
		if child, ok := m.clients.ChildOf(st.Frame); ok {
			fl.WindowFloated(child)
			m.arrange()
		}
	}
}

func (m *Manager) handleMapRequest(e MapRequest) {
	if frame, ok := m.clients.FrameOf(e.Window); ok {
		m.display.Map(frame)
		m.display.Map(e.Window)
		if m.hidden[e.Window] {
			delete(m.hidden, e.Window)
			m.focus(e.Window)
		}
		return
	}
	if _, ok := m.clients.ChildOf(e.Window); ok {
		return
	}

	geom, err := m.display.GetGeometry(e.Window)
	if err != nil {
		m.dropInvalid("map request", e.Window, err)
		return
	}
	frame, err := m.display.CreateFrame(geom.Rect(), m.opts.BorderWidth, m.opts.BorderColor)
	if err != nil {
		m.logger.Warn("failed to create frame", "window", e.Window, "error", err)
		return
	}
	m.display.AddToSaveSet(e.Window)
	if err := m.display.Reparent(e.Window, frame, 0, 0); err != nil {
		m.logger.Warn("failed to reparent window", "window", e.Window, "frame", frame, "error", err)
		m.display.DestroyWindow(frame)
		return
	}
	if err := m.clients.Insert(e.Window, frame); err != nil {
		m.logger.Warn("failed to record client", "error", err)
		m.display.DestroyWindow(frame)
		return
	}
	m.logger.Debug("managing window", "window", e.Window, "frame", frame)

	target := m.layout.WindowMapped(e.Window)
	m.place(e.Window, frame, target)
	m.display.Map(frame)
	m.display.Map(e.Window)
	m.focus(e.Window)
	m.arrange()
	m.dirty = true
}

// handleConfigureRequest honors the request. For a managed child the
// position and size go to the frame and the child is only resized.
func (m *Manager) handleConfigureRequest(e ConfigureRequest) {
	frame, managed := m.clients.FrameOf(e.Window)
	if !managed {
		mask, values := configureValues(e, e.ValueMask)
		m.display.ConfigureRaw(e.Window, mask, values)
		return
	}

	frameMask := e.ValueMask & (xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	if frameMask != 0 {
		mask, values := configureValues(e, frameMask)
		m.display.ConfigureRaw(frame, mask, values)
	}
	childMask := e.ValueMask & (xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	if childMask != 0 {
		mask, values := configureValues(e, childMask)
		m.display.ConfigureRaw(e.Window, mask, values)
	}
}

// configureValues builds the value list for mask in protocol bit order.
func configureValues(e ConfigureRequest, mask uint16) (uint16, []uint32) {
	var values []uint32
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(e.X)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(e.Y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(max(1, e.Width)))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(max(1, e.Height)))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(e.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(e.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(e.StackMode))
	}
	return mask, values
}

func (m *Manager) handleDestroy(e DestroyNotify) {
	if frame, ok := m.clients.RemoveByChild(e.Window); ok {
		m.forget(e.Window, frame)
		m.display.DestroyWindow(frame)
		return
	}
	if child, ok := m.clients.RemoveByFrame(e.Window); ok {
		m.forget(child, e.Window)
	}
}

// forget runs after an entry left the table.
func (m *Manager) forget(child, frame WindowID) {
	if m.drag.Cancel(frame) {
		m.logger.Debug("drag target destroyed", "frame", frame)
	}
	delete(m.hidden, child)
	m.layout.WindowDestroyed(child)
	m.logger.Debug("unmanaged window", "window", child, "frame", frame)

	if m.focused == child {
		m.refocus(child)
	}
	m.arrange()
	m.dirty = true
}

func (m *Manager) handleUnmap(e UnmapNotify) {
	frame, ok := m.clients.FrameOf(e.Window)
	if !ok {
		m.notify(NotifyUnmapped, e.Window, e.Event, Rect{})
		return
	}
	// Only the child withdrawing itself hides the frame; the frame's own
	// unmap is reported with Window == frame.
	if e.Event == frame {
		m.display.Unmap(frame)
		m.hidden[e.Window] = true
		if m.focused == e.Window {
			m.refocus(e.Window)
		}
	}
	m.layout.WindowUnmapped(e.Window)
	m.notify(NotifyUnmapped, e.Window, e.Event, Rect{})
	m.arrange()
}

func (m *Manager) notify(kind NotificationKind, win, parent WindowID, bounds Rect) {
	obs, ok := m.layout.(Observer)
	if !ok {
		return
	}
	n := Notification{Kind: kind, Window: win, Parent: parent, Bounds: bounds}
	if c, ok := m.clients.Resolve(win); ok {
		n.Window = c.Child
		n.Managed = true
	}
	if obs.Observe(n) {
		m.arrange()
	}
}

// place configures frame to r and sizes the child to fill it.
func (m *Manager) place(child, frame WindowID, r Rect) {
	bw := m.opts.BorderWidth
	r.Width = max(1, r.Width-2*bw)
	r.Height = max(1, r.Height-2*bw)
	m.display.Configure(frame, r)
	m.display.Configure(child, Rect{Width: r.Width, Height: r.Height})
}

func (m *Manager) arrange() {
	ar, ok := m.layout.(Arranger)
	if !ok {
		return
	}
	dragging, _ := m.drag.State()
	for _, p := range ar.Arrange() {
		frame, ok := m.clients.FrameOf(p.Window)
		if !ok {
			continue
		}
		if m.drag.Active() && dragging.Frame == frame {
			continue
		}
		m.place(p.Window, frame, p.Bounds)
	}
}

func (m *Manager) focus(child WindowID) {
	frame, ok := m.clients.FrameOf(child)
	if !ok || m.hidden[child] {
		return
	}
	if m.focused != 0 && m.focused != child {
		if prev, ok := m.clients.FrameOf(m.focused); ok {
			m.display.SetBorder(prev, m.opts.BorderWidth, m.opts.BorderColor)
		}
	}
	m.display.SetBorder(frame, m.opts.BorderWidth, m.opts.FocusedBorderColor)
	m.display.Focus(child)
	if m.focused != child {
		m.focused = child
		m.dirty = true
		if pub, ok := m.display.(Publisher); ok {
			pub.PublishActive(child)
		}
	}
}

// refocus moves focus off leaving to the most recently managed visible
// client, or clears it when none is left.
func (m *Manager) refocus(leaving WindowID) {
	if frame, ok := m.clients.FrameOf(leaving); ok {
		m.display.SetBorder(frame, m.opts.BorderWidth, m.opts.BorderColor)
	}
	m.focused = 0
	m.dirty = true
	if visible := m.visibleChildren(); len(visible) > 0 {
		m.focus(visible[len(visible)-1])
		return
	}
	if pub, ok := m.display.(Publisher); ok {
		pub.PublishActive(0)
	}
}

// visibleChildren lists managed children whose frames are mapped, in
// management order.
func (m *Manager) visibleChildren() []WindowID {
	var out []WindowID
	for _, c := range m.clients.Children() {
		if !m.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) dropInvalid(op string, win WindowID, err error) {
	if errors.Is(err, ErrInvalidWindow) {
		m.logger.Debug("window vanished", "op", op, "window", win)
		return
	}
	m.logger.Warn("display request failed", "op", op, "window", win, "error", err)
}
