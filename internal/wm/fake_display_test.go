package wm

import (
	"bytes"
	"fmt"
	"log/slog"
)

const testRoot WindowID = 1

type call struct {
	Op     string
	Win    WindowID
	Arg    WindowID
	Rect   Rect
	Mask   uint16
	Values []uint32
	Color  uint32
}

// fakeDisplay is an in-memory Display. Queued entries are either Events or
// Faults; faults are delivered to the active handler while reading.
type fakeDisplay struct {
	nextID     WindowID
	geoms      map[WindowID]Geometry
	queue      []any
	syncFaults []Fault
	handler    FaultHandler
	calls      []call
	closed     bool
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		nextID: 0x400000,
		geoms:  map[WindowID]Geometry{testRoot: {Width: 1920, Height: 1080}},
	}
}

func (d *fakeDisplay) record(c call) { d.calls = append(d.calls, c) }

func (d *fakeDisplay) Name() string   { return ":test" }
func (d *fakeDisplay) Root() WindowID { return testRoot }

func (d *fakeDisplay) SelectInput(win WindowID, mask uint32) error {
	d.record(call{Op: "select", Win: win, Values: []uint32{mask}})
	return nil
}

func (d *fakeDisplay) GetGeometry(win WindowID) (Geometry, error) {
	g, ok := d.geoms[win]
	if !ok {
		return Geometry{}, fmt.Errorf("get geometry %s: %w", win, ErrInvalidWindow)
	}
	return g, nil
}

func (d *fakeDisplay) Configure(win WindowID, r Rect) error {
	d.record(call{Op: "configure", Win: win, Rect: r})
	if g, ok := d.geoms[win]; ok {
		g.X, g.Y, g.Width, g.Height = r.X, r.Y, r.Width, r.Height
		d.geoms[win] = g
	}
	return nil
}

func (d *fakeDisplay) ConfigureRaw(win WindowID, mask uint16, values []uint32) error {
	d.record(call{Op: "configure-raw", Win: win, Mask: mask, Values: values})
	return nil
}

func (d *fakeDisplay) Raise(win WindowID) error {
	d.record(call{Op: "raise", Win: win})
	return nil
}

func (d *fakeDisplay) Reparent(child, parent WindowID, x, y int) error {
	d.record(call{Op: "reparent", Win: child, Arg: parent, Rect: Rect{X: x, Y: y}})
	return nil
}

func (d *fakeDisplay) Map(win WindowID) error {
	d.record(call{Op: "map", Win: win})
	return nil
}

func (d *fakeDisplay) Unmap(win WindowID) error {
	d.record(call{Op: "unmap", Win: win})
	return nil
}

func (d *fakeDisplay) CreateFrame(r Rect, borderWidth int, borderColor uint32) (WindowID, error) {
	id := d.nextID
	d.nextID++
	d.geoms[id] = Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Border: borderWidth}
	d.record(call{Op: "create-frame", Win: id, Rect: r, Color: borderColor})
	return id, nil
}

func (d *fakeDisplay) DestroyWindow(win WindowID) error {
	delete(d.geoms, win)
	d.record(call{Op: "destroy", Win: win})
	return nil
}

func (d *fakeDisplay) AddToSaveSet(win WindowID) error {
	d.record(call{Op: "save-set", Win: win})
	return nil
}

func (d *fakeDisplay) SetBorder(win WindowID, width int, color uint32) error {
	d.record(call{Op: "border", Win: win, Color: color})
	return nil
}

func (d *fakeDisplay) Focus(win WindowID) error {
	d.record(call{Op: "focus", Win: win})
	return nil
}

func (d *fakeDisplay) CloseWindow(win WindowID) error {
	d.record(call{Op: "close", Win: win})
	return nil
}

func (d *fakeDisplay) Sync() error {
	for _, f := range d.syncFaults {
		d.handler.HandleFault(f)
	}
	d.syncFaults = nil
	return nil
}

func (d *fakeDisplay) NextEvent() (Event, error) {
	for {
		if d.closed || len(d.queue) == 0 {
			return nil, ErrConnectionClosed
		}
		item := d.queue[0]
		d.queue = d.queue[1:]
		if f, ok := item.(Fault); ok {
			d.handler.HandleFault(f)
			continue
		}
		return item.(Event), nil
	}
}

func (d *fakeDisplay) PollEvent() (Event, error) {
	for {
		if len(d.queue) == 0 {
			return nil, nil
		}
		item := d.queue[0]
		d.queue = d.queue[1:]
		if f, ok := item.(Fault); ok {
			d.handler.HandleFault(f)
			continue
		}
		return item.(Event), nil
	}
}

func (d *fakeDisplay) SetFaultHandler(h FaultHandler) { d.handler = h }

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDisplay) push(items ...any) {
	d.queue = append(d.queue, items...)
}

// addWindow creates an unmanaged top-level window known to the server.
func (d *fakeDisplay) addWindow(id WindowID, r Rect) {
	d.geoms[id] = Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (d *fakeDisplay) callsFor(op string, win WindowID) []call {
	var out []call
	for _, c := range d.calls {
		if c.Op == op && c.Win == win {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDisplay) resetCalls() { d.calls = nil }

// fakeLayout places every window at a fixed rectangle.
type fakeLayout struct {
	target    Rect
	mapped    []WindowID
	destroyed []WindowID
	unmapped  []WindowID
	floated   []WindowID
}

func (l *fakeLayout) WindowMapped(child WindowID) Rect {
	l.mapped = append(l.mapped, child)
	return l.target
}

func (l *fakeLayout) WindowDestroyed(child WindowID) { l.destroyed = append(l.destroyed, child) }
func (l *fakeLayout) WindowUnmapped(child WindowID)  { l.unmapped = append(l.unmapped, child) }
func (l *fakeLayout) WindowFloated(child WindowID)   { l.floated = append(l.floated, child) }

const (
	modSuper uint16 = 1 << 6
	modShift uint16 = 1 << 0
)

// superDrag moves with Mod4+Button1 and resizes with Mod4+Button3.
type superDrag struct{}

func (superDrag) DragKind(button uint8, state uint16) (DragKind, bool) {
	if state != modSuper {
		return 0, false
	}
	switch button {
	case 1:
		return DragMove, true
	case 3:
		return DragResize, true
	}
	return 0, false
}

type keyTable map[uint8]Action

func (k keyTable) Resolve(ev KeyEvent) (Action, bool) {
	if ev.Release {
		return Action{}, false
	}
	a, ok := k[ev.Code]
	return a, ok
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
