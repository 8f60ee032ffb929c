package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/hippowm/hippowm/internal/wm"
)

// NextEvent blocks for the next event. Errors for unchecked requests arrive
// on the same stream and are handed to the fault handler in between.
func (c *Connection) NextEvent() (wm.Event, error) {
	if ev, ok := c.popPending(); ok {
		return translateEvent(ev), nil
	}
	for {
		ev, xerr := c.conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, wm.ErrConnectionClosed
		}
		if xerr != nil {
			c.fault(xerr)
			continue
		}
		return translateEvent(ev), nil
	}
}

// PollEvent returns a queued event without blocking, or nil.
func (c *Connection) PollEvent() (wm.Event, error) {
	if ev, ok := c.popPending(); ok {
		return translateEvent(ev), nil
	}
	for {
		ev, xerr := c.conn().PollForEvent()
		if xerr != nil {
			c.fault(xerr)
			continue
		}
		if ev == nil {
			return nil, nil
		}
		return translateEvent(ev), nil
	}
}

func (c *Connection) popPending() (xgb.Event, bool) {
	if len(c.pending) == 0 {
		return nil, false
	}
	ev := c.pending[0]
	c.pending = c.pending[1:]
	return ev, true
}

// Sync round-trips to the server, then delivers every error already queued
// to the fault handler. Events drained on the way are kept for NextEvent.
func (c *Connection) Sync() error {
	if _, err := xproto.GetInputFocus(c.conn()).Reply(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	for {
		ev, xerr := c.conn().PollForEvent()
		if xerr != nil {
			c.fault(xerr)
			continue
		}
		if ev == nil {
			return nil
		}
		c.pending = append(c.pending, ev)
	}
}

func translateEvent(ev xgb.Event) wm.Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return wm.KeyEvent{Window: wm.WindowID(e.Event), Code: uint8(e.Detail), State: e.State}
	case xproto.KeyReleaseEvent:
		return wm.KeyEvent{Window: wm.WindowID(e.Event), Code: uint8(e.Detail), State: e.State, Release: true}
	case xproto.ButtonPressEvent:
		return wm.ButtonEvent{
			Window: wm.WindowID(e.Event),
			Child:  wm.WindowID(e.Child),
			Button: uint8(e.Detail),
			State:  e.State,
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}
	case xproto.ButtonReleaseEvent:
		return wm.ButtonEvent{
			Window:  wm.WindowID(e.Event),
			Child:   wm.WindowID(e.Child),
			Button:  uint8(e.Detail),
			State:   e.State,
			RootX:   int(e.RootX),
			RootY:   int(e.RootY),
			Release: true,
		}
	case xproto.MotionNotifyEvent:
		return wm.MotionNotify{
			Window: wm.WindowID(e.Event),
			Child:  wm.WindowID(e.Child),
			State:  e.State,
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}
	case xproto.MapRequestEvent:
		return wm.MapRequest{Parent: wm.WindowID(e.Parent), Window: wm.WindowID(e.Window)}
	case xproto.ConfigureRequestEvent:
		return wm.ConfigureRequest{
			Parent:      wm.WindowID(e.Parent),
			Window:      wm.WindowID(e.Window),
			ValueMask:   e.ValueMask,
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			Sibling:     wm.WindowID(e.Sibling),
			StackMode:   e.StackMode,
		}
	case xproto.DestroyNotifyEvent:
		return wm.DestroyNotify{Event: wm.WindowID(e.Event), Window: wm.WindowID(e.Window)}
	case xproto.UnmapNotifyEvent:
		return wm.UnmapNotify{Event: wm.WindowID(e.Event), Window: wm.WindowID(e.Window)}
	case xproto.MapNotifyEvent:
		return wm.MapNotify{Event: wm.WindowID(e.Event), Window: wm.WindowID(e.Window)}
	case xproto.CreateNotifyEvent:
		return wm.CreateNotify{
			Parent: wm.WindowID(e.Parent),
			Window: wm.WindowID(e.Window),
			Bounds: wm.Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
		}
	case xproto.ReparentNotifyEvent:
		return wm.ReparentNotify{Event: wm.WindowID(e.Event), Window: wm.WindowID(e.Window), Parent: wm.WindowID(e.Parent)}
	case xproto.ConfigureNotifyEvent:
		return wm.ConfigureNotify{
			Event:  wm.WindowID(e.Event),
			Window: wm.WindowID(e.Window),
			Bounds: wm.Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
		}
	default:
		return wm.UnknownEvent{Name: eventName(ev)}
	}
}

// eventName turns "xproto.ExposeEvent" into "Expose".
func eventName(ev xgb.Event) string {
	name := fmt.Sprintf("%T", ev)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "Event")
}
