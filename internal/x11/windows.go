package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/hippowm/hippowm/internal/wm"
)

// SelectInput replaces the event mask of win. Unchecked: a BadAccess on the
// root window reaches the fault handler.
func (c *Connection) SelectInput(win wm.WindowID, mask uint32) error {
	xproto.ChangeWindowAttributes(c.conn(), xproto.Window(win), xproto.CwEventMask, []uint32{mask})
	return nil
}

func (c *Connection) GetGeometry(win wm.WindowID) (wm.Geometry, error) {
	reply, err := xproto.GetGeometry(c.conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return wm.Geometry{}, invalidWindow("get geometry", xproto.Window(win), err)
	}
	return wm.Geometry{
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
		Border: int(reply.BorderWidth),
		Depth:  int(reply.Depth),
	}, nil
}

// Configure moves and resizes win. Sizes are clamped to at least 1.
func (c *Connection) Configure(win wm.WindowID, r wm.Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(int32(r.X)),
		uint32(int32(r.Y)),
		uint32(max(1, r.Width)),
		uint32(max(1, r.Height)),
	}
	xproto.ConfigureWindow(c.conn(), xproto.Window(win), mask, values)
	return nil
}

func (c *Connection) ConfigureRaw(win wm.WindowID, mask uint16, values []uint32) error {
	xproto.ConfigureWindow(c.conn(), xproto.Window(win), mask, values)
	return nil
}

func (c *Connection) Raise(win wm.WindowID) error {
	xwindow.New(c.XUtil, xproto.Window(win)).Stack(xproto.StackModeAbove)
	return nil
}

func (c *Connection) Reparent(child, parent wm.WindowID, x, y int) error {
	xproto.ReparentWindow(c.conn(), xproto.Window(child), xproto.Window(parent), int16(x), int16(y))
	return nil
}

func (c *Connection) Map(win wm.WindowID) error {
	xwindow.New(c.XUtil, xproto.Window(win)).Map()
	return nil
}

func (c *Connection) Unmap(win wm.WindowID) error {
	xwindow.New(c.XUtil, xproto.Window(win)).Unmap()
	return nil
}

// CreateFrame creates an unmapped frame window on the root. The request is
// checked so a failure is reported before anything is reparented into it.
func (c *Connection) CreateFrame(r wm.Rect, borderWidth int, borderColor uint32) (wm.WindowID, error) {
	wid, err := xproto.NewWindowId(c.conn())
	if err != nil {
		return 0, fmt.Errorf("allocate frame id: %w", err)
	}
	screen := c.XUtil.Screen()
	err = xproto.CreateWindowChecked(
		c.conn(),
		screen.RootDepth,
		wid,
		c.root,
		int16(r.X), int16(r.Y),
		uint16(max(1, r.Width)), uint16(max(1, r.Height)),
		uint16(max(0, borderWidth)),
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{screen.BlackPixel, borderColor, wm.FrameEventMask},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("create frame: %w", err)
	}
	return wm.WindowID(wid), nil
}

func (c *Connection) DestroyWindow(win wm.WindowID) error {
	xproto.DestroyWindow(c.conn(), xproto.Window(win))
	return nil
}

// AddToSaveSet keeps the child alive and mapped if the manager exits.
func (c *Connection) AddToSaveSet(win wm.WindowID) error {
	xproto.ChangeSaveSet(c.conn(), xproto.SetModeInsert, xproto.Window(win))
	return nil
}

func (c *Connection) SetBorder(win wm.WindowID, width int, color uint32) error {
	w := xproto.Window(win)
	xproto.ConfigureWindow(c.conn(), w, xproto.ConfigWindowBorderWidth, []uint32{uint32(max(0, width))})
	xproto.ChangeWindowAttributes(c.conn(), w, xproto.CwBorderPixel, []uint32{color})
	return nil
}

func (c *Connection) Focus(win wm.WindowID) error {
	xwindow.New(c.XUtil, xproto.Window(win)).Focus()
	return nil
}

// CloseWindow sends WM_DELETE_WINDOW when the client advertises it and
// kills the client otherwise.
func (c *Connection) CloseWindow(win wm.WindowID) error {
	w := xproto.Window(win)
	protocols, err := icccm.WmProtocolsGet(c.XUtil, w)
	if err == nil {
		for _, p := range protocols {
			if p == "WM_DELETE_WINDOW" {
				return c.sendDelete(w)
			}
		}
	}
	xproto.KillClient(c.conn(), uint32(w))
	return nil
}

func (c *Connection) sendDelete(win xproto.Window) error {
	deleteReply, err := xproto.InternAtom(c.conn(), false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return invalidWindow("intern WM_DELETE_WINDOW for", win, err)
	}
	protocolsReply, err := xproto.InternAtom(c.conn(), false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return invalidWindow("intern WM_PROTOCOLS for", win, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), 0, 0, 0, 0}),
	}
	err = xproto.SendEventChecked(
		c.conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
	return invalidWindow("close", win, err)
}
