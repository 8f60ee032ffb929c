package x11

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"

	"github.com/hippowm/hippowm/internal/wm"
)

// Connection owns the X11 connection and the root window. It implements
// wm.Display and wm.Publisher.
type Connection struct {
	XUtil *xgbutil.XUtil

	root xproto.Window

	name   string
	logger *slog.Logger

	handler atomic.Pointer[faultSlot]
	// events read while draining faults, replayed before the socket
	pending []xgb.Event

	checkWin  xproto.Window
	closeOnce sync.Once
}

type faultSlot struct {
	h wm.FaultHandler
}

// Open connects to display, or to $DISPLAY when display is empty.
func Open(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := display
	if name == "" {
		name = os.Getenv("DISPLAY")
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, &wm.NoDisplayError{Display: name, Err: err}
	}

	// Key and button parsing needs the keyboard mapping.
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	c := &Connection{
		XUtil:  xu,
		root:   xu.RootWin(),
		name:   name,
		logger: logger,
	}
	c.SetFaultHandler(wm.FaultHandlerFunc(func(f wm.Fault) {
		logger.Warn("protocol error before fault policy installed", "error", f.Error())
	}))
	return c, nil
}

func (c *Connection) conn() *xgb.Conn {
	return c.XUtil.Conn()
}

func (c *Connection) Name() string {
	return c.name
}

func (c *Connection) Root() wm.WindowID {
	return wm.WindowID(c.root)
}

// SetFaultHandler replaces the handler that receives asynchronous errors.
func (c *Connection) SetFaultHandler(h wm.FaultHandler) {
	c.handler.Store(&faultSlot{h: h})
}

func (c *Connection) fault(err xgb.Error) {
	f := translateError(err)
	if slot := c.handler.Load(); slot != nil && slot.h != nil {
		slot.h.HandleFault(f)
	}
}

// Close disconnects from the X server. It is safe to call more than once
// and from another goroutine, which unblocks NextEvent.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.conn().Close()
	})
	return nil
}
