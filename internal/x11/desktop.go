package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/hippowm/hippowm/internal/wm"
)

var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
}

// Advertise publishes the EWMH root properties that identify the running
// manager and its desktops. Call it after the ownership handshake.
func (c *Connection) Advertise(wmName string, desktops []string) error {
	wid, err := xproto.NewWindowId(c.conn())
	if err != nil {
		return fmt.Errorf("allocate check window id: %w", err)
	}
	err = xproto.CreateWindowChecked(c.conn(), 0, wid, c.root,
		-1, -1, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, 0, nil).Check()
	if err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	c.checkWin = wid

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.root, wid); err != nil {
		return fmt.Errorf("failed to set _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, wid, wid); err != nil {
		return fmt.Errorf("failed to set _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, wid, wmName); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedHints); err != nil {
		return fmt.Errorf("failed to set _NET_SUPPORTED: %w", err)
	}

	if len(desktops) > 0 {
		if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(desktops))); err != nil {
			return fmt.Errorf("failed to set _NET_NUMBER_OF_DESKTOPS: %w", err)
		}
		if err := ewmh.DesktopNamesSet(c.XUtil, desktops); err != nil {
			return fmt.Errorf("failed to set _NET_DESKTOP_NAMES: %w", err)
		}
		if err := ewmh.CurrentDesktopSet(c.XUtil, 0); err != nil {
			return fmt.Errorf("failed to set _NET_CURRENT_DESKTOP: %w", err)
		}
	}
	return nil
}

// PublishClients sets _NET_CLIENT_LIST.
func (c *Connection) PublishClients(clients []wm.WindowID) {
	wins := make([]xproto.Window, len(clients))
	for i, w := range clients {
		wins[i] = xproto.Window(w)
	}
	if err := ewmh.ClientListSet(c.XUtil, wins); err != nil {
		c.logger.Debug("failed to set _NET_CLIENT_LIST", "error", err)
	}
}

// PublishActive sets _NET_ACTIVE_WINDOW.
func (c *Connection) PublishActive(win wm.WindowID) {
	if err := ewmh.ActiveWindowSet(c.XUtil, xproto.Window(win)); err != nil {
		c.logger.Debug("failed to set _NET_ACTIVE_WINDOW", "error", err)
	}
}
