package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/hippowm/hippowm/internal/wm"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	Primary bool
	X       int
	Y       int
	Width   int
	Height  int
}

func (m Monitor) Rect() wm.Rect {
	return wm.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active monitors using XRandR
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.conn(), c.root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		isPrimary := false
		for _, out := range crtcInfo.Outputs {
			if primary != 0 && out == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    name,
			Primary: isPrimary,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
		})
	}
	return monitors, nil
}

// ScreenArea is the area handed to the layout: the primary monitor, else
// the monitor under the pointer, else the first monitor, else the root
// window.
func (c *Connection) ScreenArea() (wm.Rect, error) {
	monitors, err := c.Monitors()
	if err == nil && len(monitors) > 0 {
		return pickMonitor(monitors, c.pointer).Rect(), nil
	}
	if err != nil {
		c.logger.Debug("randr unavailable, using root geometry", "error", err)
	}

	geom, gerr := c.GetGeometry(wm.WindowID(c.root))
	if gerr != nil {
		return wm.Rect{}, fmt.Errorf("failed to determine screen area: %w", gerr)
	}
	return geom.Rect(), nil
}

func (c *Connection) pointer() (int, int, bool) {
	reply, err := xproto.QueryPointer(c.conn(), c.root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(reply.RootX), int(reply.RootY), true
}

func pickMonitor(monitors []Monitor, pointer func() (int, int, bool)) Monitor {
	for _, m := range monitors {
		if m.Primary {
			return m
		}
	}
	if x, y, ok := pointer(); ok {
		for _, m := range monitors {
			if m.contains(x, y) {
				return m
			}
		}
	}
	return monitors[0]
}
