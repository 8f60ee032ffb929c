// Package actions runs resolved key bindings against the manager and the
// layout engine.
package actions

import (
	"log/slog"
	"strings"

	"github.com/hippowm/hippowm/internal/wm"
)

// Windows is the part of the manager actions operate on.
type Windows interface {
	Focused() wm.WindowID
	FocusNext()
	FocusPrevious()
	CloseFocused()
	Refresh()
}

// Tiler is the part of the layout engine actions operate on.
type Tiler interface {
	NextLayout()
	PreviousLayout()
	IncMain()
	DecMain()
	ExpandMain()
	ShrinkMain()
	ToggleFullscreen()
	SwapUp(child wm.WindowID) bool
	SwapDown(child wm.WindowID) bool
	ToggleFloat(child wm.WindowID) bool
}

// Spawner starts a shell command.
type Spawner interface {
	Spawn(command string) error
}

type Runner struct {
	windows Windows
	tiler   Tiler
	spawner Spawner
	quit    func()
	logger  *slog.Logger
}

func NewRunner(windows Windows, tiler Tiler, spawner Spawner, quit func(), logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if quit == nil {
		quit = func() {}
	}
	return &Runner{windows: windows, tiler: tiler, spawner: spawner, quit: quit, logger: logger}
}

// Run executes a. It is installed as the manager's ActionFunc and runs on
// the event loop goroutine.
func (r *Runner) Run(a wm.Action) {
	if a.Command != "" {
		if err := r.spawner.Spawn(a.Command); err != nil {
			r.logger.Warn("command failed", "command", a.Command, "error", err)
		}
		return
	}

	focused := r.windows.Focused()
	relayout := true
	switch strings.ToLower(a.Name) {
	case "kill":
		r.windows.CloseFocused()
		relayout = false
	case "focusnext":
		r.windows.FocusNext()
		relayout = false
	case "focusprevious":
		r.windows.FocusPrevious()
		relayout = false
	case "swapup":
		relayout = focused != 0 && r.tiler.SwapUp(focused)
	case "swapdown":
		relayout = focused != 0 && r.tiler.SwapDown(focused)
	case "floatfocused":
		relayout = focused != 0 && r.tiler.ToggleFloat(focused)
	case "togglefullscreen":
		r.tiler.ToggleFullscreen()
	case "nextlayout":
		r.tiler.NextLayout()
	case "previouslayout":
		r.tiler.PreviousLayout()
	case "incmain":
		r.tiler.IncMain()
	case "decmain":
		r.tiler.DecMain()
	case "expandmain":
		r.tiler.ExpandMain()
	case "shrinkmain":
		r.tiler.ShrinkMain()
	case "quit":
		r.logger.Info("quit requested")
		r.quit()
		relayout = false
	default:
		r.logger.Warn("unknown action", "action", a.Name)
		relayout = false
	}
	if relayout {
		r.windows.Refresh()
	}
}
