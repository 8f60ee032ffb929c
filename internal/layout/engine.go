package layout

import (
	"log/slog"
	"math"

	"github.com/hippowm/hippowm/internal/wm"
)

const (
	minRatio = 0.1
	maxRatio = 0.9
)

type Options struct {
	Modes     []Mode
	MaxMain   int
	Ratio     float64
	RatioStep float64
	Gaps      Gaps
}

// Engine tiles managed windows on a single screen area. It is only used
// from the event loop goroutine.
type Engine struct {
	screen wm.Rect
	opts   Options
	logger *slog.Logger

	current    int
	fullscreen bool

	// order is the tiling order of every known child, floating or not.
	order    []wm.WindowID
	hidden   map[wm.WindowID]bool
	floating map[wm.WindowID]bool
}

func NewEngine(screen wm.Rect, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Modes) == 0 {
		opts.Modes = []Mode{ModeSide}
	}
	if opts.MaxMain < 0 {
		opts.MaxMain = 0
	}
	opts.Ratio = clampRatio(opts.Ratio)
	return &Engine{
		screen:   screen,
		opts:     opts,
		logger:   logger,
		hidden:   make(map[wm.WindowID]bool),
		floating: make(map[wm.WindowID]bool),
	}
}

// Mode is the active tiling mode. ToggleFullscreen overrides it with
// monocle.
func (e *Engine) Mode() Mode {
	if e.fullscreen {
		return ModeMonocle
	}
	return e.opts.Modes[e.current]
}

func (e *Engine) MaxMain() int    { return e.opts.MaxMain }
func (e *Engine) Ratio() float64  { return e.opts.Ratio }
func (e *Engine) Screen() wm.Rect { return e.screen }

// Windows returns every known child in tiling order.
func (e *Engine) Windows() []wm.WindowID {
	return append([]wm.WindowID(nil), e.order...)
}

func (e *Engine) IsFloating(child wm.WindowID) bool { return e.floating[child] }

func (e *Engine) WindowMapped(child wm.WindowID) wm.Rect {
	if e.index(child) < 0 {
		e.order = append(e.order, child)
	}
	delete(e.hidden, child)
	delete(e.floating, child)

	for _, p := range e.Arrange() {
		if p.Window == child {
			return p.Bounds
		}
	}
	return ApplyGaps(e.screen, e.opts.Gaps)
}

func (e *Engine) WindowDestroyed(child wm.WindowID) {
	if i := e.index(child); i >= 0 {
		e.order = append(e.order[:i], e.order[i+1:]...)
	}
	delete(e.hidden, child)
	delete(e.floating, child)
}

func (e *Engine) WindowUnmapped(child wm.WindowID) {
	if e.index(child) >= 0 {
		e.hidden[child] = true
	}
}

func (e *Engine) WindowFloated(child wm.WindowID) {
	if e.index(child) >= 0 {
		e.floating[child] = true
	}
}

// Observe re-admits a hidden window when it is mapped again.
func (e *Engine) Observe(n wm.Notification) bool {
	if n.Kind != wm.NotifyMapped || !n.Managed {
		return false
	}
	if !e.hidden[n.Window] {
		return false
	}
	delete(e.hidden, n.Window)
	return true
}

// Arrange returns a placement for every visible tiled window.
func (e *Engine) Arrange() []wm.Placement {
	tiled := e.tiled()
	rects := CalculatePositions(e.Mode(), len(tiled), ApplyGaps(e.screen, e.opts.Gaps), e.opts.MaxMain, e.opts.Ratio, e.opts.Gaps.Inner)
	placements := make([]wm.Placement, len(tiled))
	for i, child := range tiled {
		placements[i] = wm.Placement{Window: child, Bounds: rects[i]}
	}
	return placements
}

func (e *Engine) tiled() []wm.WindowID {
	out := make([]wm.WindowID, 0, len(e.order))
	for _, child := range e.order {
		if e.hidden[child] || e.floating[child] {
			continue
		}
		out = append(out, child)
	}
	return out
}

func (e *Engine) NextLayout() {
	e.fullscreen = false
	e.current = (e.current + 1) % len(e.opts.Modes)
	e.logger.Debug("layout changed", "mode", e.Mode())
}

func (e *Engine) PreviousLayout() {
	e.fullscreen = false
	e.current = (e.current - 1 + len(e.opts.Modes)) % len(e.opts.Modes)
	e.logger.Debug("layout changed", "mode", e.Mode())
}

func (e *Engine) ToggleFullscreen() {
	e.fullscreen = !e.fullscreen
}

func (e *Engine) IncMain() {
	e.opts.MaxMain++
}

func (e *Engine) DecMain() {
	if e.opts.MaxMain > 0 {
		e.opts.MaxMain--
	}
}

func (e *Engine) ExpandMain() {
	e.opts.Ratio = clampRatio(e.opts.Ratio + e.opts.RatioStep)
}

func (e *Engine) ShrinkMain() {
	e.opts.Ratio = clampRatio(e.opts.Ratio - e.opts.RatioStep)
}

// SwapUp moves child one position towards the main region, wrapping to the
// end. It reports whether the order changed.
func (e *Engine) SwapUp(child wm.WindowID) bool {
	return e.swap(child, -1)
}

// SwapDown moves child one position away from the main region, wrapping to
// the front.
func (e *Engine) SwapDown(child wm.WindowID) bool {
	return e.swap(child, 1)
}

func (e *Engine) swap(child wm.WindowID, step int) bool {
	i := e.index(child)
	if i < 0 || len(e.order) < 2 {
		return false
	}
	j := (i + step + len(e.order)) % len(e.order)
	e.order[i], e.order[j] = e.order[j], e.order[i]
	return true
}

// ToggleFloat floats a tiled window or sinks a floating one back into the
// arrangement.
func (e *Engine) ToggleFloat(child wm.WindowID) bool {
	if e.index(child) < 0 {
		return false
	}
	if e.floating[child] {
		delete(e.floating, child)
	} else {
		e.floating[child] = true
	}
	return true
}

func (e *Engine) index(child wm.WindowID) int {
	for i, c := range e.order {
		if c == child {
			return i
		}
	}
	return -1
}

func clampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0.5
	}
	return math.Max(minRatio, math.Min(maxRatio, r))
}
