package layout

import (
	"fmt"

	"github.com/hippowm/hippowm/internal/wm"
)

// Mode is a tiling algorithm.
type Mode string

const (
	ModeSide          Mode = "side"
	ModeSideReflected Mode = "side-reflected"
	ModeBottom        Mode = "bottom"
	ModeMonocle       Mode = "monocle"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSide, ModeSideReflected, ModeBottom, ModeMonocle:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported layout mode: %q", s)
	}
}

// Gaps describes the space left around and between windows.
type Gaps struct {
	Outer int // around the screen edge
	Inner int // between neighbouring windows
	Top   int // reserved above everything, typically for a bar
}

// ApplyGaps shrinks the screen to the area windows may occupy.
func ApplyGaps(screen wm.Rect, g Gaps) wm.Rect {
	area := wm.Rect{
		X:      screen.X + g.Outer,
		Y:      screen.Y + g.Outer + g.Top,
		Width:  screen.Width - 2*g.Outer,
		Height: screen.Height - 2*g.Outer - g.Top,
	}
	if area.Width < 1 {
		area.Width = 1
	}
	if area.Height < 1 {
		area.Height = 1
	}
	return area
}

// CalculatePositions computes n window rects inside area. The first
// min(n, maxMain) windows share the main region, sized by ratio; the rest
// split the stack evenly. With no stack or no main windows the populated
// region takes the whole area.
func CalculatePositions(mode Mode, n int, area wm.Rect, maxMain int, ratio float64, inner int) []wm.Rect {
	if n <= 0 {
		return nil
	}

	if mode == ModeMonocle {
		positions := make([]wm.Rect, n)
		for i := range positions {
			positions[i] = shrink(area, inner)
		}
		return positions
	}

	mainCount := min(n, maxMain)
	stackCount := n - mainCount

	var mainArea, stackArea wm.Rect
	switch {
	case mainCount == 0:
		stackArea = area
	case stackCount == 0:
		mainArea = area
	default:
		mainArea, stackArea = split(mode, area, ratio)
	}

	vertical := mode != ModeBottom
	positions := make([]wm.Rect, 0, n)
	positions = append(positions, divide(mainArea, mainCount, vertical, inner)...)
	positions = append(positions, divide(stackArea, stackCount, vertical, inner)...)
	return positions
}

// split cuts area into the main and stack regions.
func split(mode Mode, area wm.Rect, ratio float64) (mainArea, stackArea wm.Rect) {
	switch mode {
	case ModeBottom:
		mainHeight := int(float64(area.Height) * ratio)
		mainArea = wm.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: mainHeight}
		stackArea = wm.Rect{X: area.X, Y: area.Y + mainHeight, Width: area.Width, Height: area.Height - mainHeight}
	case ModeSideReflected:
		mainWidth := int(float64(area.Width) * ratio)
		stackWidth := area.Width - mainWidth
		stackArea = wm.Rect{X: area.X, Y: area.Y, Width: stackWidth, Height: area.Height}
		mainArea = wm.Rect{X: area.X + stackWidth, Y: area.Y, Width: mainWidth, Height: area.Height}
	default:
		mainWidth := int(float64(area.Width) * ratio)
		mainArea = wm.Rect{X: area.X, Y: area.Y, Width: mainWidth, Height: area.Height}
		stackArea = wm.Rect{X: area.X + mainWidth, Y: area.Y, Width: area.Width - mainWidth, Height: area.Height}
	}
	return mainArea, stackArea
}

// divide splits r into count equal cells, stacked top to bottom when
// vertical and left to right otherwise. The last cell absorbs rounding.
func divide(r wm.Rect, count int, vertical bool, inner int) []wm.Rect {
	if count <= 0 {
		return nil
	}
	cells := make([]wm.Rect, count)
	for i := 0; i < count; i++ {
		cell := r
		if vertical {
			step := r.Height / count
			cell.Y = r.Y + i*step
			cell.Height = step
			if i == count-1 {
				cell.Height = r.Height - i*step
			}
		} else {
			step := r.Width / count
			cell.X = r.X + i*step
			cell.Width = step
			if i == count-1 {
				cell.Width = r.Width - i*step
			}
		}
		cells[i] = shrink(cell, inner)
	}
	return cells
}

// shrink insets r by gap on every side, keeping at least 1x1.
func shrink(r wm.Rect, gap int) wm.Rect {
	out := wm.Rect{X: r.X + gap, Y: r.Y + gap, Width: r.Width - 2*gap, Height: r.Height - 2*gap}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 1 {
		out.Height = 1
	}
	return out
}
