package keys

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/hippowm/hippowm/internal/wm"
)

// KeySpec is one configured key binding.
type KeySpec struct {
	Bind   string
	Action wm.Action
}

// DragSpec is one configured pointer binding.
type DragSpec struct {
	Bind string
	Kind wm.DragKind
}

// Grabber registers bindings on the root window.
type Grabber struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

func NewGrabber(xu *xgbutil.XUtil, root xproto.Window, logger *slog.Logger) *Grabber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grabber{xu: xu, root: root, logger: logger}
}

// Grab grabs every key and drag binding on the root window and returns the
// resolver for the resulting events. A binding that cannot be parsed or
// grabbed is logged and skipped.
func (g *Grabber) Grab(keySpecs []KeySpec, dragSpecs []DragSpec) *Bindings {
	ignore := configureIgnoreMods(g.xu)
	b := NewBindings(ignore)

	for _, spec := range keySpecs {
		if err := g.grabKey(b, spec); err != nil {
			g.logger.Warn("skipping key binding", "bind", spec.Bind, "action", spec.Action.String(), "error", err)
		}
	}
	for _, spec := range dragSpecs {
		if err := g.grabButton(b, spec); err != nil {
			g.logger.Warn("skipping pointer binding", "bind", spec.Bind, "kind", spec.Kind.String(), "error", err)
		}
	}
	g.logger.Debug("bindings grabbed", "keys", b.Len(), "ignore_mask", ignore)
	return b
}

func (g *Grabber) grabKey(b *Bindings, spec KeySpec) error {
	binding, err := ParseBinding(spec.Bind)
	if err != nil {
		return err
	}
	mods, codes, err := keybind.ParseString(g.xu, binding.String())
	if err != nil {
		return fmt.Errorf("parse %q: %w", binding.String(), err)
	}
	if len(codes) == 0 {
		return fmt.Errorf("no keycode for %q", binding.Key)
	}
	for _, code := range codes {
		if err := keybind.GrabChecked(g.xu, g.root, mods, code); err != nil {
			return fmt.Errorf("grab %q: %w", binding.String(), err)
		}
		b.AddKey(mods, uint8(code), spec.Action)
	}
	return nil
}

const dragEventMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskButtonMotion

func (g *Grabber) grabButton(b *Bindings, spec DragSpec) error {
	binding, button, err := ParseButton(spec.Bind)
	if err != nil {
		return err
	}
	mods := binding.Mask()
	for _, extra := range xevent.IgnoreMods {
		err := xproto.GrabButtonChecked(g.xu.Conn(), false, g.root, dragEventMask,
			xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
			button, mods|extra).Check()
		if err != nil {
			return fmt.Errorf("grab button %q: %w", binding.String(), err)
		}
	}
	b.AddDrag(mods, button, spec.Kind)
	return nil
}

// configureIgnoreMods installs the lock modifier combinations that grabs
// must tolerate and returns the union of those modifiers.
func configureIgnoreMods(xu *xgbutil.XUtil) uint16 {
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	masks, union := ignoreMasks(numLock, scrollLock)
	xevent.IgnoreMods = masks
	return union
}

// ignoreMasks returns every subset of {CapsLock, numLock, scrollLock},
// including the empty one, and their union.
func ignoreMasks(numLock, scrollLock uint16) ([]uint16, uint16) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	masks := make([]uint16, 0, 1<<len(base))
	var union uint16
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
		union |= mask
	}
	return masks, union
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
