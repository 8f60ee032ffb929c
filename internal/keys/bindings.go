package keys

import (
	"github.com/hippowm/hippowm/internal/wm"
)

// modifierBits are the eight core modifier bits; button state bits above
// them never take part in matching.
const modifierBits uint16 = 0xff

type combo struct {
	mods uint16
	code uint8
}

// Bindings resolves raw key and button events. Lock-style modifiers listed
// in ignore (CapsLock, NumLock, ScrollLock) are stripped before lookup.
type Bindings struct {
	keys   map[combo]wm.Action
	drags  map[combo]wm.DragKind
	ignore uint16
}

func NewBindings(ignore uint16) *Bindings {
	return &Bindings{
		keys:   make(map[combo]wm.Action),
		drags:  make(map[combo]wm.DragKind),
		ignore: ignore,
	}
}

func (b *Bindings) clean(state uint16) uint16 {
	return state & modifierBits &^ b.ignore
}

// AddKey binds mods+code to action. A later binding for the same
// combination replaces the earlier one.
func (b *Bindings) AddKey(mods uint16, code uint8, action wm.Action) {
	b.keys[combo{mods: b.clean(mods), code: code}] = action
}

func (b *Bindings) AddDrag(mods uint16, button uint8, kind wm.DragKind) {
	b.drags[combo{mods: b.clean(mods), code: button}] = kind
}

// Resolve implements wm.KeyResolver. Only presses resolve.
func (b *Bindings) Resolve(ev wm.KeyEvent) (wm.Action, bool) {
	if ev.Release {
		return wm.Action{}, false
	}
	a, ok := b.keys[combo{mods: b.clean(ev.State), code: ev.Code}]
	return a, ok
}

// DragKind implements wm.DragPolicy.
func (b *Bindings) DragKind(button uint8, state uint16) (wm.DragKind, bool) {
	k, ok := b.drags[combo{mods: b.clean(state), code: button}]
	return k, ok
}

func (b *Bindings) Len() int {
	return len(b.keys)
}
