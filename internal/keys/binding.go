package keys

import (
	"fmt"
	"strings"
)

// Binding is a parsed binding such as "M-S-q": modifier names in xgbutil
// spelling plus a keysym or button name.
type Binding struct {
	Mods []string
	Key  string
}

var modifierNames = map[string]string{
	"M":       "Mod4",
	"Mod4":    "Mod4",
	"Super":   "Mod4",
	"S":       "Shift",
	"Shift":   "Shift",
	"C":       "Control",
	"Control": "Control",
	"Ctrl":    "Control",
	"A":       "Mod1",
	"Mod1":    "Mod1",
	"Alt":     "Mod1",
}

// ParseBinding accepts "M-S-q", "C-A-Delete" or the long forms
// "Mod4-Shift-q". The last dash-separated part is the key.
func ParseBinding(s string) (Binding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Binding{}, fmt.Errorf("empty binding")
	}
	parts := strings.Split(s, "-")
	key := parts[len(parts)-1]
	if key == "" {
		return Binding{}, fmt.Errorf("binding %q has no key", s)
	}

	var mods []string
	seen := make(map[string]bool)
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNames[p]
		if !ok {
			return Binding{}, fmt.Errorf("binding %q: unknown modifier %q", s, p)
		}
		if seen[mod] {
			return Binding{}, fmt.Errorf("binding %q: modifier %q repeated", s, p)
		}
		seen[mod] = true
		mods = append(mods, mod)
	}
	return Binding{Mods: mods, Key: key}, nil
}

// ParseButton parses a pointer binding such as "M-1".
func ParseButton(s string) (Binding, uint8, error) {
	b, err := ParseBinding(s)
	if err != nil {
		return Binding{}, 0, err
	}
	var button uint8
	switch b.Key {
	case "1", "2", "3", "4", "5":
		button = b.Key[0] - '0'
	default:
		return Binding{}, 0, fmt.Errorf("binding %q: button must be 1-5", s)
	}
	return b, button, nil
}

// String renders the binding in the form keybind.ParseString expects.
func (b Binding) String() string {
	return strings.Join(append(append([]string{}, b.Mods...), b.Key), "-")
}

// Mask returns the X modifier mask of the binding.
func (b Binding) Mask() uint16 {
	var mask uint16
	for _, m := range b.Mods {
		mask |= modMasks[m]
	}
	return mask
}

var modMasks = map[string]uint16{
	"Shift":   1 << 0,
	"Control": 1 << 2,
	"Mod1":    1 << 3,
	"Mod4":    1 << 6,
}
