package wm

// Operations invoked by key bindings. They run on the event loop goroutine
// from inside the ActionFunc.

// Focused returns the focused child, or 0.
func (m *Manager) Focused() WindowID {
	return m.focused
}

// FocusNext moves focus forward in management order, wrapping around.
func (m *Manager) FocusNext() {
	m.cycleFocus(1)
}

// FocusPrevious moves focus backward in management order, wrapping around.
func (m *Manager) FocusPrevious() {
	m.cycleFocus(-1)
}

func (m *Manager) cycleFocus(step int) {
	children := m.visibleChildren()
	if len(children) == 0 {
		return
	}
	idx := -1
	for i, c := range children {
		if c == m.focused {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.focus(children[0])
		return
	}
	next := (idx + step + len(children)) % len(children)
	m.focus(children[next])
}

// FocusWindow focuses child if it is managed.
func (m *Manager) FocusWindow(child WindowID) {
	m.focus(child)
}

// CloseFocused asks the focused client to close.
func (m *Manager) CloseFocused() {
	if m.focused == 0 {
		return
	}
	if err := m.display.CloseWindow(m.focused); err != nil {
		m.dropInvalid("close", m.focused, err)
	}
}

// Refresh reapplies the layout, typically after a layout parameter changed.
func (m *Manager) Refresh() {
	m.arrange()
	m.dirty = true
}
