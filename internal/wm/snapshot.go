package wm

import "time"

// Snapshot is an immutable view of manager state for readers outside the
// event loop.
type Snapshot struct {
	SessionID string    `json:"session_id"`
	Display   string    `json:"display"`
	Started   time.Time `json:"started"`
	Clients   []Client  `json:"clients"`
	Focused   WindowID  `json:"focused"`
	Dragging  bool      `json:"dragging"`
	DragKind  string    `json:"drag_kind,omitempty"`
	Faults    uint64    `json:"faults"`
}

func (m *Manager) publish() {
	snap := &Snapshot{
		SessionID: m.opts.SessionID,
		Display:   m.display.Name(),
		Started:   m.started,
		Clients:   m.clients.Clients(),
		Focused:   m.focused,
	}
	if st, ok := m.drag.State(); ok {
		snap.Dragging = true
		snap.DragKind = st.Kind.String()
	}
	m.snapshot.Store(snap)

	if pub, ok := m.display.(Publisher); ok {
		pub.PublishClients(m.clients.Children())
	}
}

// Snapshot returns the state as of the last handled event. It is safe to
// call from any goroutine.
func (m *Manager) Snapshot() Snapshot {
	snap := *m.snapshot.Load()
	if m.opts.Faults != nil {
		snap.Faults = m.opts.Faults()
	}
	return snap
}
