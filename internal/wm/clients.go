package wm

import "fmt"

// ClientTable is the bijective mapping between managed children and their
// frames. It is owned by the event loop and is not safe for concurrent use.
type ClientTable struct {
	byChild map[WindowID]WindowID
	byFrame map[WindowID]WindowID
	order   []WindowID // children, in the order they were managed
}

func NewClientTable() *ClientTable {
	return &ClientTable{
		byChild: make(map[WindowID]WindowID),
		byFrame: make(map[WindowID]WindowID),
	}
}

// Insert records child as decorated by frame. Neither id may already be
// present on either side of the table.
func (t *ClientTable) Insert(child, frame WindowID) error {
	if _, ok := t.byChild[child]; ok {
		return fmt.Errorf("insert child %s: %w", child, ErrDuplicateClient)
	}
	if _, ok := t.byFrame[frame]; ok {
		return fmt.Errorf("insert frame %s: %w", frame, ErrDuplicateClient)
	}
	if _, ok := t.byFrame[child]; ok {
		return fmt.Errorf("insert child %s: already used as a frame: %w", child, ErrDuplicateClient)
	}
	if _, ok := t.byChild[frame]; ok {
		return fmt.Errorf("insert frame %s: already managed as a child: %w", frame, ErrDuplicateClient)
	}
	t.byChild[child] = frame
	t.byFrame[frame] = child
	t.order = append(t.order, child)
	return nil
}

// FrameOf looks a child up.
func (t *ClientTable) FrameOf(child WindowID) (WindowID, bool) {
	frame, ok := t.byChild[child]
	return frame, ok
}

// ChildOf looks a frame up.
func (t *ClientTable) ChildOf(frame WindowID) (WindowID, bool) {
	child, ok := t.byFrame[frame]
	return child, ok
}

// Resolve accepts either side of an entry and returns the full entry.
func (t *ClientTable) Resolve(win WindowID) (Client, bool) {
	if frame, ok := t.byChild[win]; ok {
		return Client{Child: win, Frame: frame}, true
	}
	if child, ok := t.byFrame[win]; ok {
		return Client{Child: child, Frame: win}, true
	}
	return Client{}, false
}

// RemoveByChild deletes the entry for child and returns its frame.
func (t *ClientTable) RemoveByChild(child WindowID) (WindowID, bool) {
	frame, ok := t.byChild[child]
	if !ok {
		return 0, false
	}
	t.remove(child, frame)
	return frame, true
}

// RemoveByFrame deletes the entry for frame and returns its child.
func (t *ClientTable) RemoveByFrame(frame WindowID) (WindowID, bool) {
	child, ok := t.byFrame[frame]
	if !ok {
		return 0, false
	}
	t.remove(child, frame)
	return child, true
}

func (t *ClientTable) remove(child, frame WindowID) {
	delete(t.byChild, child)
	delete(t.byFrame, frame)
	for i, c := range t.order {
		if c == child {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *ClientTable) Len() int {
	return len(t.byChild)
}

// Clients returns a copy of all entries in management order.
func (t *ClientTable) Clients() []Client {
	out := make([]Client, 0, len(t.order))
	for _, child := range t.order {
		out = append(out, Client{Child: child, Frame: t.byChild[child]})
	}
	return out
}

// Children returns the managed children in management order.
func (t *ClientTable) Children() []WindowID {
	out := make([]WindowID, len(t.order))
	copy(out, t.order)
	return out
}
