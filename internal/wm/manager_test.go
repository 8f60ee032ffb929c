package wm

import (
	"bytes"
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	w1 WindowID = 0x200001
	w2 WindowID = 0x200002
	f1 WindowID = 0x400000 // first frame allocated by fakeDisplay
)

type harness struct {
	d      *fakeDisplay
	layout *fakeLayout
	m      *Manager
	logs   *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		d:      newFakeDisplay(),
		layout: &fakeLayout{target: Rect{X: 0, Y: 0, Width: 804, Height: 604}},
		logs:   &bytes.Buffer{},
	}
	opts := Options{BorderWidth: 2, BorderColor: 0x111111, FocusedBorderColor: 0xff0000, MinWidth: 32, MinHeight: 24}
	h.m = NewManager(h.d, h.layout, nil, superDrag{}, opts, testLogger(h.logs))
	return h
}

func (h *harness) manage(t *testing.T, win WindowID) WindowID {
	t.Helper()
	h.d.addWindow(win, Rect{X: 5, Y: 5, Width: 300, Height: 200})
	h.m.Dispatch(MapRequest{Parent: testRoot, Window: win})
	frame, ok := h.m.Clients().FrameOf(win)
	require.True(t, ok, "window %s should be managed", win)
	return frame
}

func TestMapRequestCreatesFrameThenDestroyRemovesIt(t *testing.T) {
	h := newHarness(t)
	h.d.addWindow(w1, Rect{Width: 300, Height: 200})
	h.d.push(MapRequest{Parent: testRoot, Window: w1})

	require.NoError(t, h.m.Run())

	frame, ok := h.m.Clients().FrameOf(w1)
	require.True(t, ok)
	assert.Equal(t, f1, frame)
	assert.Equal(t, []Client{{Child: w1, Frame: f1}}, h.m.Clients().Clients())

	require.Len(t, h.d.callsFor("reparent", w1), 1)
	assert.Equal(t, f1, h.d.callsFor("reparent", w1)[0].Arg)
	assert.Len(t, h.d.callsFor("save-set", w1), 1)
	assert.Len(t, h.d.callsFor("map", f1), 1)
	assert.Len(t, h.d.callsFor("map", w1), 1)
	assert.Equal(t, []WindowID{w1}, h.layout.mapped)

	// Layout geometry applies to the frame; border is outside the frame size.
	frameCfg := h.d.callsFor("configure", f1)
	require.NotEmpty(t, frameCfg)
	assert.Equal(t, Rect{Width: 800, Height: 600}, frameCfg[len(frameCfg)-1].Rect)
	childCfg := h.d.callsFor("configure", w1)
	require.NotEmpty(t, childCfg)
	assert.Equal(t, Rect{Width: 800, Height: 600}, childCfg[len(childCfg)-1].Rect)

	assert.Equal(t, w1, h.m.Focused())

	h.m.Dispatch(DestroyNotify{Event: f1, Window: w1})
	assert.Equal(t, 0, h.m.Clients().Len())
	assert.Equal(t, []WindowID{w1}, h.layout.destroyed)
	assert.Len(t, h.d.callsFor("destroy", f1), 1)
	assert.Equal(t, WindowID(0), h.m.Focused())
}

func TestRepeatedMapRequestOnlyMaps(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.resetCalls()

	h.m.Dispatch(MapRequest{Parent: frame, Window: w1})

	for _, c := range h.d.calls {
		assert.NotEqual(t, "create-frame", c.Op)
	}
	assert.Empty(t, h.d.callsFor("reparent", w1))
	assert.Len(t, h.d.callsFor("map", frame), 1)
	assert.Len(t, h.d.callsFor("map", w1), 1)
	assert.Equal(t, 1, h.m.Clients().Len())
	assert.Len(t, h.layout.mapped, 1)
}

func TestMapRequestForVanishedWindowIsDropped(t *testing.T) {
	h := newHarness(t)

	h.m.Dispatch(MapRequest{Parent: testRoot, Window: 0xdead})

	assert.Equal(t, 0, h.m.Clients().Len())
	assert.Empty(t, h.d.calls)
	assert.Contains(t, h.logs.String(), "window vanished")
}

func TestClientTableStaysBijective(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 40; i++ {
		win := WindowID(0x300000 + i)
		h.d.addWindow(win, Rect{Width: 100, Height: 100})
		h.d.push(MapRequest{Parent: testRoot, Window: win})
		if i%3 == 0 {
			h.d.push(MapRequest{Parent: testRoot, Window: win})
		}
	}
	require.NoError(t, h.m.Run())

	clients := h.m.Clients().Clients()
	require.Len(t, clients, 40)
	frames := make(map[WindowID]bool)
	for _, c := range clients {
		assert.False(t, frames[c.Frame], "frame %s shared", c.Frame)
		frames[c.Frame] = true
		child, ok := h.m.Clients().ChildOf(c.Frame)
		assert.True(t, ok)
		assert.Equal(t, c.Child, child)
	}
}

func TestMoveDrag(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.geoms[frame] = Geometry{X: 10, Y: 10, Width: 200, Height: 150, Border: 2}
	h.d.resetCalls()

	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 1, State: modSuper, RootX: 100, RootY: 100})
	require.True(t, h.m.Drag().Active())
	assert.Len(t, h.d.callsFor("raise", frame), 1)

	h.m.Dispatch(MotionNotify{Window: testRoot, Child: frame, State: modSuper, RootX: 130, RootY: 115})

	cfg := h.d.callsFor("configure", frame)
	require.Len(t, cfg, 1)
	assert.Equal(t, Rect{X: 40, Y: 25, Width: 200, Height: 150}, cfg[0].Rect)
	assert.Empty(t, h.d.callsFor("configure", w1), "moving does not resize the child")

	h.m.Dispatch(ButtonEvent{Window: testRoot, Button: 1, State: modSuper, RootX: 130, RootY: 115, Release: true})
	assert.False(t, h.m.Drag().Active())
	assert.Equal(t, []WindowID{w1}, h.layout.floated)

	// Release while idle is harmless.
	h.m.Dispatch(ButtonEvent{Window: testRoot, Button: 1, Release: true})
	assert.False(t, h.m.Drag().Active())
}

func TestMotionBurstIsCompressed(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.geoms[frame] = Geometry{X: 0, Y: 0, Width: 200, Height: 150}
	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 1, State: modSuper, RootX: 50, RootY: 50})
	h.d.resetCalls()

	const n = 25
	for i := 1; i <= n; i++ {
		h.d.push(MotionNotify{Window: testRoot, Child: frame, RootX: 50 + i, RootY: 50 + 2*i})
	}
	h.d.push(ButtonEvent{Window: testRoot, Button: 1, State: modSuper, RootX: 50 + n, RootY: 50 + 2*n, Release: true})

	require.NoError(t, h.m.Run())

	cfg := h.d.callsFor("configure", frame)
	require.Len(t, cfg, 1)
	assert.Equal(t, Rect{X: n, Y: 2 * n, Width: 200, Height: 150}, cfg[0].Rect)
	assert.False(t, h.m.Drag().Active(), "event after the burst is still dispatched")
}

func TestMotionForOtherWindowIsNotCompressed(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.geoms[frame] = Geometry{Width: 200, Height: 150}
	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 1, State: modSuper, RootX: 0, RootY: 0})
	h.d.resetCalls()

	h.d.push(
		MotionNotify{Window: testRoot, RootX: 1, RootY: 1},
		MotionNotify{Window: testRoot, RootX: 2, RootY: 2},
		MotionNotify{Window: 0x999, RootX: 50, RootY: 50},
		MotionNotify{Window: testRoot, RootX: 3, RootY: 3},
	)
	require.NoError(t, h.m.Run())

	cfg := h.d.callsFor("configure", frame)
	require.Len(t, cfg, 3)
	assert.Equal(t, Rect{X: 2, Y: 2, Width: 200, Height: 150}, cfg[0].Rect)
	assert.Equal(t, Rect{X: 50, Y: 50, Width: 200, Height: 150}, cfg[1].Rect)
	assert.Equal(t, Rect{X: 3, Y: 3, Width: 200, Height: 150}, cfg[2].Rect)
}

func TestResizeDragNeverBelowMinimum(t *testing.T) {
	for _, delta := range []int{-10, -180, -1000, -100000} {
		h := newHarness(t)
		frame := h.manage(t, w1)
		h.d.geoms[frame] = Geometry{X: 10, Y: 10, Width: 200, Height: 150}
		h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 3, State: modSuper, RootX: 400, RootY: 400})
		h.d.resetCalls()

		h.m.Dispatch(MotionNotify{Window: testRoot, RootX: 400 + delta, RootY: 400 + delta})

		cfg := h.d.callsFor("configure", frame)
		require.Len(t, cfg, 1)
		assert.GreaterOrEqual(t, cfg[0].Rect.Width, 32)
		assert.GreaterOrEqual(t, cfg[0].Rect.Height, 24)
		assert.Equal(t, 10, cfg[0].Rect.X)

		child := h.d.callsFor("configure", w1)
		require.Len(t, child, 1)
		assert.Equal(t, cfg[0].Rect.Width, child[0].Rect.Width)
		assert.Equal(t, cfg[0].Rect.Height, child[0].Rect.Height)
	}
}

func TestDestroyDuringDragEndsDrag(t *testing.T) {
	tests := []struct {
		name    string
		destroy func(frame WindowID) DestroyNotify
	}{
		{"child destroyed", func(frame WindowID) DestroyNotify { return DestroyNotify{Event: frame, Window: w1} }},
		{"frame destroyed", func(frame WindowID) DestroyNotify { return DestroyNotify{Event: testRoot, Window: frame} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			frame := h.manage(t, w1)
			h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 1, State: modSuper, RootX: 10, RootY: 10})
			require.True(t, h.m.Drag().Active())

			h.m.Dispatch(tt.destroy(frame))
			assert.False(t, h.m.Drag().Active())
			assert.Equal(t, 0, h.m.Clients().Len())

			h.d.resetCalls()
			h.m.Dispatch(MotionNotify{Window: testRoot, RootX: 50, RootY: 50})
			assert.Empty(t, h.d.calls)
		})
	}
}

func TestEventsForUnmanagedWindowsAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.manage(t, w1)
	h.d.resetCalls()

	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: 0x777, Button: 1, State: modSuper})
	h.m.Dispatch(MotionNotify{Window: testRoot, RootX: 5, RootY: 5})
	h.m.Dispatch(DestroyNotify{Event: testRoot, Window: 0x777})

	assert.False(t, h.m.Drag().Active())
	assert.Empty(t, h.d.calls)
	assert.Equal(t, 1, h.m.Clients().Len())
}

func TestButtonWithoutDragBindingOnlyFocuses(t *testing.T) {
	h := newHarness(t)
	frame1 := h.manage(t, w1)
	h.manage(t, w2)
	require.Equal(t, w2, h.m.Focused())

	h.m.Dispatch(ButtonEvent{Window: frame1, Button: 2, State: modSuper})

	assert.False(t, h.m.Drag().Active())
	assert.Equal(t, w1, h.m.Focused())
}

func TestSteadyStateFaultDoesNotInterruptLoop(t *testing.T) {
	h := newHarness(t)
	p := NewPolicy(testLogger(h.logs))
	require.NoError(t, p.TakeOwnership(h.d))
	h.m.opts.Faults = p.Faults

	h.d.addWindow(w1, Rect{Width: 300, Height: 200})
	h.d.push(
		Fault{Code: FaultWindow, Name: "Window", Request: "ConfigureWindow", MajorOpcode: 12, Resource: 0x5000ab},
		MapRequest{Parent: testRoot, Window: w1},
	)

	require.NoError(t, h.m.Run())

	assert.Equal(t, 1, h.m.Clients().Len())
	out := h.logs.String()
	assert.Contains(t, out, "request=ConfigureWindow")
	assert.Contains(t, out, "resource=0x5000ab")
	assert.Equal(t, uint64(1), h.m.Snapshot().Faults)
}

func TestConfigureRequestUnmanagedPassThrough(t *testing.T) {
	h := newHarness(t)
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowWidth | xproto.ConfigWindowStackMode)

	h.m.Dispatch(ConfigureRequest{Parent: testRoot, Window: 0x500, ValueMask: mask, X: -5, Width: 640, StackMode: xproto.StackModeAbove})

	raw := h.d.callsFor("configure-raw", 0x500)
	require.Len(t, raw, 1)
	assert.Equal(t, mask, raw[0].Mask)
	assert.Equal(t, []uint32{uint32(0xfffffffb), 640, xproto.StackModeAbove}, raw[0].Values)
}

func TestConfigureRequestManagedGoesToFrame(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.resetCalls()
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)

	h.m.Dispatch(ConfigureRequest{Parent: frame, Window: w1, ValueMask: mask, X: 20, Y: 30, Width: 400, Height: 300, BorderWidth: 5})

	fr := h.d.callsFor("configure-raw", frame)
	require.Len(t, fr, 1)
	assert.Equal(t, []uint32{20, 30, 400, 300}, fr[0].Values)
	ch := h.d.callsFor("configure-raw", w1)
	require.Len(t, ch, 1)
	assert.Equal(t, uint16(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight), ch[0].Mask)
	assert.Equal(t, []uint32{400, 300}, ch[0].Values)
}

func TestUnmapNotifyHidesFrameAndTellsLayout(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)
	h.d.resetCalls()

	h.m.Dispatch(UnmapNotify{Event: frame, Window: w1})

	assert.Len(t, h.d.callsFor("unmap", frame), 1)
	assert.Equal(t, []WindowID{w1}, h.layout.unmapped)
	assert.Equal(t, 1, h.m.Clients().Len(), "unmap does not unmanage")
}

func TestUnknownEventIsIgnored(t *testing.T) {
	h := newHarness(t)
	assert.NotPanics(t, func() { h.m.Dispatch(UnknownEvent{Name: "Expose"}) })
	assert.Empty(t, h.d.calls)
	assert.Contains(t, h.logs.String(), "event=Expose")
}

type panickyLayout struct{ fakeLayout }

func (l *panickyLayout) WindowMapped(WindowID) Rect { panic("boom") }

func TestHandlerPanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.m.layout = &panickyLayout{}
	h.d.addWindow(w1, Rect{Width: 10, Height: 10})
	h.d.addWindow(w2, Rect{Width: 10, Height: 10})
	h.d.push(MapRequest{Parent: testRoot, Window: w1}, MapRequest{Parent: testRoot, Window: w2})

	require.NoError(t, h.m.Run())
	assert.Contains(t, h.logs.String(), "event handler panicked")
	assert.Equal(t, 2, h.m.Clients().Len(), "later events still processed")
}

func TestKeyEventsGoToResolver(t *testing.T) {
	h := newHarness(t)
	h.m.keys = keyTable{24: {Name: "kill"}, 36: {Command: "kitty"}}
	var got []Action
	h.m.OnAction(func(a Action) { got = append(got, a) })

	h.m.Dispatch(KeyEvent{Code: 24, State: modSuper | modShift})
	h.m.Dispatch(KeyEvent{Code: 24, Release: true})
	h.m.Dispatch(KeyEvent{Code: 99})
	h.m.Dispatch(KeyEvent{Code: 36})

	assert.Equal(t, []Action{{Name: "kill"}, {Command: "kitty"}}, got)
}

func TestFocusCyclingAndBorders(t *testing.T) {
	h := newHarness(t)
	frame1 := h.manage(t, w1)
	frame2 := h.manage(t, w2)
	require.Equal(t, w2, h.m.Focused())
	h.d.resetCalls()

	h.m.FocusNext()
	assert.Equal(t, w1, h.m.Focused())
	b1 := h.d.callsFor("border", frame1)
	b2 := h.d.callsFor("border", frame2)
	require.Len(t, b1, 1)
	require.Len(t, b2, 1)
	assert.Equal(t, uint32(0xff0000), b1[0].Color)
	assert.Equal(t, uint32(0x111111), b2[0].Color)

	h.m.FocusPrevious()
	assert.Equal(t, w2, h.m.Focused())

	h.m.CloseFocused()
	assert.Len(t, h.d.callsFor("close", w2), 1)
}

func TestSnapshotTracksState(t *testing.T) {
	h := newHarness(t)
	snap := h.m.Snapshot()
	assert.Empty(t, snap.Clients)
	assert.Equal(t, ":test", snap.Display)

	frame := h.manage(t, w1)
	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame, Button: 3, State: modSuper})

	snap = h.m.Snapshot()
	assert.Equal(t, []Client{{Child: w1, Frame: frame}}, snap.Clients)
	assert.Equal(t, w1, snap.Focused)
	assert.True(t, snap.Dragging)
	assert.Equal(t, "resize", snap.DragKind)
}

// arrangingLayout re-tiles every window to a column.
type arrangingLayout struct {
	fakeLayout
	order []WindowID
}

func (l *arrangingLayout) WindowMapped(child WindowID) Rect {
	l.order = append(l.order, child)
	return Rect{Width: 100, Height: 100}
}

func (l *arrangingLayout) Arrange() []Placement {
	out := []Placement{{Window: 0xbad, Bounds: Rect{Width: 9, Height: 9}}}
	for i, w := range l.order {
		out = append(out, Placement{Window: w, Bounds: Rect{Y: i * 100, Width: 104, Height: 104}})
	}
	return out
}

func TestArrangeOnlyTouchesManagedWindows(t *testing.T) {
	h := newHarness(t)
	h.m.layout = &arrangingLayout{}
	frame1 := h.manage(t, w1)
	frame2 := h.manage(t, w2)

	last := func(win WindowID) Rect {
		cfg := h.d.callsFor("configure", win)
		require.NotEmpty(t, cfg)
		return cfg[len(cfg)-1].Rect
	}
	assert.Equal(t, Rect{Y: 0, Width: 100, Height: 100}, last(frame1))
	assert.Equal(t, Rect{Y: 100, Width: 100, Height: 100}, last(frame2))
	assert.Empty(t, h.d.callsFor("configure", 0xbad))
}

// floatingLayout drops floated windows from the column.
type floatingLayout struct {
	arrangingLayout
}

func (l *floatingLayout) WindowFloated(child WindowID) {
	l.fakeLayout.WindowFloated(child)
	l.order = slices.DeleteFunc(l.order, func(w WindowID) bool { return w == child })
}

func TestFloatingDragRetilesRemainingWindows(t *testing.T) {
	h := newHarness(t)
	fl := &floatingLayout{}
	h.m.layout = fl
	frame1 := h.manage(t, w1)
	frame2 := h.manage(t, w2)
	h.d.geoms[frame1] = Geometry{Width: 100, Height: 100}

	h.m.Dispatch(ButtonEvent{Window: testRoot, Child: frame1, Button: 1, State: modSuper, RootX: 10, RootY: 10})
	h.m.Dispatch(MotionNotify{Window: testRoot, Child: frame1, State: modSuper, RootX: 60, RootY: 60})
	h.d.resetCalls()

	h.m.Dispatch(ButtonEvent{Window: testRoot, Button: 1, State: modSuper, RootX: 60, RootY: 60, Release: true})

	assert.Equal(t, []WindowID{w1}, fl.floated)
	cfg := h.d.callsFor("configure", frame2)
	require.Len(t, cfg, 1, "the remaining tiled window moves into the freed slot")
	assert.Equal(t, Rect{Y: 0, Width: 100, Height: 100}, cfg[0].Rect)
	assert.Empty(t, h.d.callsFor("configure", frame1), "the floated window keeps its dragged position")
}

func TestSelfUnmapMovesFocusToVisibleClient(t *testing.T) {
	h := newHarness(t)
	h.manage(t, w1)
	frame2 := h.manage(t, w2)
	require.Equal(t, w2, h.m.Focused())
	h.d.resetCalls()

	h.m.Dispatch(UnmapNotify{Event: frame2, Window: w2})

	assert.Equal(t, w1, h.m.Focused())
	assert.Equal(t, w1, h.m.Snapshot().Focused)
	b2 := h.d.callsFor("border", frame2)
	require.NotEmpty(t, b2)
	assert.Equal(t, uint32(0x111111), b2[len(b2)-1].Color)

	h.m.FocusNext()
	assert.Equal(t, w1, h.m.Focused(), "hidden clients are skipped when cycling")
	h.m.FocusWindow(w2)
	assert.Equal(t, w1, h.m.Focused())

	h.m.Dispatch(MapRequest{Parent: frame2, Window: w2})
	assert.Equal(t, w2, h.m.Focused(), "a restored client takes focus again")
}

func TestSelfUnmapOfLastClientClearsFocus(t *testing.T) {
	h := newHarness(t)
	frame := h.manage(t, w1)

	h.m.Dispatch(UnmapNotify{Event: frame, Window: w1})

	assert.Equal(t, WindowID(0), h.m.Focused())
	assert.Equal(t, WindowID(0), h.m.Snapshot().Focused)
	h.m.CloseFocused()
	assert.Empty(t, h.d.callsFor("close", w1))
}

func TestStopEndsLoopBeforeNextEvent(t *testing.T) {
	h := newHarness(t)
	h.d.addWindow(w1, Rect{Width: 10, Height: 10})
	h.d.push(MapRequest{Parent: testRoot, Window: w1})

	h.m.Stop()
	require.NoError(t, h.m.Run())
	assert.Equal(t, 0, h.m.Clients().Len())
}

func TestHandlerFailureDuringShutdownIsQuiet(t *testing.T) {
	h := newHarness(t)
	h.m.layout = &panickyLayout{}
	h.d.addWindow(w1, Rect{Width: 10, Height: 10})

	h.m.Stop()
	assert.NotPanics(t, func() { h.m.Dispatch(MapRequest{Parent: testRoot, Window: w1}) })
	assert.NotContains(t, h.logs.String(), "event handler panicked")
}
