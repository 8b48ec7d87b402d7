package dispatcher

import (
	"testing"
	"time"

	"synergyclient/internal/cursor"
	"synergyclient/internal/keycodes"
	"synergyclient/internal/protocol"
)

type event struct {
	op   string
	args []int32
}

type fakeDevice struct {
	events []event
}

func (f *fakeDevice) KeyDown(c keycodes.EvCode) error {
	f.events = append(f.events, event{"keydown", []int32{int32(c)}})
	return nil
}
func (f *fakeDevice) KeyUp(c keycodes.EvCode) error {
	f.events = append(f.events, event{"keyup", []int32{int32(c)}})
	return nil
}
func (f *fakeDevice) KeyRepeat(c keycodes.EvCode) error {
	f.events = append(f.events, event{"keyrepeat", []int32{int32(c)}})
	return nil
}
func (f *fakeDevice) ButtonDown(c keycodes.EvCode) error {
	f.events = append(f.events, event{"btndown", []int32{int32(c)}})
	return nil
}
func (f *fakeDevice) ButtonUp(c keycodes.EvCode) error {
	f.events = append(f.events, event{"btnup", []int32{int32(c)}})
	return nil
}
func (f *fakeDevice) MoveRelative(dx, dy int32) error {
	f.events = append(f.events, event{"rel", []int32{dx, dy}})
	return nil
}
func (f *fakeDevice) MoveAbsolute(x, y int32) error {
	f.events = append(f.events, event{"abs", []int32{x, y}})
	return nil
}
func (f *fakeDevice) Wheel(vertical bool, ticks int32) error {
	v := int32(0)
	if vertical {
		v = 1
	}
	f.events = append(f.events, event{"wheel", []int32{v, ticks}})
	return nil
}
func (f *fakeDevice) ReleaseAll() error {
	f.events = append(f.events, event{"releaseall", nil})
	return nil
}

func newTestDispatcher(cfg Config) (*Dispatcher, *fakeDevice, *[]protocol.Message) {
	dev := &fakeDevice{}
	ctx := cursor.NewContext(1920, 1080)
	var sent []protocol.Message
	d := New(dev, ctx, cfg, func(m protocol.Message) error {
		sent = append(sent, m)
		return nil
	})
	return d, dev, &sent
}

func TestCursorEnterActivatesAndSnapsPosition(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.CursorEnterMsg{X: 5, Y: 6, Seq: 1, ModMask: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.State() != StateActive {
		t.Fatal("expected Active state after CINN")
	}
	x, y := d.ctx.Position()
	if x != 5 || y != 6 {
		t.Fatalf("got (%d,%d), want (5,6)", x, y)
	}
	// Four modifier resync calls (shift/ctrl/alt/meta), all releases since
	// mask is 0.
	if len(dev.events) != 4 {
		t.Fatalf("expected 4 modifier resync events, got %d", len(dev.events))
	}
}

func TestCursorLeaveReleasesAllAndDeactivates(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	d.state = StateActive
	if err := d.Handle(protocol.CursorLeaveMsg{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.State() != StateConnected {
		t.Fatal("expected Connected state after COUT")
	}
	if len(dev.events) != 1 || dev.events[0].op != "releaseall" {
		t.Fatalf("expected a single releaseall event, got %+v", dev.events)
	}
}

func TestMouseMoveIgnoredBeforeActive(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.MouseMoveAbsMsg{X: 100, Y: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 0 {
		t.Fatalf("expected no device events before CINN, got %+v", dev.events)
	}
}

func TestMouseMoveRelativeModeEmitsDelta(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	d.Handle(protocol.CursorEnterMsg{X: 100, Y: 100})
	dev.events = nil // drop the modifier resync noise

	if err := d.Handle(protocol.MouseMoveAbsMsg{X: 110, Y: 90}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 1 || dev.events[0].op != "rel" {
		t.Fatalf("expected one relative move event, got %+v", dev.events)
	}
	if dev.events[0].args[0] != 10 || dev.events[0].args[1] != -10 {
		t.Fatalf("got delta %v, want (10,-10)", dev.events[0].args)
	}
}

func TestMouseMoveAbsoluteModeUsesDeviceAbsolute(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{AbsoluteMouse: true})
	d.Handle(protocol.CursorEnterMsg{X: 0, Y: 0})
	dev.events = nil

	if err := d.Handle(protocol.MouseMoveAbsMsg{X: 50, Y: 60}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 1 || dev.events[0].op != "abs" {
		t.Fatalf("expected one absolute move event, got %+v", dev.events)
	}
}

func TestMouseMoveThrottleCoalescesColdBurstToLastTarget(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{MoveThrottle: time.Hour})
	d.Handle(protocol.CursorEnterMsg{X: 0, Y: 0})
	dev.events = nil

	// A 3-frame burst, the first of which opens a cold throttle window
	// (lastMv is still its zero value). Trailing-edge coalescing means
	// even this first frame must not be emitted on its own call — the
	// whole burst collapses to one pending target.
	d.Handle(protocol.MouseMoveAbsMsg{X: 100, Y: 100})
	d.Handle(protocol.MouseMoveAbsMsg{X: 110, Y: 110})
	d.Handle(protocol.MouseMoveAbsMsg{X: 120, Y: 120})
	if len(dev.events) != 0 {
		t.Fatalf("expected the cold burst to emit nothing yet, got %+v", dev.events)
	}

	// A non-move message flushes the pending target (spec.md §4.6: "emit
	// it when the next move arrives or on any non-move event").
	if err := d.Handle(protocol.KeepAliveMsg{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 1 {
		t.Fatalf("expected exactly one flushed device event, got %+v", dev.events)
	}
	if dev.events[0].op != "rel" {
		t.Fatalf("expected the flushed event to be a relative move, got %+v", dev.events[0])
	}
	// Logical position after CINN is (0,0); the burst's last-wins target
	// is (120,120), so the flushed delta must be (120,120) — not the
	// (100,100) delta the first burst frame alone would have produced.
	if dev.events[0].args[0] != 120 || dev.events[0].args[1] != 120 {
		t.Fatalf("got delta %v, want (120,120) confirming last-wins coalescing", dev.events[0].args)
	}
}

func TestPeriodicResyncMoveStillEmitsRelativeDelta(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{PosResyncEveryMove: 2})
	d.Handle(protocol.CursorEnterMsg{X: 0, Y: 0})
	dev.events = nil

	d.Handle(protocol.MouseMoveAbsMsg{X: 5, Y: 5})
	d.Handle(protocol.MouseMoveAbsMsg{X: 10, Y: 10})
	if len(dev.events) != 2 {
		t.Fatalf("expected one rel move then one rel move on the resync boundary, got %+v", dev.events)
	}
	if dev.events[1].op != "rel" {
		t.Fatalf("resync move should still be a relative move on the wire-level API, got %+v", dev.events[1])
	}
}

func TestMouseWheelTicksFromNotchValue(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.MouseWheelMsg{X: 0, Y: 240}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 1 || dev.events[0].op != "wheel" || dev.events[0].args[1] != 2 {
		t.Fatalf("got %+v, want 2 vertical ticks", dev.events)
	}
}

func TestMouseWheelSubNotchStillTicksOnce(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.MouseWheelMsg{X: 0, Y: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 1 || dev.events[0].args[1] != 1 {
		t.Fatalf("got %+v, want a single tick for a sub-notch positive value", dev.events)
	}
}

func TestKeyDownUnmappedIDSuppressesMatchingKeyUp(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.KeyDownMsg{ID: 0xDEAD}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 0 {
		t.Fatalf("expected no device event for an unmapped key, got %+v", dev.events)
	}
	if err := d.Handle(protocol.KeyUpMsg{ID: 0xDEAD}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 0 {
		t.Fatalf("expected no device event for the matching key up either, got %+v", dev.events)
	}
}

func TestKeyRepeatReleasesThenPresses(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.KeyRepeatMsg{ID: 0x61, Count: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 2 || dev.events[0].op != "keyup" || dev.events[1].op != "keydown" {
		t.Fatalf("got %+v, want [keyup, keydown]", dev.events)
	}
}

func TestKeepAliveIsEchoed(t *testing.T) {
	d, _, sent := newTestDispatcher(Config{})
	if err := d.Handle(protocol.KeepAliveMsg{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one echoed message, got %d", len(*sent))
	}
	if _, ok := (*sent)[0].(protocol.KeepAliveMsg); !ok {
		t.Fatalf("expected KeepAliveMsg echo, got %T", (*sent)[0])
	}
}

func TestErrorMessageTerminatesSession(t *testing.T) {
	d, _, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.ErrorMsg{Code: protocol.OpErrBad}); err == nil {
		t.Fatal("expected error message to return a non-nil error")
	}
}

func TestOpaqueMessageIsIgnored(t *testing.T) {
	d, dev, _ := newTestDispatcher(Config{})
	if err := d.Handle(protocol.OpaqueMessage{Code: protocol.OpCode{'Z', 'Z', 'Z', 'Z'}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.events) != 0 {
		t.Fatalf("expected no device event for an opaque message, got %+v", dev.events)
	}
}
