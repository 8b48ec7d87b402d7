// Package dispatcher turns decoded protocol.Message values into virtual
// device operations. Grounded on
// original_source/packages/pynergy_client/src/pynergy_client/client/handlers.py's
// PynergyHandler, but restructured per spec.md §9: the Python original
// builds its handler map by reflecting over on_* methods at runtime
// (inspect.getmembers); this client instead uses one exhaustive Go switch
// over the message's concrete type, so an unhandled opcode is a compile-time
// gap rather than a silent no-op discovered at runtime.
package dispatcher

import (
	"fmt"
	"time"

	"synergyclient/internal/cursor"
	"synergyclient/internal/keycodes"
	"synergyclient/internal/protocol"
)

// Device is the subset of *device.VirtualDevice the dispatcher drives. It is
// an interface so tests can exercise dispatch logic without a real uinput
// node.
type Device interface {
	KeyDown(keycodes.EvCode) error
	KeyUp(keycodes.EvCode) error
	KeyRepeat(keycodes.EvCode) error
	ButtonDown(keycodes.EvCode) error
	ButtonUp(keycodes.EvCode) error
	MoveRelative(dx, dy int32) error
	MoveAbsolute(x, y int32) error
	Wheel(vertical bool, ticks int32) error
	ReleaseAll() error
}

// Config governs the per-session policy knobs spec.md §4.6 and
// SPEC_FULL.md's configuration surface expose: whether mouse motion is
// re-injected as absolute or relative events, the move-coalescing throttle,
// and how many relative-mode moves pass between anchor resyncs. The anchor
// always comes from the cursor context, which tracks the server's reported
// targets and never reads the real cursor back.
type Config struct {
	AbsoluteMouse      bool
	MoveThrottle       time.Duration
	PosResyncEveryMove int // 0 disables periodic resync
}

// State is the session-lifecycle gate spec.md §4.7 describes: most
// messages are only meaningful once the server has placed this screen
// active via CINN.
type State int

const (
	StateConnected State = iota
	StateActive
)

// Dispatcher holds the mutable per-session state a stream of messages folds
// over: which screen state we're in, the cursor context, and the move
// counter used for periodic resync.
type Dispatcher struct {
	dev    Device
	ctx    *cursor.Context
	cfg    Config
	send   func(protocol.Message) error
	state  State
	moveN  int
	lastMv time.Time

	// pendingMove holds the most recent DMMV target dropped by the move
	// throttle, per spec.md §4.6/§5: the throttle coalesces a burst down
	// to one emitted move with "last wins" semantics, it never silently
	// discards a target.
	pendingMove bool
	pendingX    int32
	pendingY    int32

	unmapped map[uint16]bool
}

// New builds a Dispatcher. send is used for replies the dispatcher itself
// originates (CALV echo, DINF in answer to QINF).
func New(dev Device, ctx *cursor.Context, cfg Config, send func(protocol.Message) error) *Dispatcher {
	return &Dispatcher{
		dev:      dev,
		ctx:      ctx,
		cfg:      cfg,
		send:     send,
		unmapped: make(map[uint16]bool),
	}
}

// State reports the current screen-active state.
func (d *Dispatcher) State() State { return d.state }

// Handle dispatches one decoded message. Returning an error means the
// session should terminate (spec.md §4.8: EBAD/EBSY/EUNK/EICV are fatal);
// every other failure is logged by the caller and dispatch continues.
func (d *Dispatcher) Handle(msg protocol.Message) error {
	// A throttled DMMV target must be emitted "on any non-move event"
	// (spec.md §4.6), so every handler but DMMV itself flushes it first.
	if _, isMove := msg.(protocol.MouseMoveAbsMsg); !isMove {
		if err := d.flushPendingMove(); err != nil {
			return err
		}
	}

	switch m := msg.(type) {
	case protocol.QueryInfoMsg:
		return d.onQueryInfo()
	case protocol.InfoAckMsg:
		return nil
	case protocol.KeepAliveMsg:
		return d.send(protocol.KeepAliveMsg{})
	case protocol.NoOpMsg:
		return nil
	case protocol.CursorEnterMsg:
		return d.onCursorEnter(m)
	case protocol.CursorLeaveMsg:
		return d.onCursorLeave()
	case protocol.ResetOptionsMsg:
		return nil
	case protocol.MouseMoveAbsMsg:
		return d.onMouseMove(int32(m.X), int32(m.Y))
	case protocol.MouseMoveRelMsg:
		// DMRM is rare on the wire (most servers always send absolute
		// DMMV targets) but some do send true deltas; pass them straight
		// through without touching the logical position, since we have no
		// absolute target to reconcile against.
		return d.dev.MoveRelative(int32(m.DX), int32(m.DY))
	case protocol.MouseDownMsg:
		return d.onMouseButton(m.Button, true)
	case protocol.MouseUpMsg:
		return d.onMouseButton(m.Button, false)
	case protocol.MouseWheelMsg:
		return d.onMouseWheel(m)
	case protocol.KeyDownMsg:
		return d.onKeyDown(m)
	case protocol.KeyUpMsg:
		return d.onKeyUp(m)
	case protocol.KeyRepeatMsg:
		return d.onKeyRepeat(m)
	case protocol.SetOptionsMsg:
		return nil
	case protocol.ClipboardMsg:
		// Clipboard sync is out of scope per spec.md's non-goals; accept
		// and ignore so the server doesn't treat it as a protocol fault.
		return nil
	case protocol.ErrorMsg:
		return fmt.Errorf("dispatcher: server sent terminal error %s", m.Opcode())
	case protocol.IncompatibleMsg:
		return fmt.Errorf("dispatcher: server reports incompatible version %d.%d", m.Major, m.Minor)
	case protocol.OpaqueMessage:
		// Unknown opcode: never fatal (spec.md §4.2). Nothing to do.
		return nil
	default:
		return fmt.Errorf("dispatcher: no handler registered for %T", msg)
	}
}

// onQueryInfo answers QINF with this screen's configured geometry,
// mirroring original_source's on_qinf (update_screen_info then reply with
// DInfoMsg). Per spec.md §3 the screen descriptor is "built once from
// configuration," with mouse_x/mouse_y defaulting to 0,0 — it is not the
// dispatcher's own logical cursor position, which `cursor.NewContext` seeds
// to the screen center purely so relative-mode math has a sane starting
// point before the first CINN. Reporting that center seed here would make
// the DINF reply (sent during the handshake, before any CINN) carry a
// mouse position the server never asked for and no real cursor has.
func (d *Dispatcher) onQueryInfo() error {
	w, h := d.ctx.Size()
	return d.send(protocol.ScreenInfo{
		X: 0, Y: 0,
		Width: uint16(w), Height: uint16(h),
		WarpSize: 0,
		MouseX:   0, MouseY: 0,
	})
}

// onCursorEnter handles CINN. Per original_source's handlers.py on_cinn,
// entering a screen (a) snaps the logical cursor to the entry coordinate,
// (b) flips the session into the Active state so motion/key handlers start
// acting, and (c) resyncs modifier state so a Shift/Ctrl/Alt held down
// before the cursor arrived isn't silently dropped — the modifier resync is
// a feature supplemented from the Python original that spec.md's
// distillation omitted (see SPEC_FULL.md §5).
func (d *Dispatcher) onCursorEnter(m protocol.CursorEnterMsg) error {
	d.ctx.EnterAt(int32(m.X), int32(m.Y))
	d.state = StateActive
	d.moveN = 0
	return d.resyncModifiers(keycodes.ModifierMask(m.ModMask))
}

// resyncModifiers presses/releases LeftShift/LeftCtrl/LeftAlt/LeftMeta to
// match the mask CINN carried, so a modifier already held on the server's
// side before the cursor crossed screens is reflected locally.
func (d *Dispatcher) resyncModifiers(mask keycodes.ModifierMask) error {
	pairs := []struct {
		bit  keycodes.ModifierMask
		code keycodes.EvCode
	}{
		{keycodes.ModShift, keycodes.KeyLeftShift},
		{keycodes.ModCtrl, keycodes.KeyLeftCtrl},
		{keycodes.ModAlt, keycodes.KeyLeftAlt},
		{keycodes.ModMeta, keycodes.KeyLeftMeta},
	}
	for _, p := range pairs {
		var err error
		if mask&p.bit != 0 {
			err = d.dev.KeyDown(p.code)
		} else {
			err = d.dev.KeyUp(p.code)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// onCursorLeave handles COUT: release every held key/button so the local
// keyboard never ends up with a stuck modifier once focus moves away
// (spec.md §4.6/§8).
func (d *Dispatcher) onCursorLeave() error {
	d.state = StateConnected
	return d.dev.ReleaseAll()
}

// onMouseMove implements trailing-edge throttle coalescing: a burst of
// targets arriving within one throttle window, including the very first one
// after an idle period, is never emitted on the call that receives it.
// Instead each call only buffers its target as pendingMove, and a window
// opening (throttleAllows returning true) flushes whatever the *previous*
// window coalesced to before the new target starts buffering for the next
// one. spec.md §5: "the most recently received target is the one emitted
// when the throttle opens" — it is the prior window's last-wins target that
// goes out at that point, not the new call's own target. Any non-move
// message (Handle's top-of-function flush) or session shutdown still
// flushes whatever is left pending.
//
// With throttling disabled (MoveThrottle<=0) there is no window to defer
// across, so every target is buffered and flushed in the same call.
func (d *Dispatcher) onMouseMove(x, y int32) error {
	if d.state != StateActive {
		return nil
	}

	if d.cfg.MoveThrottle <= 0 {
		d.pendingX, d.pendingY = x, y
		d.pendingMove = true
		return d.flushPendingMove()
	}

	if d.throttleAllows() {
		if err := d.flushPendingMove(); err != nil {
			return err
		}
	}
	d.pendingX, d.pendingY = x, y
	d.pendingMove = true
	return nil
}

// flushPendingMove emits the stored DMMV target, if any, and clears it.
func (d *Dispatcher) flushPendingMove() error {
	if !d.pendingMove {
		return nil
	}
	x, y := d.pendingX, d.pendingY
	d.pendingMove = false
	return d.emitMove(x, y)
}

// emitMove performs the actual absolute/relative re-injection for one
// coalesced move target.
func (d *Dispatcher) emitMove(x, y int32) error {
	if d.cfg.AbsoluteMouse {
		ax, ay := d.ctx.AbsoluteMove(x, y)
		return d.dev.MoveAbsolute(ax, ay)
	}

	d.moveN++
	if d.cfg.PosResyncEveryMove > 0 && d.moveN >= d.cfg.PosResyncEveryMove {
		// Resync boundary: the anchor is re-read from the cursor context,
		// which holds the last target the server reported (there is no
		// probe of the real cursor). The move itself is still emitted.
		d.moveN = 0
	}

	dx, dy := d.ctx.RelativeMove(x, y)
	if dx == 0 && dy == 0 {
		return nil
	}
	return d.dev.MoveRelative(dx, dy)
}

// throttleAllows coalesces DMMV bursts to at most one injected move per
// cfg.MoveThrottle interval, matching the ~60fps pacing original_source's
// dispatcher.py enforces via its throttle_interval.
func (d *Dispatcher) throttleAllows() bool {
	if d.cfg.MoveThrottle <= 0 {
		return true
	}
	now := time.Now()
	if now.Sub(d.lastMv) < d.cfg.MoveThrottle {
		return false
	}
	d.lastMv = now
	return true
}

func (d *Dispatcher) onMouseButton(button int8, down bool) error {
	code, ok := keycodes.MouseButtonToEvent(uint8(button))
	if !ok {
		return nil
	}
	if down {
		return d.dev.ButtonDown(code)
	}
	return d.dev.ButtonUp(code)
}

// onMouseWheel turns a DMWM notch value into whole ticks: value/120
// truncated toward zero, with direction from value's sign, the standard
// wheel-detent encoding. A nonzero value below one notch still produces one
// tick in its own direction. This is the more complete rule than
// original_source's on_dmwm, which only ever emits a single sign-only tick.
func (d *Dispatcher) onMouseWheel(m protocol.MouseWheelMsg) error {
	if err := d.wheelAxis(true, int32(m.Y)); err != nil {
		return err
	}
	return d.wheelAxis(false, int32(m.X))
}

func (d *Dispatcher) wheelAxis(vertical bool, value int32) error {
	if value == 0 {
		return nil
	}
	ticks := value / 120
	if ticks == 0 {
		if value > 0 {
			ticks = 1
		} else {
			ticks = -1
		}
	}
	return d.dev.Wheel(vertical, ticks)
}

func (d *Dispatcher) onKeyDown(m protocol.KeyDownMsg) error {
	code, ok := keycodes.SynergyToEvent(keycodes.SynergyID(m.ID), keycodes.ModifierMask(m.Mask))
	if !ok {
		d.unmapped[m.ID] = true
		return nil
	}
	return d.dev.KeyDown(code)
}

func (d *Dispatcher) onKeyUp(m protocol.KeyUpMsg) error {
	if d.unmapped[m.ID] {
		delete(d.unmapped, m.ID)
		return nil
	}
	code, ok := keycodes.SynergyToEvent(keycodes.SynergyID(m.ID), keycodes.ModifierMask(m.Mask))
	if !ok {
		return nil
	}
	return d.dev.KeyUp(code)
}

// onKeyRepeat implements spec.md's resolution of the DKRP open question:
// always release-then-press to force a fresh autorepeat edge, rather than
// original_source's on_dkrp policy of pressing only if the key isn't
// already tracked as held (see SPEC_FULL.md §7).
func (d *Dispatcher) onKeyRepeat(m protocol.KeyRepeatMsg) error {
	code, ok := keycodes.SynergyToEvent(keycodes.SynergyID(m.ID), keycodes.ModifierMask(m.Mask))
	if !ok {
		return nil
	}
	if err := d.dev.KeyUp(code); err != nil {
		return err
	}
	return d.dev.KeyDown(code)
}
