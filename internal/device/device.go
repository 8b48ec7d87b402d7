// Package device owns the uinput virtual keyboard+mouse this client injects
// received input events into. It is the only package that imports
// github.com/holoplot/go-evdev directly; everywhere else in this module
// works in terms of internal/keycodes.EvCode so the translation tables stay
// trivially unit-testable without a kernel underneath them.
package device

import (
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"

	"synergyclient/internal/keycodes"
)

// Config controls how the virtual device advertises itself and whether it
// exposes an EV_ABS surface for absolute cursor positioning, per
// spec.md §4.4 and the abs_mouse_move setting.
type Config struct {
	Name           string
	VendorID       uint16
	ProductID      uint16
	Version        uint16
	AbsoluteMouse  bool
	ScreenWidth    uint16
	ScreenHeight   uint16
}

// ErrAbsoluteUnsupported is returned by MoveAbsolute when the device was
// created without AbsoluteMouse capability.
var ErrAbsoluteUnsupported = fmt.Errorf("device: virtual device has no EV_ABS capability")

// VirtualDevice is the single uinput node this client writes every received
// key, button, and motion event to. Grounded on
// _examples/McNull-blender_navcap's AppContext/startListener write path
// (WriteOne + trailing SYN_REPORT), adapted from a pass-through clone of a
// physical device to a synthetic device created from scratch, since this
// client has no local input hardware to clone from.
type VirtualDevice struct {
	mu   sync.Mutex
	dev  *evdev.InputDevice
	cfg  Config
	held map[keycodes.EvCode]bool
	// heldOrder records the order keys/buttons were pressed in, so
	// releaseAllLocked can release them in insertion order (spec.md §4.4)
	// instead of the map's unspecified iteration order.
	heldOrder []keycodes.EvCode
}

func evCode(c keycodes.EvCode) evdev.EvCode { return evdev.EvCode(c) }

// Open creates the uinput node and declares its full capability set:
// EV_KEY over every event code keycodes.AllKnownEventCodes() produces, plus
// EV_REL (relative motion and wheel) always, and EV_ABS (absolute position)
// only when cfg.AbsoluteMouse is set.
func Open(cfg Config) (*VirtualDevice, error) {
	capabilities := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keyCapabilities(),
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL, evdev.REL_HWHEEL},
	}

	var absInfos map[evdev.EvCode]evdev.AbsInfo
	if cfg.AbsoluteMouse {
		capabilities[evdev.EV_ABS] = []evdev.EvCode{evdev.ABS_X, evdev.ABS_Y}
		absInfos = map[evdev.EvCode]evdev.AbsInfo{
			evdev.ABS_X: {Minimum: 0, Maximum: int32(cfg.ScreenWidth)},
			evdev.ABS_Y: {Minimum: 0, Maximum: int32(cfg.ScreenHeight)},
		}
	}

	id := evdev.InputID{
		BusType: evdev.BUS_VIRTUAL,
		Vendor:  cfg.VendorID,
		Product: cfg.ProductID,
		Version: cfg.Version,
	}

	dev, err := evdev.CreateDevice(cfg.Name, id, capabilities, absInfos)
	if err != nil {
		return nil, fmt.Errorf("device: create uinput node: %w", err)
	}

	return &VirtualDevice{
		dev:  dev,
		cfg:  cfg,
		held: make(map[keycodes.EvCode]bool),
	}, nil
}

func keyCapabilities() []evdev.EvCode {
	codes := keycodes.AllKnownEventCodes()
	out := make([]evdev.EvCode, len(codes))
	for i, c := range codes {
		out[i] = evCode(c)
	}
	return out
}

// Close releases every currently held key/button and closes the uinput
// node.
func (d *VirtualDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseAllLocked()
	return d.dev.Close()
}

func (d *VirtualDevice) write(events ...evdev.InputEvent) error {
	for i := range events {
		if err := d.dev.WriteOne(&events[i]); err != nil {
			return err
		}
	}
	return d.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0})
}

// KeyDown presses a key if it isn't already held; repeated downs for an
// already-held key are no-ops at the kernel level (the caller still gets to
// decide whether to treat DKRP as a synthetic repeat, see internal/dispatcher).
func (d *VirtualDevice) KeyDown(code keycodes.EvCode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held[code] {
		return nil
	}
	if err := d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: evCode(code), Value: 1}); err != nil {
		return err
	}
	d.held[code] = true
	d.heldOrder = append(d.heldOrder, code)
	return nil
}

// KeyUp releases a key. A release of a key that was never pressed (or was
// already released, e.g. an unmapped id that never reached KeyDown) is a
// silent no-op, matching spec.md §4.4's "release of an untracked key is
// ignored" edge case.
func (d *VirtualDevice) KeyUp(code keycodes.EvCode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.held[code] {
		return nil
	}
	if err := d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: evCode(code), Value: 0}); err != nil {
		return err
	}
	delete(d.held, code)
	d.removeHeldOrder(code)
	return nil
}

// removeHeldOrder drops code from heldOrder, keeping the slice in sync with
// the held set for individual (non-ReleaseAll) releases.
func (d *VirtualDevice) removeHeldOrder(code keycodes.EvCode) {
	for i, c := range d.heldOrder {
		if c == code {
			d.heldOrder = append(d.heldOrder[:i], d.heldOrder[i+1:]...)
			return
		}
	}
}

// KeyRepeat sends an EV_KEY repeat (value 2) without touching held-state.
func (d *VirtualDevice) KeyRepeat(code keycodes.EvCode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: evCode(code), Value: 2})
}

// ButtonDown / ButtonUp mirror KeyDown/KeyUp for mouse buttons; they share
// the held-set so ReleaseAll covers both keyboard and mouse state.
func (d *VirtualDevice) ButtonDown(code keycodes.EvCode) error { return d.KeyDown(code) }
func (d *VirtualDevice) ButtonUp(code keycodes.EvCode) error   { return d.KeyUp(code) }

// MoveRelative emits a relative motion event.
func (d *VirtualDevice) MoveRelative(dx, dy int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var events []evdev.InputEvent
	if dx != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_X, Value: dx})
	}
	if dy != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: dy})
	}
	if len(events) == 0 {
		return nil
	}
	return d.write(events...)
}

// MoveAbsolute emits an absolute position event. Returns
// ErrAbsoluteUnsupported if the device was opened without AbsoluteMouse.
func (d *VirtualDevice) MoveAbsolute(x, y int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.cfg.AbsoluteMouse {
		return ErrAbsoluteUnsupported
	}
	return d.write(
		evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_X, Value: x},
		evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_Y, Value: y},
	)
}

// Wheel emits vertical (ticks>0 away from user) or horizontal scroll ticks.
func (d *VirtualDevice) Wheel(vertical bool, ticks int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ticks == 0 {
		return nil
	}
	code := evdev.EvCode(evdev.REL_WHEEL)
	if !vertical {
		code = evdev.REL_HWHEEL
	}
	return d.write(evdev.InputEvent{Type: evdev.EV_REL, Code: code, Value: ticks})
}

// ReleaseAll releases every currently held key and button, used on cursor
// leave (COUT) and session teardown so a disconnect never leaves a key
// stuck down on the local keyboard (spec.md §4.6/§8).
func (d *VirtualDevice) ReleaseAll() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.releaseAllLocked()
}

func (d *VirtualDevice) releaseAllLocked() error {
	order := d.heldOrder
	d.heldOrder = nil
	for _, code := range order {
		if !d.held[code] {
			continue
		}
		if err := d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: evCode(code), Value: 0}); err != nil {
			return err
		}
		delete(d.held, code)
	}
	return nil
}

// HeldCount reports how many keys/buttons are currently down, used by
// internal/diag's status endpoint.
func (d *VirtualDevice) HeldCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.held)
}
