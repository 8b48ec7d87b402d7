// Package keycodes composes the translation tables between the four key-code
// namespaces a Synergy client must bridge: the protocol's Synergy key IDs
// (X11 keysym-derived), a platform-neutral virtual-key pivot, USB HID
// keyboard usages, and Linux kernel evdev event codes.
//
// The three translation tables (Synergy->VK, VK->HID, HID->EvCode) are
// separate literal maps joined by the virtual-key and HID pivots; they are
// not generated from a single master table. The package tests check that,
// for every VK known on both sides, composing forward then backward is the
// identity.
package keycodes

// EvCode is a Linux kernel input event code, the value ultimately written to
// the uinput device. Mirrors the numeric space of evdev.EvCode without
// importing the evdev package here, so this package stays free of cgo/ioctl
// dependencies and is trivial to unit test.
type EvCode uint16

// Kernel event codes from linux/input-event-codes.h that this client needs.
const (
	EvUnmapped EvCode = 0xFFFF

	KeyEsc        EvCode = 1
	Key1          EvCode = 2
	Key2          EvCode = 3
	Key3          EvCode = 4
	Key4          EvCode = 5
	Key5          EvCode = 6
	Key6          EvCode = 7
	Key7          EvCode = 8
	Key8          EvCode = 9
	Key9          EvCode = 10
	Key0          EvCode = 11
	KeyMinus      EvCode = 12
	KeyEqual      EvCode = 13
	KeyBackspace  EvCode = 14
	KeyTab        EvCode = 15
	KeyQ          EvCode = 16
	KeyW          EvCode = 17
	KeyE          EvCode = 18
	KeyR          EvCode = 19
	KeyT          EvCode = 20
	KeyY          EvCode = 21
	KeyU          EvCode = 22
	KeyI          EvCode = 23
	KeyO          EvCode = 24
	KeyP          EvCode = 25
	KeyLeftBrace  EvCode = 26
	KeyRightBrace EvCode = 27
	KeyEnter      EvCode = 28
	KeyLeftCtrl   EvCode = 29
	KeyA          EvCode = 30
	KeyS          EvCode = 31
	KeyD          EvCode = 32
	KeyF          EvCode = 33
	KeyG          EvCode = 34
	KeyH          EvCode = 35
	KeyJ          EvCode = 36
	KeyK          EvCode = 37
	KeyL          EvCode = 38
	KeySemicolon  EvCode = 39
	KeyApostrophe EvCode = 40
	KeyGrave      EvCode = 41
	KeyLeftShift  EvCode = 42
	KeyBackslash  EvCode = 43
	KeyZ          EvCode = 44
	KeyX          EvCode = 45
	KeyC          EvCode = 46
	KeyV          EvCode = 47
	KeyB          EvCode = 48
	KeyN          EvCode = 49
	KeyM          EvCode = 50
	KeyComma      EvCode = 51
	KeyDot        EvCode = 52
	KeySlash      EvCode = 53
	KeyRightShift EvCode = 54
	KeyKPAsterisk EvCode = 55
	KeyLeftAlt    EvCode = 56
	KeySpace      EvCode = 57
	KeyCapsLock   EvCode = 58
	KeyF1         EvCode = 59
	KeyF2         EvCode = 60
	KeyF3         EvCode = 61
	KeyF4         EvCode = 62
	KeyF5         EvCode = 63
	KeyF6         EvCode = 64
	KeyF7         EvCode = 65
	KeyF8         EvCode = 66
	KeyF9         EvCode = 67
	KeyF10        EvCode = 68
	KeyNumLock    EvCode = 69
	KeyScrollLock EvCode = 70
	KeyKP7        EvCode = 71
	KeyKP8        EvCode = 72
	KeyKP9        EvCode = 73
	KeyKPMinus    EvCode = 74
	KeyKP4        EvCode = 75
	KeyKP5        EvCode = 76
	KeyKP6        EvCode = 77
	KeyKPPlus     EvCode = 78
	KeyKP1        EvCode = 79
	KeyKP2        EvCode = 80
	KeyKP3        EvCode = 81
	KeyKP0        EvCode = 82
	KeyKPDot      EvCode = 83
	KeyF11        EvCode = 87
	KeyF12        EvCode = 88
	KeyKPEnter    EvCode = 96
	KeyRightCtrl  EvCode = 97
	KeyKPSlash    EvCode = 98
	KeyRightAlt   EvCode = 100
	KeyHome       EvCode = 102
	KeyUp         EvCode = 103
	KeyPageUp     EvCode = 104
	KeyLeft       EvCode = 105
	KeyRight      EvCode = 106
	KeyEnd        EvCode = 107
	KeyDown       EvCode = 108
	KeyPageDown   EvCode = 109
	KeyInsert     EvCode = 110
	KeyDelete     EvCode = 111
	KeyLeftMeta   EvCode = 125
	KeyRightMeta  EvCode = 126
	KeyMenu       EvCode = 139

	BtnLeft   EvCode = 0x110
	BtnRight  EvCode = 0x111
	BtnMiddle EvCode = 0x112
	BtnSide   EvCode = 0x113
	BtnExtra  EvCode = 0x114
)

// AllKnownEventCodes returns the full set of kernel event codes this client
// can ever emit, used by the device layer to declare uinput capabilities.
func AllKnownEventCodes() []EvCode {
	codes := make([]EvCode, 0, len(vkToHID))
	seen := make(map[EvCode]bool, len(vkToHID))
	for vk := range vkToHID {
		code, ok := hidToEvent[vkToHID[vk]]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	for _, code := range mouseButtonCodes {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}
