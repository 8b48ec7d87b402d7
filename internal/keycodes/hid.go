package keycodes

// HIDUsage is a USB HID usage-page-0x07 (keyboard/keypad) usage ID.
type HIDUsage uint16

// vkToHID is the master table: every virtual key this client understands,
// mapped to its USB HID keyboard usage. synergyToVK (synergy.go) and
// hidToEvent below are separate hand-written literal maps that meet this one
// at the VK and HID pivots; they are not generated from it, so the
// round-trip law in spec.md §8 is checked by keycodes_test.go rather than
// guaranteed by construction.
var vkToHID = map[VKey]HIDUsage{
	VKA: 0x04, VKB: 0x05, VKC: 0x06, VKD: 0x07, VKE: 0x08, VKF: 0x09,
	VKG: 0x0A, VKH: 0x0B, VKI: 0x0C, VKJ: 0x0D, VKK: 0x0E, VKL: 0x0F,
	VKM: 0x10, VKN: 0x11, VKO: 0x12, VKP: 0x13, VKQ: 0x14, VKR: 0x15,
	VKS: 0x16, VKT: 0x17, VKU: 0x18, VKV: 0x19, VKW: 0x1A, VKX: 0x1B,
	VKY: 0x1C, VKZ: 0x1D,

	VK1: 0x1E, VK2: 0x1F, VK3: 0x20, VK4: 0x21, VK5: 0x22,
	VK6: 0x23, VK7: 0x24, VK8: 0x25, VK9: 0x26, VK0: 0x27,

	VKEnter: 0x28, VKEscape: 0x29, VKBackspace: 0x2A, VKTab: 0x2B,
	VKSpace: 0x2C, VKMinus: 0x2D, VKEqual: 0x2E,
	VKLeftBrace: 0x2F, VKRightBrace: 0x30, VKBackslash: 0x31,
	VKSemicolon: 0x33, VKApostrophe: 0x34, VKGrave: 0x35,
	VKComma: 0x36, VKDot: 0x37, VKSlash: 0x38, VKCapsLock: 0x39,

	VKF1: 0x3A, VKF2: 0x3B, VKF3: 0x3C, VKF4: 0x3D, VKF5: 0x3E, VKF6: 0x3F,
	VKF7: 0x40, VKF8: 0x41, VKF9: 0x42, VKF10: 0x43, VKF11: 0x44, VKF12: 0x45,

	VKInsert: 0x49, VKHome: 0x4A, VKPageUp: 0x4B, VKDelete: 0x4C,
	VKEnd: 0x4D, VKPageDown: 0x4E, VKRight: 0x4F, VKLeft: 0x50,
	VKDown: 0x51, VKUp: 0x52,

	VKNumLock: 0x53, VKKPSlash: 0x54, VKKPAsterisk: 0x55, VKKPMinus: 0x56,
	VKKPPlus: 0x57, VKKPEnter: 0x58,
	VKKP1: 0x59, VKKP2: 0x5A, VKKP3: 0x5B, VKKP4: 0x5C, VKKP5: 0x5D,
	VKKP6: 0x5E, VKKP7: 0x5F, VKKP8: 0x60, VKKP9: 0x61, VKKP0: 0x62,
	VKKPDot: 0x63,

	VKMenu: 0x65, VKScrollLock: 0x47,

	VKLeftCtrl: 0xE0, VKLeftShift: 0xE1, VKLeftAlt: 0xE2, VKLeftMeta: 0xE3,
	VKRightCtrl: 0xE4, VKRightShift: 0xE5, VKRightAlt: 0xE6, VKRightMeta: 0xE7,
}

// hidToEvent maps a HID keyboard usage to the Linux kernel event code an
// evdev/uinput device expects. It is a literal table keyed by HID usage;
// TestHIDToEventCoversEveryVK checks that every usage in vkToHID has an
// entry here.
var hidToEvent = map[HIDUsage]EvCode{
	0x04: KeyA, 0x05: KeyB, 0x06: KeyC, 0x07: KeyD, 0x08: KeyE, 0x09: KeyF,
	0x0A: KeyG, 0x0B: KeyH, 0x0C: KeyI, 0x0D: KeyJ, 0x0E: KeyK, 0x0F: KeyL,
	0x10: KeyM, 0x11: KeyN, 0x12: KeyO, 0x13: KeyP, 0x14: KeyQ, 0x15: KeyR,
	0x16: KeyS, 0x17: KeyT, 0x18: KeyU, 0x19: KeyV, 0x1A: KeyW, 0x1B: KeyX,
	0x1C: KeyY, 0x1D: KeyZ,

	0x1E: Key1, 0x1F: Key2, 0x20: Key3, 0x21: Key4, 0x22: Key5,
	0x23: Key6, 0x24: Key7, 0x25: Key8, 0x26: Key9, 0x27: Key0,

	0x28: KeyEnter, 0x29: KeyEsc, 0x2A: KeyBackspace, 0x2B: KeyTab,
	0x2C: KeySpace, 0x2D: KeyMinus, 0x2E: KeyEqual,
	0x2F: KeyLeftBrace, 0x30: KeyRightBrace, 0x31: KeyBackslash,
	0x33: KeySemicolon, 0x34: KeyApostrophe, 0x35: KeyGrave,
	0x36: KeyComma, 0x37: KeyDot, 0x38: KeySlash, 0x39: KeyCapsLock,

	0x3A: KeyF1, 0x3B: KeyF2, 0x3C: KeyF3, 0x3D: KeyF4, 0x3E: KeyF5, 0x3F: KeyF6,
	0x40: KeyF7, 0x41: KeyF8, 0x42: KeyF9, 0x43: KeyF10, 0x44: KeyF11, 0x45: KeyF12,

	0x47: KeyScrollLock,

	0x49: KeyInsert, 0x4A: KeyHome, 0x4B: KeyPageUp, 0x4C: KeyDelete,
	0x4D: KeyEnd, 0x4E: KeyPageDown, 0x4F: KeyRight, 0x50: KeyLeft,
	0x51: KeyDown, 0x52: KeyUp,

	0x53: KeyNumLock, 0x54: KeyKPSlash, 0x55: KeyKPAsterisk, 0x56: KeyKPMinus,
	0x57: KeyKPPlus, 0x58: KeyKPEnter,
	0x59: KeyKP1, 0x5A: KeyKP2, 0x5B: KeyKP3, 0x5C: KeyKP4, 0x5D: KeyKP5,
	0x5E: KeyKP6, 0x5F: KeyKP7, 0x60: KeyKP8, 0x61: KeyKP9, 0x62: KeyKP0,
	0x63: KeyKPDot,

	0x65: KeyMenu,

	0xE0: KeyLeftCtrl, 0xE1: KeyLeftShift, 0xE2: KeyLeftAlt, 0xE3: KeyLeftMeta,
	0xE4: KeyRightCtrl, 0xE5: KeyRightShift, 0xE6: KeyRightAlt, 0xE7: KeyRightMeta,
}

var mouseButtonCodes = []EvCode{BtnLeft, BtnMiddle, BtnRight, BtnSide, BtnExtra}

// VKToHID looks up the HID usage for a virtual key.
func VKToHID(vk VKey) (HIDUsage, bool) {
	u, ok := vkToHID[vk]
	return u, ok
}

// HIDToVK is the inverse of VKToHID, used by EventToVK and by the
// round-trip tests that check the composed pipeline is lossless for every
// key both sides know.
func HIDToVK(usage HIDUsage) (VKey, bool) {
	for vk, u := range vkToHID {
		if u == usage {
			return vk, true
		}
	}
	return VKUnknown, false
}

// HIDToEvent looks up the kernel event code for a HID usage.
func HIDToEvent(usage HIDUsage) (EvCode, bool) {
	c, ok := hidToEvent[usage]
	return c, ok
}

// EventToVK is the reverse of the HID->EvCode->VK pipeline, used by
// internal/hotkey to name a locally observed kernel event code the same way
// the configuration surface names hotkey combo parts (e.g. "LEFTCTRL").
func EventToVK(code EvCode) (VKey, bool) {
	for usage, c := range hidToEvent {
		if c == code {
			return HIDToVK(usage)
		}
	}
	return VKUnknown, false
}
