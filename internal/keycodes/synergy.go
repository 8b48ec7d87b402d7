package keycodes

// SynergyID is the protocol-level key identifier carried in DKDN/DKUP/DKRP
// payloads. Synergy (and its Barrier/Deskflow descendants) derive these
// mostly from X11 keysyms: printable ASCII keysyms equal their character
// code, and non-printable keys live in the 0xFFxx "function key" range.
type SynergyID uint16

// ModifierMask is the mask field accompanying a key event. Only the bits
// this client acts on are named; the rest are preserved but ignored.
type ModifierMask uint16

const (
	ModShift   ModifierMask = 1 << 0
	ModCtrl    ModifierMask = 1 << 1
	ModAlt     ModifierMask = 1 << 2
	ModMeta    ModifierMask = 1 << 3
	ModAltGr   ModifierMask = 1 << 4
	ModNumLock ModifierMask = 1 << 5
	ModCaps    ModifierMask = 1 << 6
)

// synergyToVK is the direct (mask-insensitive) Synergy ID -> VK table,
// covering the X11 keysym ranges Deskflow uses for printable ASCII and the
// common non-printable function-key block.
var synergyToVK = map[SynergyID]VKey{
	// Printable ASCII: letters, lowercase and uppercase keysyms both occur
	// on the wire (servers vary on whether they normalize case before
	// sending), so both ranges resolve to the same VK.
	0x61: VKA, 0x62: VKB, 0x63: VKC, 0x64: VKD, 0x65: VKE, 0x66: VKF,
	0x67: VKG, 0x68: VKH, 0x69: VKI, 0x6A: VKJ, 0x6B: VKK, 0x6C: VKL,
	0x6D: VKM, 0x6E: VKN, 0x6F: VKO, 0x70: VKP, 0x71: VKQ, 0x72: VKR,
	0x73: VKS, 0x74: VKT, 0x75: VKU, 0x76: VKV, 0x77: VKW, 0x78: VKX,
	0x79: VKY, 0x7A: VKZ,
	0x41: VKA, 0x42: VKB, 0x43: VKC, 0x44: VKD, 0x45: VKE, 0x46: VKF,
	0x47: VKG, 0x48: VKH, 0x49: VKI, 0x4A: VKJ, 0x4B: VKK, 0x4C: VKL,
	0x4D: VKM, 0x4E: VKN, 0x4F: VKO, 0x50: VKP, 0x51: VKQ, 0x52: VKR,
	0x53: VKS, 0x54: VKT, 0x55: VKU, 0x56: VKV, 0x57: VKW, 0x58: VKX,
	0x59: VKY, 0x5A: VKZ,

	0x30: VK0, 0x31: VK1, 0x32: VK2, 0x33: VK3, 0x34: VK4,
	0x35: VK5, 0x36: VK6, 0x37: VK7, 0x38: VK8, 0x39: VK9,

	0x20: VKSpace,
	0x2D: VKMinus, 0x3D: VKEqual, 0x5B: VKLeftBrace, 0x5D: VKRightBrace,
	0x5C: VKBackslash, 0x3B: VKSemicolon, 0x27: VKApostrophe, 0x60: VKGrave,
	0x2C: VKComma, 0x2E: VKDot, 0x2F: VKSlash,

	// XK_BackSpace .. XK_Escape
	0xFF08: VKBackspace,
	0xFF09: VKTab,
	0xFF0D: VKEnter,
	0xFF1B: VKEscape,

	// Navigation block (XK_Home .. XK_Insert)
	0xFF50: VKHome,
	0xFF51: VKLeft,
	0xFF52: VKUp,
	0xFF53: VKRight,
	0xFF54: VKDown,
	0xFF55: VKPageUp,
	0xFF56: VKPageDown,
	0xFF57: VKEnd,
	0xFF63: VKInsert,
	0xFFFF: VKDelete,

	// Modifiers (XK_Shift_L .. XK_Super_R)
	0xFFE1: VKLeftShift,
	0xFFE2: VKRightShift,
	0xFFE3: VKLeftCtrl,
	0xFFE4: VKRightCtrl,
	0xFFE5: VKCapsLock,
	0xFF7F: VKNumLock,
	0xFFE9: VKLeftAlt,
	0xFFEA: VKRightAlt,
	0xFFEB: VKLeftMeta,
	0xFFEC: VKRightMeta,
	0xFF67: VKMenu,
	0xFF14: VKScrollLock,

	// Function keys XK_F1..XK_F12
	0xFFBE: VKF1, 0xFFBF: VKF2, 0xFFC0: VKF3, 0xFFC1: VKF4,
	0xFFC2: VKF5, 0xFFC3: VKF6, 0xFFC4: VKF7, 0xFFC5: VKF8,
	0xFFC6: VKF9, 0xFFC7: VKF10, 0xFFC8: VKF11, 0xFFC9: VKF12,

	// Keypad operators that are mask-insensitive (always the same key
	// regardless of NumLock, unlike the KP_0..KP_9 digit block below).
	0xFFAA: VKKPAsterisk,
	0xFFAB: VKKPPlus,
	0xFFAD: VKKPMinus,
	0xFFAF: VKKPSlash,
	0xFF8D: VKKPEnter,
}

// numpadDigitByKeysym and numpadNavByKeysym hold the two possible
// resolutions of the XK_KP_0..XK_KP_9 / XK_KP_Decimal keysyms: Deskflow (like
// X11 before it) sends the same keysym whether NumLock is engaged or not,
// and relies on the mask bit to tell the client which face of the key was
// meant. See spec.md §4.1 and SPEC_FULL.md §5 "Numpad dual-mapping".
var numpadDigitByKeysym = map[SynergyID]VKey{
	0xFFB0: VKKP0, 0xFFB1: VKKP1, 0xFFB2: VKKP2, 0xFFB3: VKKP3, 0xFFB4: VKKP4,
	0xFFB5: VKKP5, 0xFFB6: VKKP6, 0xFFB7: VKKP7, 0xFFB8: VKKP8, 0xFFB9: VKKP9,
	0xFFAE: VKKPDot,
}

var numpadNavByKeysym = map[SynergyID]VKey{
	0xFFB0: VKInsert, 0xFFB1: VKEnd, 0xFFB2: VKDown, 0xFFB3: VKPageDown,
	0xFFB4: VKLeft, 0xFFB5: VKKP5 /* no canonical "clear" VK: keypad 5 alone has no nav face on most keyboards */, 0xFFB6: VKRight,
	0xFFB7: VKHome, 0xFFB8: VKUp, 0xFFB9: VKPageUp,
	0xFFAE: VKDelete,
}

// synergyToEvent resolves a Synergy key ID + mask through the composed
// Synergy->VK->HID->EvCode pipeline. Returns keycodes.EvUnmapped, false when
// any stage of the pipeline has no entry for the input; callers must drop
// the event rather than fabricate a code (spec.md §4.1 policy on unmapped
// keys).
func SynergyToEvent(id SynergyID, mask ModifierMask) (EvCode, bool) {
	vk, ok := resolveVK(id, mask)
	if !ok {
		return EvUnmapped, false
	}
	usage, ok := VKToHID(vk)
	if !ok {
		return EvUnmapped, false
	}
	code, ok := HIDToEvent(usage)
	if !ok {
		return EvUnmapped, false
	}
	return code, true
}

func resolveVK(id SynergyID, mask ModifierMask) (VKey, bool) {
	if mask&ModNumLock != 0 {
		if vk, ok := numpadDigitByKeysym[id]; ok {
			return vk, true
		}
	} else if vk, ok := numpadNavByKeysym[id]; ok {
		return vk, true
	}
	vk, ok := synergyToVK[id]
	return vk, ok
}

// MouseButtonToEvent implements spec.md §4.1's Synergy mouse button
// numbering: 1=LEFT, 2=MIDDLE, 3=RIGHT, 4=SIDE, 5=EXTRA.
func MouseButtonToEvent(button uint8) (EvCode, bool) {
	switch button {
	case 1:
		return BtnLeft, true
	case 2:
		return BtnMiddle, true
	case 3:
		return BtnRight, true
	case 4:
		return BtnSide, true
	case 5:
		return BtnExtra, true
	default:
		return EvUnmapped, false
	}
}
