package keycodes

// VKey is the platform-neutral virtual-key pivot between the Synergy wire
// namespace and the HID/evdev namespaces. The three translation tables are
// hand-maintained literal maps that meet at this pivot: add a key here once,
// wire its HID usage in vkToHID and its evdev code in hidToEvent, and every
// Synergy ID that points at it inherits the result.
type VKey string

const (
	VKUnknown VKey = ""

	VKA VKey = "A"
	VKB VKey = "B"
	VKC VKey = "C"
	VKD VKey = "D"
	VKE VKey = "E"
	VKF VKey = "F"
	VKG VKey = "G"
	VKH VKey = "H"
	VKI VKey = "I"
	VKJ VKey = "J"
	VKK VKey = "K"
	VKL VKey = "L"
	VKM VKey = "M"
	VKN VKey = "N"
	VKO VKey = "O"
	VKP VKey = "P"
	VKQ VKey = "Q"
	VKR VKey = "R"
	VKS VKey = "S"
	VKT VKey = "T"
	VKU VKey = "U"
	VKV VKey = "V"
	VKW VKey = "W"
	VKX VKey = "X"
	VKY VKey = "Y"
	VKZ VKey = "Z"

	VK0 VKey = "0"
	VK1 VKey = "1"
	VK2 VKey = "2"
	VK3 VKey = "3"
	VK4 VKey = "4"
	VK5 VKey = "5"
	VK6 VKey = "6"
	VK7 VKey = "7"
	VK8 VKey = "8"
	VK9 VKey = "9"

	VKF1  VKey = "F1"
	VKF2  VKey = "F2"
	VKF3  VKey = "F3"
	VKF4  VKey = "F4"
	VKF5  VKey = "F5"
	VKF6  VKey = "F6"
	VKF7  VKey = "F7"
	VKF8  VKey = "F8"
	VKF9  VKey = "F9"
	VKF10 VKey = "F10"
	VKF11 VKey = "F11"
	VKF12 VKey = "F12"

	VKBackspace  VKey = "BACKSPACE"
	VKTab        VKey = "TAB"
	VKEnter      VKey = "ENTER"
	VKEscape     VKey = "ESCAPE"
	VKSpace      VKey = "SPACE"
	VKCapsLock   VKey = "CAPSLOCK"
	VKNumLock    VKey = "NUMLOCK"
	VKScrollLock VKey = "SCROLLLOCK"

	VKLeftShift  VKey = "LEFTSHIFT"
	VKRightShift VKey = "RIGHTSHIFT"
	VKLeftCtrl   VKey = "LEFTCTRL"
	VKRightCtrl  VKey = "RIGHTCTRL"
	VKLeftAlt    VKey = "LEFTALT"
	VKRightAlt   VKey = "RIGHTALT"
	VKLeftMeta   VKey = "LEFTMETA"
	VKRightMeta  VKey = "RIGHTMETA"
	VKMenu       VKey = "MENU"

	VKLeft     VKey = "LEFT"
	VKRight    VKey = "RIGHT"
	VKUp       VKey = "UP"
	VKDown     VKey = "DOWN"
	VKHome     VKey = "HOME"
	VKEnd      VKey = "END"
	VKPageUp   VKey = "PAGEUP"
	VKPageDown VKey = "PAGEDOWN"
	VKInsert   VKey = "INSERT"
	VKDelete   VKey = "DELETE"

	VKMinus      VKey = "MINUS"
	VKEqual      VKey = "EQUAL"
	VKLeftBrace  VKey = "LEFTBRACE"
	VKRightBrace VKey = "RIGHTBRACE"
	VKBackslash  VKey = "BACKSLASH"
	VKSemicolon  VKey = "SEMICOLON"
	VKApostrophe VKey = "APOSTROPHE"
	VKGrave      VKey = "GRAVE"
	VKComma      VKey = "COMMA"
	VKDot        VKey = "DOT"
	VKSlash      VKey = "SLASH"

	VKKP0         VKey = "KP0"
	VKKP1         VKey = "KP1"
	VKKP2         VKey = "KP2"
	VKKP3         VKey = "KP3"
	VKKP4         VKey = "KP4"
	VKKP5         VKey = "KP5"
	VKKP6         VKey = "KP6"
	VKKP7         VKey = "KP7"
	VKKP8         VKey = "KP8"
	VKKP9         VKey = "KP9"
	VKKPDot       VKey = "KPDOT"
	VKKPPlus      VKey = "KPPLUS"
	VKKPMinus     VKey = "KPMINUS"
	VKKPSlash     VKey = "KPSLASH"
	VKKPAsterisk  VKey = "KPASTERISK"
	VKKPEnter     VKey = "KPENTER"
)
