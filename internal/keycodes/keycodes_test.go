package keycodes

import "testing"

func TestVKHIDRoundTrip(t *testing.T) {
	for vk := range vkToHID {
		usage, ok := VKToHID(vk)
		if !ok {
			t.Fatalf("VKToHID(%s): no usage", vk)
		}
		back, ok := HIDToVK(usage)
		if !ok {
			t.Fatalf("HIDToVK(%#x): no vk", usage)
		}
		if back != vk {
			t.Fatalf("round trip mismatch: %s -> %#x -> %s", vk, usage, back)
		}
	}
}

func TestHIDToEventCoversEveryVK(t *testing.T) {
	for vk, usage := range vkToHID {
		if _, ok := HIDToEvent(usage); !ok {
			t.Fatalf("vk %s (usage %#x) has no kernel event code", vk, usage)
		}
	}
}

func TestSynergyToEventLetters(t *testing.T) {
	code, ok := SynergyToEvent(0x61, 0) // 'a'
	if !ok || code != KeyA {
		t.Fatalf("SynergyToEvent('a') = %v, %v; want KeyA, true", code, ok)
	}
}

func TestSynergyToEventUnmapped(t *testing.T) {
	if _, ok := SynergyToEvent(0xDEAD, 0); ok {
		t.Fatalf("expected unmapped id to fail translation")
	}
}

func TestNumpadMaskSensitive(t *testing.T) {
	withNumLock, ok := SynergyToEvent(0xFFB1, ModNumLock)
	if !ok || withNumLock != KeyKP1 {
		t.Fatalf("KP_1 with NumLock = %v, %v; want KeyKP1, true", withNumLock, ok)
	}
	withoutNumLock, ok := SynergyToEvent(0xFFB1, 0)
	if !ok || withoutNumLock != KeyEnd {
		t.Fatalf("KP_1 without NumLock = %v, %v; want KeyEnd, true", withoutNumLock, ok)
	}
}

func TestMouseButtonNumbering(t *testing.T) {
	cases := []struct {
		button uint8
		want   EvCode
	}{
		{1, BtnLeft}, {2, BtnMiddle}, {3, BtnRight}, {4, BtnSide}, {5, BtnExtra},
	}
	for _, c := range cases {
		got, ok := MouseButtonToEvent(c.button)
		if !ok || got != c.want {
			t.Fatalf("MouseButtonToEvent(%d) = %v, %v; want %v, true", c.button, got, ok, c.want)
		}
	}
	if _, ok := MouseButtonToEvent(9); ok {
		t.Fatalf("expected unknown button to be unmapped")
	}
}

func TestAllKnownEventCodesNonEmpty(t *testing.T) {
	codes := AllKnownEventCodes()
	if len(codes) == 0 {
		t.Fatal("expected a non-empty capability set")
	}
}
