package cursor

import "testing"

func TestEnterAtSetsExactPosition(t *testing.T) {
	c := NewContext(1920, 1080)
	c.EnterAt(10, 20)
	x, y := c.Position()
	if x != 10 || y != 20 {
		t.Fatalf("got (%d,%d), want (10,20)", x, y)
	}
}

func TestRelativeMoveAccumulatesFromLogicalPosition(t *testing.T) {
	c := NewContext(1920, 1080)
	c.EnterAt(100, 100)

	dx, dy := c.RelativeMove(110, 90)
	if dx != 10 || dy != -10 {
		t.Fatalf("first move got (%d,%d), want (10,-10)", dx, dy)
	}

	dx, dy = c.RelativeMove(110, 90)
	if dx != 0 || dy != 0 {
		t.Fatalf("second move to same target should be zero delta, got (%d,%d)", dx, dy)
	}
}

func TestRelativeMoveClampsToScreenBounds(t *testing.T) {
	c := NewContext(100, 100)
	c.EnterAt(50, 50)

	dx, dy := c.RelativeMove(-10, 200)
	if dx != -50 || dy != 49 {
		t.Fatalf("clamped move got (%d,%d), want (-50,49)", dx, dy)
	}
	x, y := c.Position()
	if x != 0 || y != 99 {
		t.Fatalf("clamped position got (%d,%d), want (0,99)", x, y)
	}
}

func TestResizeClampsStalePosition(t *testing.T) {
	c := NewContext(1920, 1080)
	c.EnterAt(1900, 1000)
	c.Resize(800, 600)
	x, y := c.Position()
	if x != 799 || y != 599 {
		t.Fatalf("got (%d,%d), want (799,599) after shrinking screen", x, y)
	}
}
