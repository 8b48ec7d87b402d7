// Package cursor tracks the logical cursor position this client believes
// the server sees, and turns incoming DMMV/DMRM coordinates into the
// relative deltas the virtual mouse actually needs. Grounded on
// original_source/packages/pynergy_client/src/pynergy_client/device/base.py's
// BaseDeviceContext: calculate_relative_move, sync_logical_to_real, and the
// screen-size bookkeeping kept alongside it.
package cursor

// Context holds the screen geometry and last known logical position for one
// session. It is not safe for concurrent use; the dispatcher that owns it
// runs on a single goroutine per spec.md §5.
type Context struct {
	width, height int32
	logicalX, logicalY int32
}

// NewContext seeds a cursor context with the advertised screen size. Logical
// position starts at the screen center, matching where a freshly entered
// cursor is expected to land before the first CINN arrives.
func NewContext(width, height int32) *Context {
	return &Context{
		width:    width,
		height:   height,
		logicalX: width / 2,
		logicalY: height / 2,
	}
}

// Resize updates the screen geometry, e.g. after a QINF/DINF exchange
// reports new dimensions.
func (c *Context) Resize(width, height int32) {
	c.width, c.height = width, height
	c.clampLocked()
}

// EnterAt sets the logical position directly, per CINN's absolute entry
// coordinate (spec.md §4.5: "cursor enter sets logical position exactly,
// no clamping round-trip through relative math").
func (c *Context) EnterAt(x, y int32) {
	c.logicalX, c.logicalY = x, y
	c.clampLocked()
}

// Position returns the current logical position.
func (c *Context) Position() (int32, int32) {
	return c.logicalX, c.logicalY
}

// Size returns the current screen geometry.
func (c *Context) Size() (int32, int32) {
	return c.width, c.height
}

// AbsoluteMove sets the logical position to an absolute DMMV coordinate and
// returns it unchanged (the caller hands this straight to
// device.MoveAbsolute when running in absolute-mouse mode).
func (c *Context) AbsoluteMove(x, y int32) (int32, int32) {
	c.logicalX, c.logicalY = x, y
	c.clampLocked()
	return c.logicalX, c.logicalY
}

// RelativeMove computes the delta from the current logical position to a
// target absolute coordinate, then advances the logical position by that
// delta. DMMV always carries an absolute target even in relative-mouse
// mode; the client turns it into a relative motion itself so the physical
// cursor tracks the server's view without ever reading the real cursor
// position back (grounded on calculate_relative_move's clamp-then-diff
// shape).
func (c *Context) RelativeMove(targetX, targetY int32) (dx, dy int32) {
	if targetX < 0 {
		targetX = 0
	} else if targetX >= c.width {
		targetX = c.width - 1
	}
	if targetY < 0 {
		targetY = 0
	} else if targetY >= c.height {
		targetY = c.height - 1
	}
	dx = targetX - c.logicalX
	dy = targetY - c.logicalY
	c.logicalX, c.logicalY = targetX, targetY
	return dx, dy
}

func (c *Context) clampLocked() {
	if c.logicalX < 0 {
		c.logicalX = 0
	} else if c.logicalX >= c.width {
		c.logicalX = c.width - 1
	}
	if c.logicalY < 0 {
		c.logicalY = 0
	} else if c.logicalY >= c.height {
		c.logicalY = c.height - 1
	}
}
