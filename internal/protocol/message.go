// Package protocol implements the Synergy/Barrier/Deskflow wire format: the
// length-prefixed framing, the opcode registry, and per-message pack/unpack
// logic described in spec.md §4.2 and §6. Framing is handled by StreamParser
// in stream.go; this file and codec.go hold the message types and codec.
package protocol

import "fmt"

// OpCode is the four-ASCII-byte message identifier that follows the 4-byte
// length prefix on the wire.
type OpCode [4]byte

func (o OpCode) String() string { return string(o[:]) }

// Opcodes from spec.md §6. The literal "Synergy" greeting is handled
// specially by Session (see session.go): its frame is length-prefixed like
// any other, but carries the 7-byte literal where an opcode would be; every
// opcode below participates in the ordinary len||opcode||payload framing.
var (
	OpQueryInfo       = OpCode{'Q', 'I', 'N', 'F'}
	OpDeviceInfo      = OpCode{'D', 'I', 'N', 'F'}
	OpInfoAck         = OpCode{'C', 'I', 'A', 'K'}
	OpKeepAlive       = OpCode{'C', 'A', 'L', 'V'}
	OpNoOp            = OpCode{'C', 'N', 'O', 'P'}
	OpCursorEnter     = OpCode{'C', 'I', 'N', 'N'}
	OpCursorLeave     = OpCode{'C', 'O', 'U', 'T'}
	OpResetOptions    = OpCode{'C', 'R', 'O', 'P'}
	OpMouseMoveAbs    = OpCode{'D', 'M', 'M', 'V'}
	OpMouseMoveRel    = OpCode{'D', 'M', 'R', 'M'}
	OpMouseDown       = OpCode{'D', 'M', 'D', 'N'}
	OpMouseUp         = OpCode{'D', 'M', 'U', 'P'}
	OpMouseWheel      = OpCode{'D', 'M', 'W', 'M'}
	OpKeyDown         = OpCode{'D', 'K', 'D', 'N'}
	OpKeyUp           = OpCode{'D', 'K', 'U', 'P'}
	OpKeyRepeat       = OpCode{'D', 'K', 'R', 'P'}
	OpSetOptions      = OpCode{'D', 'S', 'O', 'P'}
	OpClipboardData   = OpCode{'D', 'C', 'L', 'P'}
	OpClipboardGrab   = OpCode{'C', 'C', 'L', 'P'}
	OpErrBad          = OpCode{'E', 'B', 'A', 'D'}
	OpErrBusy         = OpCode{'E', 'B', 'S', 'Y'}
	OpErrUnknown      = OpCode{'E', 'U', 'N', 'K'}
	OpErrIncompatible = OpCode{'E', 'I', 'C', 'V'}
)

// Message is anything the codec can turn back into wire bytes. Concrete
// message types below implement it; OpaqueMessage covers every opcode the
// registry doesn't recognize (spec.md §4.2: unknown opcodes are never fatal
// at decode time).
type Message interface {
	Opcode() OpCode
}

// ScreenInfo is the DINF payload: spec.md §3's screen descriptor.
type ScreenInfo struct {
	X, Y          int16
	Width, Height uint16
	WarpSize      uint16
	MouseX, MouseY int16
}

func (ScreenInfo) Opcode() OpCode { return OpDeviceInfo }

// QueryInfoMsg is the empty QINF message.
type QueryInfoMsg struct{}

func (QueryInfoMsg) Opcode() OpCode { return OpQueryInfo }

// InfoAckMsg is the empty CIAK message.
type InfoAckMsg struct{}

func (InfoAckMsg) Opcode() OpCode { return OpInfoAck }

// KeepAliveMsg is the empty CALV message, sent both directions.
type KeepAliveMsg struct{}

func (KeepAliveMsg) Opcode() OpCode { return OpKeepAlive }

// NoOpMsg is the empty CNOP message.
type NoOpMsg struct{}

func (NoOpMsg) Opcode() OpCode { return OpNoOp }

// CursorEnterMsg is CINN: cursor enter notification.
type CursorEnterMsg struct {
	X, Y      int16
	Seq       uint32
	ModMask   uint16
}

func (CursorEnterMsg) Opcode() OpCode { return OpCursorEnter }

// CursorLeaveMsg is the empty COUT message.
type CursorLeaveMsg struct{}

func (CursorLeaveMsg) Opcode() OpCode { return OpCursorLeave }

// ResetOptionsMsg is the empty CROP message.
type ResetOptionsMsg struct{}

func (ResetOptionsMsg) Opcode() OpCode { return OpResetOptions }

// MouseMoveAbsMsg is DMMV.
type MouseMoveAbsMsg struct{ X, Y int16 }

func (MouseMoveAbsMsg) Opcode() OpCode { return OpMouseMoveAbs }

// MouseMoveRelMsg is DMRM.
type MouseMoveRelMsg struct{ DX, DY int16 }

func (MouseMoveRelMsg) Opcode() OpCode { return OpMouseMoveRel }

// MouseDownMsg / MouseUpMsg are DMDN / DMUP.
type MouseDownMsg struct{ Button int8 }

func (MouseDownMsg) Opcode() OpCode { return OpMouseDown }

type MouseUpMsg struct{ Button int8 }

func (MouseUpMsg) Opcode() OpCode { return OpMouseUp }

// MouseWheelMsg is DMWM.
type MouseWheelMsg struct{ X, Y int16 }

func (MouseWheelMsg) Opcode() OpCode { return OpMouseWheel }

// KeyDownMsg / KeyUpMsg / KeyRepeatMsg are DKDN / DKUP / DKRP.
type KeyDownMsg struct {
	ID     uint16
	Mask   uint16
	Button uint16
}

func (KeyDownMsg) Opcode() OpCode { return OpKeyDown }

type KeyUpMsg struct {
	ID     uint16
	Mask   uint16
	Button uint16
}

func (KeyUpMsg) Opcode() OpCode { return OpKeyUp }

type KeyRepeatMsg struct {
	ID     uint16
	Mask   uint16
	Count  uint16
	Button uint16
}

func (KeyRepeatMsg) Opcode() OpCode { return OpKeyRepeat }

// SetOptionsMsg is DSOP: a flat array of u32 option/value pairs. The
// dispatcher accepts it and discards it; the options are not kept.
type SetOptionsMsg struct{ Options []uint32 }

func (SetOptionsMsg) Opcode() OpCode { return OpSetOptions }

// ClipboardMsg covers DCLP/CCLP: accepted and ignored per spec.md §1.
type ClipboardMsg struct {
	ID   uint8
	Seq  uint32
	Data []byte
}

func (ClipboardMsg) Opcode() OpCode { return OpClipboardData }

// ErrorMsg covers EBAD/EBSY/EUNK: empty, terminal messages.
type ErrorMsg struct{ Code OpCode }

func (m ErrorMsg) Opcode() OpCode { return m.Code }

// IncompatibleMsg is EICV, carrying the server's advertised version.
type IncompatibleMsg struct{ Major, Minor uint16 }

func (IncompatibleMsg) Opcode() OpCode { return OpErrIncompatible }

// OpaqueMessage is the catch-all for opcodes this client doesn't register a
// decoder for. Never fatal at decode time (spec.md §4.2).
type OpaqueMessage struct {
	Code    OpCode
	Payload []byte
}

func (m OpaqueMessage) Opcode() OpCode { return m.Code }

func (m OpaqueMessage) String() string {
	return fmt.Sprintf("Opaque{%s, %d bytes}", m.Code, len(m.Payload))
}

// HelloMsg and HelloBackMsg model the handshake exchange described in
// spec.md §4.7 and §6. They are framed the same length-prefixed way as every
// other message; the "Synergy" literal is the first 7 bytes of their
// payload rather than a 4-byte opcode, which is why they are decoded
// separately in Session rather than through the opcode registry.
type HelloMsg struct{ Major, Minor uint16 }

type HelloBackMsg struct {
	Major, Minor uint16
	ClientName   string
}
