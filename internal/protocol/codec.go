package protocol

import (
	"encoding/binary"
	"fmt"
)

// MalformedPayload is returned by Decode when a frame's opcode is recognized
// but its payload doesn't match the expected shape (wrong length, or a
// variable-length field whose declared size overruns the buffer). Per
// spec.md §4.8 this is recoverable: the caller logs and drops the message,
// it does not tear down the session the way a framing-level ProtocolError
// does.
type MalformedPayload struct {
	Code OpCode
	Err  error
}

func (e *MalformedPayload) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Code, e.Err)
}

func (e *MalformedPayload) Unwrap() error { return e.Err }

// OverflowError is returned by EncodeMessage when an encoded frame would
// exceed MaxMessageSize. Per spec.md §4.2 this is always an explicit
// encoding error, never a silent truncation.
type OverflowError struct {
	Field string
	Value int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("field %s value %d overflows its wire width", e.Field, e.Value)
}

// Decode turns a frame's opcode and payload into a Message. Unknown opcodes
// decode to OpaqueMessage rather than failing, per spec.md §4.2.
func Decode(code OpCode, payload []byte) (Message, error) {
	switch code {
	case OpQueryInfo:
		return QueryInfoMsg{}, nil
	case OpDeviceInfo:
		return decodeScreenInfo(payload)
	case OpInfoAck:
		return InfoAckMsg{}, nil
	case OpKeepAlive:
		return KeepAliveMsg{}, nil
	case OpNoOp:
		return NoOpMsg{}, nil
	case OpCursorEnter:
		return decodeCursorEnter(payload)
	case OpCursorLeave:
		return CursorLeaveMsg{}, nil
	case OpResetOptions:
		return ResetOptionsMsg{}, nil
	case OpMouseMoveAbs:
		return decodeMouseMoveAbs(payload)
	case OpMouseMoveRel:
		return decodeMouseMoveRel(payload)
	case OpMouseDown:
		return decodeMouseButton(payload, func(b int8) Message { return MouseDownMsg{Button: b} })
	case OpMouseUp:
		return decodeMouseButton(payload, func(b int8) Message { return MouseUpMsg{Button: b} })
	case OpMouseWheel:
		return decodeMouseWheel(payload)
	case OpKeyDown:
		return decodeKeyDown(payload)
	case OpKeyUp:
		return decodeKeyUp(payload)
	case OpKeyRepeat:
		return decodeKeyRepeat(payload)
	case OpSetOptions:
		return decodeSetOptions(payload)
	case OpClipboardData:
		return decodeClipboard(payload, OpClipboardData)
	case OpClipboardGrab:
		return decodeClipboard(payload, OpClipboardGrab)
	case OpErrBad, OpErrBusy, OpErrUnknown:
		return ErrorMsg{Code: code}, nil
	case OpErrIncompatible:
		return decodeIncompatible(payload)
	default:
		cp := make([]byte, len(payload))
		copy(cp, payload)
		return OpaqueMessage{Code: code, Payload: cp}, nil
	}
}

// Encode turns a Message back into its opcode and payload bytes. The caller
// (EncodeFrame / EncodeMessage in stream.go) is responsible for prefixing
// the 4-byte big-endian length that covers opcode+payload.
func Encode(m Message) (OpCode, []byte, error) {
	switch v := m.(type) {
	case QueryInfoMsg, InfoAckMsg, KeepAliveMsg, NoOpMsg, CursorLeaveMsg, ResetOptionsMsg:
		return m.Opcode(), nil, nil
	case ScreenInfo:
		return m.Opcode(), encodeScreenInfo(v), nil
	case CursorEnterMsg:
		return m.Opcode(), encodeCursorEnter(v), nil
	case MouseMoveAbsMsg:
		return m.Opcode(), encodeI16Pair(v.X, v.Y), nil
	case MouseMoveRelMsg:
		return m.Opcode(), encodeI16Pair(v.DX, v.DY), nil
	case MouseDownMsg:
		return m.Opcode(), []byte{byte(v.Button)}, nil
	case MouseUpMsg:
		return m.Opcode(), []byte{byte(v.Button)}, nil
	case MouseWheelMsg:
		return m.Opcode(), encodeI16Pair(v.X, v.Y), nil
	case KeyDownMsg:
		return m.Opcode(), encodeKeyDownUp(v.ID, v.Mask, v.Button), nil
	case KeyUpMsg:
		return m.Opcode(), encodeKeyDownUp(v.ID, v.Mask, v.Button), nil
	case KeyRepeatMsg:
		return m.Opcode(), encodeKeyRepeat(v), nil
	case SetOptionsMsg:
		return m.Opcode(), encodeSetOptions(v), nil
	case ClipboardMsg:
		return m.Opcode(), encodeClipboard(v), nil
	case ErrorMsg:
		return m.Opcode(), nil, nil
	case IncompatibleMsg:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint16(buf[0:2], v.Major)
		binary.BigEndian.PutUint16(buf[2:4], v.Minor)
		return m.Opcode(), buf, nil
	case OpaqueMessage:
		return v.Code, v.Payload, nil
	default:
		return OpCode{}, nil, fmt.Errorf("protocol: no encoder registered for %T", m)
	}
}

func requireLen(payload []byte, n int, code OpCode) error {
	if len(payload) != n {
		return &MalformedPayload{Code: code, Err: fmt.Errorf("want %d bytes, got %d", n, len(payload))}
	}
	return nil
}

func decodeScreenInfo(p []byte) (Message, error) {
	if err := requireLen(p, 14, OpDeviceInfo); err != nil {
		return nil, err
	}
	return ScreenInfo{
		X:        int16(binary.BigEndian.Uint16(p[0:2])),
		Y:        int16(binary.BigEndian.Uint16(p[2:4])),
		Width:    binary.BigEndian.Uint16(p[4:6]),
		Height:   binary.BigEndian.Uint16(p[6:8]),
		WarpSize: binary.BigEndian.Uint16(p[8:10]),
		MouseX:   int16(binary.BigEndian.Uint16(p[10:12])),
		MouseY:   int16(binary.BigEndian.Uint16(p[12:14])),
	}, nil
}

func encodeScreenInfo(s ScreenInfo) []byte {
	buf := make([]byte, 14)
	binary.BigEndian.PutUint16(buf[0:2], uint16(s.X))
	binary.BigEndian.PutUint16(buf[2:4], uint16(s.Y))
	binary.BigEndian.PutUint16(buf[4:6], s.Width)
	binary.BigEndian.PutUint16(buf[6:8], s.Height)
	binary.BigEndian.PutUint16(buf[8:10], s.WarpSize)
	binary.BigEndian.PutUint16(buf[10:12], uint16(s.MouseX))
	binary.BigEndian.PutUint16(buf[12:14], uint16(s.MouseY))
	return buf
}

func decodeCursorEnter(p []byte) (Message, error) {
	if err := requireLen(p, 10, OpCursorEnter); err != nil {
		return nil, err
	}
	return CursorEnterMsg{
		X:       int16(binary.BigEndian.Uint16(p[0:2])),
		Y:       int16(binary.BigEndian.Uint16(p[2:4])),
		Seq:     binary.BigEndian.Uint32(p[4:8]),
		ModMask: binary.BigEndian.Uint16(p[8:10]),
	}, nil
}

func encodeCursorEnter(m CursorEnterMsg) []byte {
	buf := make([]byte, 10)
	binary.BigEndian.PutUint16(buf[0:2], uint16(m.X))
	binary.BigEndian.PutUint16(buf[2:4], uint16(m.Y))
	binary.BigEndian.PutUint32(buf[4:8], m.Seq)
	binary.BigEndian.PutUint16(buf[8:10], m.ModMask)
	return buf
}

func decodeMouseMoveAbs(p []byte) (Message, error) {
	if err := requireLen(p, 4, OpMouseMoveAbs); err != nil {
		return nil, err
	}
	return MouseMoveAbsMsg{
		X: int16(binary.BigEndian.Uint16(p[0:2])),
		Y: int16(binary.BigEndian.Uint16(p[2:4])),
	}, nil
}

func decodeMouseMoveRel(p []byte) (Message, error) {
	if err := requireLen(p, 4, OpMouseMoveRel); err != nil {
		return nil, err
	}
	return MouseMoveRelMsg{
		DX: int16(binary.BigEndian.Uint16(p[0:2])),
		DY: int16(binary.BigEndian.Uint16(p[2:4])),
	}, nil
}

func encodeI16Pair(a, b int16) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], uint16(a))
	binary.BigEndian.PutUint16(buf[2:4], uint16(b))
	return buf
}

func decodeMouseButton(p []byte, build func(int8) Message) (Message, error) {
	if len(p) != 1 {
		return nil, &MalformedPayload{Code: OpMouseDown, Err: fmt.Errorf("want 1 byte, got %d", len(p))}
	}
	return build(int8(p[0])), nil
}

func decodeMouseWheel(p []byte) (Message, error) {
	if err := requireLen(p, 4, OpMouseWheel); err != nil {
		return nil, err
	}
	return MouseWheelMsg{
		X: int16(binary.BigEndian.Uint16(p[0:2])),
		Y: int16(binary.BigEndian.Uint16(p[2:4])),
	}, nil
}

func decodeKeyDown(p []byte) (Message, error) {
	if err := requireLen(p, 6, OpKeyDown); err != nil {
		return nil, err
	}
	return KeyDownMsg{
		ID:     binary.BigEndian.Uint16(p[0:2]),
		Mask:   binary.BigEndian.Uint16(p[2:4]),
		Button: binary.BigEndian.Uint16(p[4:6]),
	}, nil
}

func decodeKeyUp(p []byte) (Message, error) {
	if err := requireLen(p, 6, OpKeyUp); err != nil {
		return nil, err
	}
	return KeyUpMsg{
		ID:     binary.BigEndian.Uint16(p[0:2]),
		Mask:   binary.BigEndian.Uint16(p[2:4]),
		Button: binary.BigEndian.Uint16(p[4:6]),
	}, nil
}

func decodeKeyRepeat(p []byte) (Message, error) {
	if err := requireLen(p, 8, OpKeyRepeat); err != nil {
		return nil, err
	}
	return KeyRepeatMsg{
		ID:     binary.BigEndian.Uint16(p[0:2]),
		Mask:   binary.BigEndian.Uint16(p[2:4]),
		Count:  binary.BigEndian.Uint16(p[4:6]),
		Button: binary.BigEndian.Uint16(p[6:8]),
	}, nil
}

func encodeKeyDownUp(id, mask, button uint16) []byte {
	buf := make([]byte, 6)
	binary.BigEndian.PutUint16(buf[0:2], id)
	binary.BigEndian.PutUint16(buf[2:4], mask)
	binary.BigEndian.PutUint16(buf[4:6], button)
	return buf
}

func encodeKeyRepeat(v KeyRepeatMsg) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint16(buf[0:2], v.ID)
	binary.BigEndian.PutUint16(buf[2:4], v.Mask)
	binary.BigEndian.PutUint16(buf[4:6], v.Count)
	binary.BigEndian.PutUint16(buf[6:8], v.Button)
	return buf
}

func decodeSetOptions(p []byte) (Message, error) {
	if len(p)%4 != 0 {
		return nil, &MalformedPayload{Code: OpSetOptions, Err: fmt.Errorf("length %d not a multiple of 4", len(p))}
	}
	opts := make([]uint32, len(p)/4)
	for i := range opts {
		opts[i] = binary.BigEndian.Uint32(p[i*4 : i*4+4])
	}
	return SetOptionsMsg{Options: opts}, nil
}

func encodeSetOptions(v SetOptionsMsg) []byte {
	buf := make([]byte, len(v.Options)*4)
	for i, o := range v.Options {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], o)
	}
	return buf
}

func decodeClipboard(p []byte, code OpCode) (Message, error) {
	if len(p) < 5 {
		return nil, &MalformedPayload{Code: code, Err: fmt.Errorf("payload too short: %d bytes", len(p))}
	}
	id := p[0]
	seq := binary.BigEndian.Uint32(p[1:5])
	data := make([]byte, len(p)-5)
	copy(data, p[5:])
	return ClipboardMsg{ID: id, Seq: seq, Data: data}, nil
}

func encodeClipboard(v ClipboardMsg) []byte {
	buf := make([]byte, 5+len(v.Data))
	buf[0] = v.ID
	binary.BigEndian.PutUint32(buf[1:5], v.Seq)
	copy(buf[5:], v.Data)
	return buf
}

func decodeIncompatible(p []byte) (Message, error) {
	if err := requireLen(p, 4, OpErrIncompatible); err != nil {
		return nil, err
	}
	return IncompatibleMsg{
		Major: binary.BigEndian.Uint16(p[0:2]),
		Minor: binary.BigEndian.Uint16(p[2:4]),
	}, nil
}
