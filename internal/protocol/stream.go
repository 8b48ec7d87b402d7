package protocol

import (
	"encoding/binary"
	"fmt"
)

// MaxMessageSize bounds a single frame's opcode+payload size. Grounded on
// original_source/packages/pynergy_protocol/src/pynergy_protocol/parser.py's
// feed()/_parse_packet() buffering pattern, but spec.md §4.3/§8 fixes this at
// 128 KiB rather than the Python original's 10 MiB ceiling.
const MaxMessageSize = 128 * 1024

const lenPrefixSize = 4
const opcodeSize = 4

// ProtocolError is fatal: StreamParser returns it when the framing itself
// cannot be trusted (an oversized length prefix), and the session must close
// the connection rather than attempt to resynchronize.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "protocol: " + e.Reason }

// StreamParser accumulates bytes read off the wire and yields complete
// frames as they become available. It tolerates arbitrary TCP fragmentation:
// Feed may be called with any slice boundary and Next will return the same
// message sequence regardless of how the caller chose to split the input.
type StreamParser struct {
	buf []byte
}

// NewStreamParser returns an empty parser ready to Feed.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed appends newly read bytes to the internal buffer.
func (p *StreamParser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Next returns the next complete message in the buffer, if one is fully
// present. It returns (nil, nil) when more bytes are needed. A
// *ProtocolError means the session must stop reading from this parser. Any
// other error is Decode's error (a *MalformedPayload) for a frame that has
// already been consumed, so the caller may log it and call Next again.
func (p *StreamParser) Next() (Message, error) {
	for {
		if len(p.buf) < lenPrefixSize {
			return nil, nil
		}
		frameLen := binary.BigEndian.Uint32(p.buf[0:lenPrefixSize])
		if frameLen > MaxMessageSize {
			return nil, &ProtocolError{Reason: fmt.Sprintf("frame length %d exceeds max %d", frameLen, MaxMessageSize)}
		}
		total := lenPrefixSize + int(frameLen)
		if len(p.buf) < total {
			return nil, nil
		}

		frame := p.buf[lenPrefixSize:total]
		p.buf = p.buf[total:]

		if len(frame) < opcodeSize {
			return nil, &ProtocolError{Reason: fmt.Sprintf("frame of %d bytes too short for an opcode", len(frame))}
		}
		var code OpCode
		copy(code[:], frame[:opcodeSize])
		payload := frame[opcodeSize:]

		msg, err := Decode(code, payload)
		if err != nil {
			// Malformed payload for a recognized opcode: log-and-drop per
			// spec.md §4.8. The frame is already consumed, so the caller's
			// next call to Next picks up the following frame rather than
			// stalling the parser.
			return nil, err
		}
		return msg, nil
	}
}

// EncodeFrame wraps an opcode and payload in the 4-byte big-endian length
// prefix that covers opcode+payload together.
func EncodeFrame(code OpCode, payload []byte) []byte {
	frame := make([]byte, lenPrefixSize+opcodeSize+len(payload))
	binary.BigEndian.PutUint32(frame[0:lenPrefixSize], uint32(opcodeSize+len(payload)))
	copy(frame[lenPrefixSize:lenPrefixSize+opcodeSize], code[:])
	copy(frame[lenPrefixSize+opcodeSize:], payload)
	return frame
}

// EncodeMessage is the Encode+EncodeFrame convenience used by Session to
// turn an outgoing Message directly into wire bytes. A clipboard payload
// large enough to push the frame past MaxMessageSize is rejected rather
// than silently sent and then rejected by the peer's own framing check.
func EncodeMessage(m Message) ([]byte, error) {
	code, payload, err := Encode(m)
	if err != nil {
		return nil, err
	}
	if opcodeSize+len(payload) > MaxMessageSize {
		return nil, &OverflowError{Field: "frame", Value: int64(opcodeSize + len(payload))}
	}
	return EncodeFrame(code, payload), nil
}

// helloPrefix is the literal that opens the payload of the first frame of
// every Synergy/Barrier/Deskflow connection, right after its length prefix.
const helloPrefix = "Synergy"

// EncodeHello builds the handshake frame a server sends: "Synergy" ||
// major:u16 || minor:u16, wrapped in the ordinary 4-byte length prefix
// covering the whole payload.
func EncodeHello(m HelloMsg) []byte {
	payload := make([]byte, len(helloPrefix)+4)
	copy(payload, helloPrefix)
	binary.BigEndian.PutUint16(payload[len(helloPrefix):len(helloPrefix)+2], m.Major)
	binary.BigEndian.PutUint16(payload[len(helloPrefix)+2:], m.Minor)
	frame := make([]byte, lenPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame[0:lenPrefixSize], uint32(len(payload)))
	copy(frame[lenPrefixSize:], payload)
	return frame
}

// EncodeHelloBack builds the client's reply: "Synergy" || major:u16 ||
// minor:u16 || name (length-prefixed string), wrapped the same way.
func EncodeHelloBack(m HelloBackMsg) []byte {
	nameBytes := []byte(m.ClientName)
	payload := make([]byte, len(helloPrefix)+4+4+len(nameBytes))
	off := 0
	copy(payload[off:], helloPrefix)
	off += len(helloPrefix)
	binary.BigEndian.PutUint16(payload[off:off+2], m.Major)
	off += 2
	binary.BigEndian.PutUint16(payload[off:off+2], m.Minor)
	off += 2
	binary.BigEndian.PutUint32(payload[off:off+4], uint32(len(nameBytes)))
	off += 4
	copy(payload[off:], nameBytes)

	frame := make([]byte, lenPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame[0:lenPrefixSize], uint32(len(payload)))
	copy(frame[lenPrefixSize:], payload)
	return frame
}

// DecodeHello parses a complete "Synergy"+major+minor payload (the bytes
// after the 4-byte length prefix has already been stripped and the length
// validated by the caller).
func DecodeHello(payload []byte) (HelloMsg, error) {
	if len(payload) < len(helloPrefix)+4 {
		return HelloMsg{}, &ProtocolError{Reason: "hello frame too short"}
	}
	if string(payload[:len(helloPrefix)]) != helloPrefix {
		return HelloMsg{}, &ProtocolError{Reason: "missing Synergy greeting"}
	}
	off := len(helloPrefix)
	return HelloMsg{
		Major: binary.BigEndian.Uint16(payload[off : off+2]),
		Minor: binary.BigEndian.Uint16(payload[off+2 : off+4]),
	}, nil
}
