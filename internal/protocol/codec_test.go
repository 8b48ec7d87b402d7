package protocol

import (
	"reflect"
	"testing"
)

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	code, payload, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode(%#v): %v", m, err)
	}
	got, err := Decode(code, payload)
	if err != nil {
		t.Fatalf("Decode(%s, %v): %v", code, payload, err)
	}
	return got
}

func TestCodecRoundTrip(t *testing.T) {
	cases := []Message{
		QueryInfoMsg{},
		InfoAckMsg{},
		KeepAliveMsg{},
		NoOpMsg{},
		CursorLeaveMsg{},
		ResetOptionsMsg{},
		ScreenInfo{X: 0, Y: 0, Width: 1920, Height: 1080, WarpSize: 0, MouseX: 960, MouseY: 540},
		CursorEnterMsg{X: 100, Y: 200, Seq: 42, ModMask: 0x3},
		MouseMoveAbsMsg{X: -5, Y: 3000},
		MouseMoveRelMsg{DX: -1, DY: 1},
		MouseDownMsg{Button: 1},
		MouseUpMsg{Button: 3},
		MouseWheelMsg{X: 0, Y: -120},
		KeyDownMsg{ID: 0x61, Mask: 0, Button: 30},
		KeyUpMsg{ID: 0x61, Mask: 0, Button: 30},
		KeyRepeatMsg{ID: 0x61, Mask: 0, Count: 3, Button: 30},
		SetOptionsMsg{Options: []uint32{1, 2, 3}},
		ClipboardMsg{ID: 0, Seq: 7, Data: []byte("hello")},
		IncompatibleMsg{Major: 1, Minor: 6},
		OpaqueMessage{Code: OpCode{'X', 'Y', 'Z', 'Z'}, Payload: []byte{1, 2, 3}},
	}
	for _, m := range cases {
		got := roundTrip(t, m)
		if !reflect.DeepEqual(got, m) {
			t.Fatalf("round trip mismatch: got %#v, want %#v", got, m)
		}
	}
}

func TestDecodeUnknownOpcodeIsOpaque(t *testing.T) {
	code := OpCode{'Z', 'Z', 'Z', 'Z'}
	msg, err := Decode(code, []byte{9, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op, ok := msg.(OpaqueMessage)
	if !ok {
		t.Fatalf("expected OpaqueMessage, got %T", msg)
	}
	if op.Code != code || len(op.Payload) != 2 {
		t.Fatalf("unexpected opaque contents: %+v", op)
	}
}

func TestDecodeMalformedPayloadIsRecoverable(t *testing.T) {
	_, err := Decode(OpKeyDown, []byte{1, 2})
	var mp *MalformedPayload
	if err == nil {
		t.Fatal("expected malformed payload error")
	}
	if !asMalformed(err, &mp) {
		t.Fatalf("expected *MalformedPayload, got %T: %v", err, err)
	}
}

func asMalformed(err error, target **MalformedPayload) bool {
	if mp, ok := err.(*MalformedPayload); ok {
		*target = mp
		return true
	}
	return false
}

func TestEncodeOpaquePreservesRawOpcode(t *testing.T) {
	code := OpCode{'F', 'O', 'O', 'B'}
	got, payload, err := Encode(OpaqueMessage{Code: code, Payload: []byte{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != code || len(payload) != 1 {
		t.Fatalf("unexpected encode: %v %v", got, payload)
	}
}
