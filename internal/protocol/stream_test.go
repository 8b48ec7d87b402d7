package protocol

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func drain(t *testing.T, p *StreamParser) []Message {
	t.Helper()
	var out []Message
	for {
		msg, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg == nil {
			return out
		}
		out = append(out, msg)
	}
}

func TestStreamParserWholeVsSplitFeed(t *testing.T) {
	var wire []byte
	msgs := []Message{
		KeepAliveMsg{},
		MouseMoveAbsMsg{X: 10, Y: 20},
		KeyDownMsg{ID: 0x61, Mask: 0, Button: 30},
		CursorLeaveMsg{},
	}
	for _, m := range msgs {
		b, err := EncodeMessage(m)
		if err != nil {
			t.Fatalf("EncodeMessage: %v", err)
		}
		wire = append(wire, b...)
	}

	whole := NewStreamParser()
	whole.Feed(wire)
	gotWhole := drain(t, whole)

	for split := 0; split <= len(wire); split++ {
		p := NewStreamParser()
		p.Feed(wire[:split])
		var got []Message
		got = append(got, drain(t, p)...)
		p.Feed(wire[split:])
		got = append(got, drain(t, p)...)
		if !reflect.DeepEqual(got, gotWhole) {
			t.Fatalf("split at %d: got %#v, want %#v", split, got, gotWhole)
		}
	}
}

func TestStreamParserZeroLengthFrameIsProtocolError(t *testing.T) {
	// len=0 means an empty opcode+payload, which is too short for a 4-byte
	// opcode: this must surface as a *ProtocolError, not a panic or silent
	// message.
	p := NewStreamParser()
	frame := make([]byte, 4)
	binary.BigEndian.PutUint32(frame, 0)
	p.Feed(frame)
	_, err := p.Next()
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("expected *ProtocolError for len=0 frame, got %T: %v", err, err)
	}
}

func TestStreamParserMaxMessageSizeDecodesAtBoundary(t *testing.T) {
	p := NewStreamParser()
	payload := make([]byte, MaxMessageSize-4) // -4 for the opcode itself
	frame := EncodeFrame(OpClipboardData, payload[:len(payload)])
	// frame's declared length must equal MaxMessageSize exactly.
	p.Feed(frame)
	_, err := p.Next()
	if err != nil {
		t.Fatalf("expected len=MaxMessageSize frame to decode, got error: %v", err)
	}
}

func TestStreamParserOverMaxMessageSizeIsProtocolError(t *testing.T) {
	p := NewStreamParser()
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, MaxMessageSize+1)
	p.Feed(header)
	_, err := p.Next()
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("expected *ProtocolError for len=MaxMessageSize+1, got %T: %v", err, err)
	}
}

func TestStreamParserNeedsMoreBytesReturnsNilNil(t *testing.T) {
	p := NewStreamParser()
	p.Feed([]byte{0, 0, 0, 10}) // declares a 10-byte frame, supplies none of it
	msg, err := p.Next()
	if msg != nil || err != nil {
		t.Fatalf("expected (nil, nil) while frame incomplete, got (%v, %v)", msg, err)
	}
}

func TestDecodeHelloRoundTrip(t *testing.T) {
	frame := EncodeHello(HelloMsg{Major: 1, Minor: 6})
	length := binary.BigEndian.Uint32(frame[0:4])
	payload := frame[4 : 4+length]
	got, err := DecodeHello(payload)
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if got.Major != 1 || got.Minor != 6 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeHelloRejectsMissingGreeting(t *testing.T) {
	payload := []byte("NotSynergy00")
	if _, err := DecodeHello(payload); err == nil {
		t.Fatal("expected error for missing Synergy greeting")
	}
}

func TestEncodeMessageRejectsOversizedClipboard(t *testing.T) {
	m := ClipboardMsg{ID: 0, Seq: 1, Data: make([]byte, MaxMessageSize)}
	_, err := EncodeMessage(m)
	if _, ok := err.(*OverflowError); !ok {
		t.Fatalf("expected *OverflowError for oversized clipboard payload, got %T: %v", err, err)
	}
}
