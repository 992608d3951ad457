package protocol

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestPatchesFrameRoundtrip(t *testing.T) {
	in := &PatchesFrame{
		Seq: 42,
		Patches: []Patch{
			{Op: OpCreateElement, Node: 1, Ref: 0, Name: "div"},
			{Op: OpCreateText, Node: 2, Ref: 1, Value: "hello"},
			{Op: OpCreateRaw, Node: 3, Ref: 1, Value: "<hr>"},
			{Op: OpSetText, Node: 2, Value: "bye"},
			{Op: OpSetAttr, Node: 1, Name: "class", Value: "x"},
			{Op: OpRemoveAttr, Node: 1, Name: "class"},
			{Op: OpListen, Node: 1, Ref: 7, Name: "click"},
			{Op: OpUnlisten, Ref: 7},
			{Op: OpMove, Node: 2, Ref: 0},
			{Op: OpRemove, Node: 3},
		},
	}
	f, err := DecodeFrame(EncodePatches(in))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Type != FramePatches {
		t.Errorf("Type = %v, want Patches", f.Type)
	}
	if f.Seq != 42 {
		t.Errorf("Seq = %d, want 42", f.Seq)
	}
	if !reflect.DeepEqual(f.Patches, in.Patches) {
		t.Errorf("Patches = %+v, want %+v", f.Patches, in.Patches)
	}
}

// TestPatchWireLayout pins the byte-level field order of every op. The
// browser client reads these layouts independently, so a reordering
// that still round-trips in Go breaks the wire.
func TestPatchWireLayout(t *testing.T) {
	for _, tc := range []struct {
		name  string
		patch Patch
		want  []byte
	}{
		{"create element", Patch{Op: OpCreateElement, Node: 7, Ref: 3, Name: "div"},
			[]byte{0x01, 7, 3, 0, 3, 'd', 'i', 'v'}},
		{"create text", Patch{Op: OpCreateText, Node: 7, Ref: 3, Value: "hi"},
			[]byte{0x02, 7, 3, 2, 'h', 'i'}},
		{"create raw", Patch{Op: OpCreateRaw, Node: 7, Ref: 3, Value: "<hr>"},
			[]byte{0x03, 7, 3, 4, '<', 'h', 'r', '>'}},
		{"set text", Patch{Op: OpSetText, Node: 7, Value: "x"},
			[]byte{0x04, 7, 1, 'x'}},
		{"set attr", Patch{Op: OpSetAttr, Node: 7, Name: "id", Value: "a"},
			[]byte{0x05, 7, 2, 'i', 'd', 1, 'a'}},
		{"remove attr", Patch{Op: OpRemoveAttr, Node: 7, Name: "id"},
			[]byte{0x06, 7, 2, 'i', 'd'}},
		{"remove", Patch{Op: OpRemove, Node: 7},
			[]byte{0x07, 7}},
		{"listen", Patch{Op: OpListen, Node: 7, Ref: 3, Name: "click"},
			[]byte{0x08, 7, 3, 5, 'c', 'l', 'i', 'c', 'k'}},
		{"unlisten", Patch{Op: OpUnlisten, Ref: 3},
			[]byte{0x09, 3}},
		{"move", Patch{Op: OpMove, Node: 7, Ref: 3},
			[]byte{0x0A, 7, 3}},
	} {
		e := NewEncoder()
		tc.patch.encode(e)
		if !reflect.DeepEqual(e.Bytes(), tc.want) {
			t.Errorf("%s: bytes = % x, want % x", tc.name, e.Bytes(), tc.want)
		}
	}
}

func TestEventFrameRoundtrip(t *testing.T) {
	in := &Event{
		Seq:      9,
		Listener: 3,
		Trigger:  "keydown",
		Value:    "draft text",
		Checked:  true,
		Key:      "Enter",
		X:        -12,
		Y:        480,
	}
	f, err := DecodeFrame(EncodeEvent(in))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Type != FrameEvent {
		t.Errorf("Type = %v, want Event", f.Type)
	}
	if !reflect.DeepEqual(f.Event, in) {
		t.Errorf("Event = %+v, want %+v", f.Event, in)
	}
}

func TestPingPongFrames(t *testing.T) {
	for _, tc := range []struct {
		buf  []byte
		want FrameType
	}{
		{Ping, FramePing},
		{Pong, FramePong},
	} {
		f, err := DecodeFrame(tc.buf)
		if err != nil {
			t.Fatalf("DecodeFrame(%v): %v", tc.buf, err)
		}
		if f.Type != tc.want {
			t.Errorf("Type = %v, want %v", f.Type, tc.want)
		}
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	buf := append(EncodePatches(&PatchesFrame{Seq: 1}), 0xFF)
	if _, err := DecodeFrame(buf); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("err = %v, want ErrTrailingBytes", err)
	}
}

func TestDecodeRejectsUnknownFrameType(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x7F}); err == nil {
		t.Error("unknown frame type decoded without error")
	}
}

func TestDecodeRejectsEmptyBuffer(t *testing.T) {
	if _, err := DecodeFrame(nil); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestDecodeRejectsTruncatedEvent(t *testing.T) {
	buf := EncodeEvent(&Event{Seq: 1, Listener: 2, Trigger: "click"})
	if _, err := DecodeFrame(buf[:len(buf)-3]); err == nil {
		t.Error("truncated event decoded without error")
	}
}

func TestDecodeRejectsVarintOverflow(t *testing.T) {
	// Frame type byte followed by an endless continuation varint.
	buf := []byte{byte(FramePatches)}
	for range 11 {
		buf = append(buf, 0xFF)
	}
	if _, err := DecodeFrame(buf); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestDecodeRejectsOversizedString(t *testing.T) {
	e := NewEncoder()
	e.writeByte(byte(FrameEvent))
	e.writeUvarint(1)                // seq
	e.writeUvarint(2)                // listener
	e.writeUvarint(MaxStringLen + 1) // trigger length prefix, no body
	if _, err := DecodeFrame(e.Bytes()); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("err = %v, want ErrStringTooLong", err)
	}
}

func TestDecodeRejectsExcessivePatchCount(t *testing.T) {
	e := NewEncoder()
	e.writeByte(byte(FramePatches))
	e.writeUvarint(1) // seq
	e.writeUvarint(MaxPatchCount + 1)
	if _, err := DecodeFrame(e.Bytes()); !errors.Is(err, ErrTooManyPatches) {
		t.Errorf("err = %v, want ErrTooManyPatches", err)
	}
}

func TestSvarintRoundtrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 63, -64, 1<<40 - 7, -(1 << 40)} {
		e := NewEncoder()
		e.writeSvarint(v)
		d := NewDecoder(e.Bytes())
		got, err := d.readSvarint()
		if err != nil {
			t.Fatalf("readSvarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("roundtrip %d = %d", v, got)
		}
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.writeString("abc")
	if e.Len() == 0 {
		t.Fatal("Len() = 0 after write")
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", e.Len())
	}
}
