package protocol

import "fmt"

// FrameType identifies one websocket message's payload.
type FrameType uint8

const (
	FramePatches FrameType = 0x01 // server -> client mutations
	FrameEvent   FrameType = 0x02 // client -> server event
	FramePing    FrameType = 0x03
	FramePong    FrameType = 0x04
)

// String returns the string representation of the FrameType.
func (t FrameType) String() string {
	switch t {
	case FramePatches:
		return "Patches"
	case FrameEvent:
		return "Event"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	default:
		return "Unknown"
	}
}

// PatchesFrame is one batch of mutations, sequenced so the client can
// detect gaps after reconnects.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame into a websocket message.
func EncodePatches(f *PatchesFrame) []byte {
	e := NewEncoder()
	e.writeByte(byte(FramePatches))
	e.writeUvarint(f.Seq)
	e.writeUvarint(uint64(len(f.Patches)))
	for _, p := range f.Patches {
		p.encode(e)
	}
	return e.Bytes()
}

// Event is one client-side platform event, addressed by the listener
// ID the server registered.
type Event struct {
	Seq      uint64
	Listener uint64
	Trigger  string
	Value    string
	Checked  bool
	Key      string
	X, Y     int
}

// EncodeEvent encodes an event frame into a websocket message. In
// production event frames are produced by the browser client; this is
// the codec's symmetric half, used by tests and replay tooling.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.writeByte(byte(FrameEvent))
	e.writeUvarint(ev.Seq)
	e.writeUvarint(ev.Listener)
	e.writeString(ev.Trigger)
	e.writeString(ev.Value)
	e.writeBool(ev.Checked)
	e.writeString(ev.Key)
	e.writeSvarint(int64(ev.X))
	e.writeSvarint(int64(ev.Y))
	return e.Bytes()
}

// Ping and Pong are single-byte frames.
var (
	Ping = []byte{byte(FramePing)}
	Pong = []byte{byte(FramePong)}
)

// Frame is a decoded websocket message.
type Frame struct {
	Type    FrameType
	Seq     uint64
	Patches []Patch // FramePatches
	Event   *Event  // FrameEvent
}

// DecodeFrame decodes one websocket message. The whole buffer must be
// consumed; trailing bytes indicate a framing bug.
func DecodeFrame(buf []byte) (*Frame, error) {
	d := NewDecoder(buf)
	tb, err := d.readByte()
	if err != nil {
		return nil, err
	}
	f := &Frame{Type: FrameType(tb)}
	switch f.Type {
	case FramePatches:
		if f.Seq, err = d.readUvarint(); err != nil {
			return nil, err
		}
		count, err := d.readUvarint()
		if err != nil {
			return nil, err
		}
		if count > MaxPatchCount {
			return nil, ErrTooManyPatches
		}
		f.Patches = make([]Patch, 0, count)
		for range count {
			p, err := decodePatch(d)
			if err != nil {
				return nil, err
			}
			f.Patches = append(f.Patches, p)
		}
	case FrameEvent:
		ev := &Event{}
		if ev.Seq, err = d.readUvarint(); err != nil {
			return nil, err
		}
		if ev.Listener, err = d.readUvarint(); err != nil {
			return nil, err
		}
		if ev.Trigger, err = d.readString(); err != nil {
			return nil, err
		}
		if ev.Value, err = d.readString(); err != nil {
			return nil, err
		}
		if ev.Checked, err = d.readBool(); err != nil {
			return nil, err
		}
		if ev.Key, err = d.readString(); err != nil {
			return nil, err
		}
		x, err := d.readSvarint()
		if err != nil {
			return nil, err
		}
		y, err := d.readSvarint()
		if err != nil {
			return nil, err
		}
		ev.X, ev.Y = int(x), int(y)
		f.Seq = ev.Seq
		f.Event = ev
	case FramePing, FramePong:
		// no payload
	default:
		return nil, fmt.Errorf("protocol: unknown frame type 0x%02x", tb)
	}
	if d.Remaining() != 0 {
		return nil, ErrTrailingBytes
	}
	return f, nil
}
