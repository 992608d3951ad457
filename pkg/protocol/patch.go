package protocol

import "fmt"

// Op is a wire mutation operation.
type Op uint8

const (
	OpCreateElement Op = 0x01 // id, parent, tag
	OpCreateText    Op = 0x02 // id, parent, text
	OpCreateRaw     Op = 0x03 // id, parent, markup
	OpSetText       Op = 0x04 // id, text
	OpSetAttr       Op = 0x05 // id, name, value
	OpRemoveAttr    Op = 0x06 // id, name
	OpRemove        Op = 0x07 // id
	OpListen        Op = 0x08 // id, listener, trigger
	OpUnlisten      Op = 0x09 // listener
	OpMove          Op = 0x0A // id, parent
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateRaw:
		return "CreateRaw"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpRemove:
		return "Remove"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// Patch is one wire mutation. Node is the target node ID (the root
// container is ID 0), Ref is the parent ID for creates and Move or the
// listener ID for Listen/Unlisten.
type Patch struct {
	Op    Op
	Node  uint64
	Ref   uint64
	Name  string // tag, attribute name, or event trigger
	Value string // text content, markup, or attribute value
}

func (p Patch) encode(e *Encoder) {
	e.writeByte(byte(p.Op))
	switch p.Op {
	case OpCreateElement, OpCreateText, OpCreateRaw:
		e.writeUvarint(p.Node)
		e.writeUvarint(p.Ref)
		e.writeString(p.Value)
		if p.Op == OpCreateElement {
			e.writeString(p.Name)
		}
	case OpSetText:
		e.writeUvarint(p.Node)
		e.writeString(p.Value)
	case OpSetAttr:
		e.writeUvarint(p.Node)
		e.writeString(p.Name)
		e.writeString(p.Value)
	case OpRemoveAttr:
		e.writeUvarint(p.Node)
		e.writeString(p.Name)
	case OpRemove:
		e.writeUvarint(p.Node)
	case OpListen:
		e.writeUvarint(p.Node)
		e.writeUvarint(p.Ref)
		e.writeString(p.Name)
	case OpUnlisten:
		e.writeUvarint(p.Ref)
	case OpMove:
		e.writeUvarint(p.Node)
		e.writeUvarint(p.Ref)
	}
}

func decodePatch(d *Decoder) (Patch, error) {
	opByte, err := d.readByte()
	if err != nil {
		return Patch{}, err
	}
	p := Patch{Op: Op(opByte)}
	switch p.Op {
	case OpCreateElement, OpCreateText, OpCreateRaw:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Ref, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Value, err = d.readString(); err != nil {
			return p, err
		}
		if p.Op == OpCreateElement {
			if p.Name, err = d.readString(); err != nil {
				return p, err
			}
		}
	case OpSetText:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Value, err = d.readString(); err != nil {
			return p, err
		}
	case OpSetAttr:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Name, err = d.readString(); err != nil {
			return p, err
		}
		if p.Value, err = d.readString(); err != nil {
			return p, err
		}
	case OpRemoveAttr:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Name, err = d.readString(); err != nil {
			return p, err
		}
	case OpRemove:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
	case OpListen:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Ref, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Name, err = d.readString(); err != nil {
			return p, err
		}
	case OpUnlisten:
		if p.Ref, err = d.readUvarint(); err != nil {
			return p, err
		}
	case OpMove:
		if p.Node, err = d.readUvarint(); err != nil {
			return p, err
		}
		if p.Ref, err = d.readUvarint(); err != nil {
			return p, err
		}
	default:
		return p, fmt.Errorf("protocol: unknown op 0x%02x", opByte)
	}
	return p, nil
}
