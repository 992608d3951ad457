package vtree

import (
	"fmt"

	"github.com/arbor-dev/arbor/pkg/platform"
)

// HandleKind tags a storage slot.
type HandleKind uint8

const (
	HandleElement   HandleKind = iota // live element node
	HandleText                        // live text node
	HandleRaw                         // live raw-markup node
	HandleListener                    // live event subscription
	HandleComponent                   // mounted nested component
	handleTaken                       // consumed earlier this cycle
)

// String returns the string representation of the HandleKind.
func (k HandleKind) String() string {
	switch k {
	case HandleElement:
		return "Element"
	case HandleText:
		return "Text"
	case HandleRaw:
		return "Raw"
	case HandleListener:
		return "Listener"
	case HandleComponent:
		return "Component"
	case handleTaken:
		return "Taken"
	default:
		return "Unknown"
	}
}

// StoredHandle is one slot of the ledger: the live handle recorded for
// one Element, Text, Raw, Event, or Component item of the previously
// rendered stream.
type StoredHandle struct {
	Kind     HandleKind
	Node     platform.Node          // HandleElement, HandleText, HandleRaw
	Listener platform.ListenerToken // HandleListener
	Comp     Mounted                // HandleComponent
}

// Storage is the positional ledger correlating a rendered item stream
// to live platform handles. It exclusively owns its handles until a
// diff/patch cycle migrates each one into the next ledger or destroys
// it. A ledger is built once per apply and replaced wholesale by the
// next successful apply.
type Storage struct {
	slots []StoredHandle
}

// NewStorage returns an empty ledger, as used for the first attach.
func NewStorage() *Storage {
	return &Storage{}
}

// Len returns the number of slots.
func (s *Storage) Len() int { return len(s.slots) }

// Slot returns the i'th slot without consuming it. Callers outside the
// diff walk (a parent enumerating its top-level nodes, say) read the
// ledger positionally; taking stays private to Diff.
func (s *Storage) Slot(i int) (StoredHandle, bool) {
	if i < 0 || i >= len(s.slots) {
		return StoredHandle{}, false
	}
	return s.slots[i], true
}

func (s *Storage) appendSlot(h StoredHandle) {
	s.slots = append(s.slots, h)
}

// reader walks a ledger in lockstep with the old item stream. Reading
// consumes: a slot read twice in one cycle, or past the end, means the
// stream and ledger were not produced by matching cycles, which is
// fatal by contract.
type reader struct {
	st  *Storage
	pos int
}

func (r *reader) take(want HandleKind) StoredHandle {
	if r.pos >= len(r.st.slots) {
		panic(fmt.Sprintf("vtree: storage exhausted at slot %d (want %s)", r.pos, want))
	}
	h := r.st.slots[r.pos]
	if h.Kind == handleTaken {
		panic(fmt.Sprintf("vtree: storage slot %d read twice", r.pos))
	}
	if h.Kind != want {
		panic(fmt.Sprintf("vtree: storage slot %d holds %s, want %s", r.pos, h.Kind, want))
	}
	r.st.slots[r.pos].Kind = handleTaken
	r.pos++
	return h
}

// drained panics unless every slot was consumed, catching diffs that
// were handed a ledger from some other cycle.
func (r *reader) drained() {
	if r.pos != len(r.st.slots) {
		panic(fmt.Sprintf("vtree: %d of %d storage slots never consumed",
			len(r.st.slots)-r.pos, len(r.st.slots)))
	}
}
