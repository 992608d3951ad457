package vtree

import "fmt"

// defaultAlwaysSet are attributes the platform mutates out-of-band
// (user input changes a live checkbox without going through the tree
// description), so an unchanged value must still be re-asserted on
// every diff. Re-setting these is a correctness requirement, not an
// optimization. The set is a policy choice; override it per diff with
// WithAlwaysSet.
var defaultAlwaysSet = map[string]bool{
	"value":    true,
	"checked":  true,
	"selected": true,
}

// DiffOption configures one Diff call.
type DiffOption func(*differ)

// WithAlwaysSet replaces the set of attribute names that are re-set
// even when old and new values are equal.
func WithAlwaysSet(names ...string) DiffOption {
	return func(d *differ) {
		d.alwaysSet = make(map[string]bool, len(names))
		for _, n := range names {
			d.alwaysSet[n] = true
		}
	}
}

// Diff walks the previous stream, the next stream, and the storage
// ledger of the previous cycle strictly in lockstep and returns the
// mutation sequence that brings the live tree in line with the next
// stream. The ledger is consumed: every slot is either moved into a
// retain instruction or scheduled for destruction.
//
// Element identity is the tag name at a structural position; content
// and attribute differences never force recreation. Any other
// mismatched pairing removes the old sub-tree and creates the new one.
func Diff(old, new Stream, storage *Storage, opts ...DiffOption) Patches {
	d := &differ{
		old:       newCursor(old),
		new:       newCursor(new),
		ledger:    &reader{st: storage},
		alwaysSet: defaultAlwaysSet,
	}
	defer d.old.close()
	defer d.new.close()
	for _, opt := range opts {
		opt(d)
	}

	for {
		o, ook := d.old.take()
		n, nok := d.new.take()
		switch {
		case !ook && !nok:
			d.ledger.drained()
			return d.patches
		case !ook:
			d.add(n)
		case !nok:
			d.remove(o)
		default:
			d.step(o, n)
		}
	}
}

type differ struct {
	old       *cursor
	new       *cursor
	ledger    *reader
	patches   Patches
	alwaysSet map[string]bool
}

func (d *differ) emit(p Patch) {
	d.patches = append(d.patches, p)
}

// step handles one lockstep position with both items present.
func (d *differ) step(o, n Item) {
	// One side closes a scope the other is still filling: additions
	// run before the close, removals before whatever follows it. The
	// closing item is re-paired on the next turn.
	if o.Kind == ItemExit && n.Kind != ItemExit {
		d.old.unread(o)
		d.add(n)
		return
	}
	if n.Kind == ItemExit && o.Kind != ItemExit {
		d.new.unread(n)
		d.remove(o)
		return
	}

	switch {
	case o.Kind != n.Kind,
		o.Kind == ItemElement && o.Name != n.Name:
		// Full kind (or tag) mismatch: never an in-place edit.
		d.remove(o)
		d.add(n)

	case o.Kind == ItemElement:
		d.emit(Patch{Op: OpRetainNode, Handle: d.ledger.take(HandleElement)})

	case o.Kind == ItemText:
		h := d.ledger.take(HandleText)
		if o.Value == n.Value {
			d.emit(Patch{Op: OpRetainNode, Handle: h})
		} else {
			d.emit(Patch{Op: OpReplaceText, Value: n.Value, Handle: h})
		}

	case o.Kind == ItemRaw:
		// Raw markup has no in-place update; equal content is kept,
		// anything else is recreated.
		h := d.ledger.take(HandleRaw)
		if o.Value == n.Value {
			d.emit(Patch{Op: OpRetainRaw, Handle: h})
		} else {
			d.emit(Patch{Op: OpRemoveNode, Handle: h})
			d.emit(Patch{Op: OpCreateRaw, Value: n.Value})
		}

	case o.Kind == ItemAttr:
		d.stepAttr(o, n)

	case o.Kind == ItemEvent:
		h := d.ledger.take(HandleListener)
		if o.Name == n.Name && o.Handler.Equal(n.Handler) {
			d.emit(Patch{Op: OpRetainListener, Handle: h})
		} else {
			d.emit(Patch{Op: OpRemoveListener, Handle: h})
			d.emit(Patch{Op: OpAddListener, Name: n.Name, Handler: n.Handler})
		}

	case o.Kind == ItemComponent:
		h := d.ledger.take(HandleComponent)
		if o.Comp.Key == n.Comp.Key {
			d.emit(Patch{Op: OpRetainComponent, Handle: h})
		} else {
			d.emit(Patch{Op: OpDetachComponent, Handle: h})
			d.discardScope()
			d.emit(Patch{Op: OpMountComponent, Comp: n.Comp})
			d.addScope()
		}

	case o.Kind == ItemExit:
		d.emit(Patch{Op: OpPop})

	default:
		panic(fmt.Sprintf("vtree: unhandled item kind %s", o.Kind))
	}
}

func (d *differ) stepAttr(o, n Item) {
	switch {
	case o.Name != n.Name:
		d.emit(Patch{Op: OpRemoveAttr, Name: o.Name})
		d.emit(Patch{Op: OpSetAttr, Name: n.Name, Value: n.Value})
	case o.Value != n.Value, d.alwaysSet[n.Name]:
		d.emit(Patch{Op: OpSetAttr, Name: n.Name, Value: n.Value})
	}
}

// add emits creation instructions for one new item and, when it opens
// a scope, its entire sub-tree up to and including the matching Exit.
func (d *differ) add(n Item) {
	switch n.Kind {
	case ItemElement:
		d.emit(Patch{Op: OpCreateElement, Name: n.Name})
		d.addScope()
	case ItemText:
		d.emit(Patch{Op: OpCreateText, Value: n.Value})
		d.addScope()
	case ItemRaw:
		d.emit(Patch{Op: OpCreateRaw, Value: n.Value})
	case ItemAttr:
		d.emit(Patch{Op: OpSetAttr, Name: n.Name, Value: n.Value})
	case ItemEvent:
		d.emit(Patch{Op: OpAddListener, Name: n.Name, Handler: n.Handler})
	case ItemComponent:
		d.emit(Patch{Op: OpMountComponent, Comp: n.Comp})
		d.addScope()
	case ItemExit:
		panic("vtree: unbalanced Exit in new stream")
	}
}

// addScope consumes new-stream items until the matching Exit, emitting
// creates for everything inside and a Pop for the Exit itself.
func (d *differ) addScope() {
	for {
		n, ok := d.new.take()
		if !ok {
			panic("vtree: new stream ended inside an open scope")
		}
		if n.Kind == ItemExit {
			d.emit(Patch{Op: OpPop})
			return
		}
		d.add(n)
	}
}

// remove emits destruction instructions for one old item at the
// current position and, when it opens a scope, consumes its entire
// sub-tree. Nested components are detached and listeners unsubscribed
// while their surroundings are still attached, then the sub-tree root
// is removed in one go; node handles inside the sub-tree die with it
// and are only consumed.
func (d *differ) remove(o Item) {
	switch o.Kind {
	case ItemElement:
		h := d.ledger.take(HandleElement)
		d.discardScope()
		d.emit(Patch{Op: OpRemoveNode, Handle: h})
	case ItemText:
		h := d.ledger.take(HandleText)
		d.discardScope()
		d.emit(Patch{Op: OpRemoveNode, Handle: h})
	case ItemRaw:
		d.emit(Patch{Op: OpRemoveNode, Handle: d.ledger.take(HandleRaw)})
	case ItemAttr:
		d.emit(Patch{Op: OpRemoveAttr, Name: o.Name})
	case ItemEvent:
		d.emit(Patch{Op: OpRemoveListener, Handle: d.ledger.take(HandleListener)})
	case ItemComponent:
		d.emit(Patch{Op: OpDetachComponent, Handle: d.ledger.take(HandleComponent)})
		d.discardScope()
	case ItemExit:
		panic("vtree: unbalanced Exit in old stream")
	}
}

// discardScope consumes old-stream items until the matching Exit,
// taking every storage slot inside. Elements, texts, and raws are
// dropped (they are detached with the sub-tree root); listeners are
// explicitly unsubscribed so the platform's listener registry does not
// accumulate dead entries, and nested components are explicitly
// detached so they release their own ledgers and subscriptions.
func (d *differ) discardScope() {
	for {
		o, ok := d.old.take()
		if !ok {
			panic("vtree: old stream ended inside an open scope")
		}
		switch o.Kind {
		case ItemExit:
			return
		case ItemElement:
			d.ledger.take(HandleElement)
			d.discardScope()
		case ItemText:
			d.ledger.take(HandleText)
			d.discardScope()
		case ItemRaw:
			d.ledger.take(HandleRaw)
		case ItemAttr:
			// dies with the node
		case ItemEvent:
			d.emit(Patch{Op: OpRemoveListener, Handle: d.ledger.take(HandleListener)})
		case ItemComponent:
			d.emit(Patch{Op: OpDetachComponent, Handle: d.ledger.take(HandleComponent)})
			d.discardScope()
		}
	}
}
