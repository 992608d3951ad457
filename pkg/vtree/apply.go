package vtree

import (
	"fmt"

	"github.com/arbor-dev/arbor/pkg/platform"
)

// scope is one entry of the interpreter's stack of open live nodes.
// Exactly one of node or comp is set, except for the root entry which
// holds the root container node. dirty is set once a create or mount
// appends a child out of document order; every retained sibling after
// that point must be re-appended so the live child order matches the
// new stream.
type scope struct {
	node  platform.Node
	comp  Mounted
	dirty bool
}

// Apply interprets a patch sequence against the live tree under root,
// mutating it through doc and returning the storage ledger for the
// next cycle. Listener callbacks forward to dispatch, either with
// their fixed message or with the result of their conversion; a
// conversion declining the event dispatches nothing.
//
// Creates append under the open scope. Once a create (or mount) has
// appended mid-list, the retained siblings that follow it in the same
// scope are re-appended so the live child order matches the new
// stream; in a scope with no creates, retains touch nothing.
//
// A sequence must be applied exactly once, against the same root its
// diff inputs described. Popping past the root, or targeting an
// attribute or listener instruction at a non-element scope, panics:
// it means the streams and ledger did not come from matching cycles.
// Platform mutation failures return an error and abort the cycle;
// the caller must treat the instance as inconsistent (see app.App).
func Apply(doc platform.Document, sched platform.Scheduler, root platform.Node, patches Patches, dispatch func(msg any)) (*Storage, error) {
	a := applier{
		doc:      doc,
		sched:    sched,
		dispatch: dispatch,
		stack:    []scope{{node: root}},
		next:     NewStorage(),
	}
	for i, p := range patches {
		if err := a.apply(p); err != nil {
			return nil, fmt.Errorf("vtree: apply %s (patch %d of %d): %w", p.Op, i+1, len(patches), err)
		}
	}
	if len(a.stack) != 1 {
		panic(fmt.Sprintf("vtree: %d scopes left open after apply", len(a.stack)-1))
	}
	return a.next, nil
}

type applier struct {
	doc      platform.Document
	sched    platform.Scheduler
	dispatch func(msg any)
	stack    []scope
	next     *Storage
}

func (a *applier) top() *scope {
	return &a.stack[len(a.stack)-1]
}

func (a *applier) push(s scope) {
	a.stack = append(a.stack, s)
}

// element returns the current scope top as an attach target, verifying
// it can carry children, attributes, or listeners.
func (a *applier) element(op PatchOp) platform.Node {
	t := a.top()
	if t.comp != nil || !t.node.IsElement() {
		panic(fmt.Sprintf("vtree: %s targets a non-element scope", op))
	}
	return t.node
}

// relocate re-appends a retained node when an earlier create in the
// open scope disturbed the child order. AppendChild moves an attached
// node to the end, so processing retains in stream order restores the
// full order.
func (a *applier) relocate(op PatchOp, node platform.Node) error {
	if !a.top().dirty {
		return nil
	}
	return a.doc.AppendChild(a.element(op), node)
}

func (a *applier) apply(p Patch) error {
	switch p.Op {
	case OpCreateElement:
		n, err := a.doc.CreateElement(p.Name)
		if err != nil {
			return err
		}
		if err := a.doc.AppendChild(a.element(p.Op), n); err != nil {
			return err
		}
		a.top().dirty = true
		a.push(scope{node: n})
		a.next.appendSlot(StoredHandle{Kind: HandleElement, Node: n})

	case OpCreateText:
		n, err := a.doc.CreateText(p.Value)
		if err != nil {
			return err
		}
		if err := a.doc.AppendChild(a.element(p.Op), n); err != nil {
			return err
		}
		a.top().dirty = true
		a.push(scope{node: n})
		a.next.appendSlot(StoredHandle{Kind: HandleText, Node: n})

	case OpCreateRaw:
		n, err := a.doc.CreateRaw(p.Value)
		if err != nil {
			return err
		}
		if err := a.doc.AppendChild(a.element(p.Op), n); err != nil {
			return err
		}
		a.top().dirty = true
		a.next.appendSlot(StoredHandle{Kind: HandleRaw, Node: n})

	case OpMountComponent:
		parent := a.element(p.Op)
		m, err := p.Comp.Mount(Host{
			Doc:      a.doc,
			Sched:    a.sched,
			Parent:   parent,
			Dispatch: a.dispatch,
		})
		if err != nil {
			return fmt.Errorf("mount component %q: %w", p.Comp.Key, err)
		}
		a.top().dirty = true
		a.push(scope{comp: m})
		a.next.appendSlot(StoredHandle{Kind: HandleComponent, Comp: m})

	case OpRetainNode:
		if err := a.relocate(p.Op, p.Handle.Node); err != nil {
			return err
		}
		a.push(scope{node: p.Handle.Node})
		a.next.appendSlot(p.Handle)

	case OpRetainRaw:
		if err := a.relocate(p.Op, p.Handle.Node); err != nil {
			return err
		}
		a.next.appendSlot(p.Handle)

	case OpRetainComponent:
		if a.top().dirty {
			parent := a.element(p.Op)
			for _, n := range p.Handle.Comp.Nodes() {
				if err := a.doc.AppendChild(parent, n); err != nil {
					return err
				}
			}
		}
		a.push(scope{comp: p.Handle.Comp})
		a.next.appendSlot(p.Handle)

	case OpReplaceText:
		if err := a.relocate(p.Op, p.Handle.Node); err != nil {
			return err
		}
		if err := a.doc.SetText(p.Handle.Node, p.Value); err != nil {
			return err
		}
		a.push(scope{node: p.Handle.Node})
		a.next.appendSlot(StoredHandle{Kind: HandleText, Node: p.Handle.Node})

	case OpRemoveNode:
		if err := a.doc.Detach(p.Handle.Node); err != nil {
			return err
		}

	case OpDetachComponent:
		p.Handle.Comp.Detach()

	case OpSetAttr:
		if err := a.doc.SetAttr(a.element(p.Op), p.Name, p.Value); err != nil {
			return err
		}

	case OpRemoveAttr:
		if err := a.doc.RemoveAttr(a.element(p.Op), p.Name); err != nil {
			return err
		}

	case OpAddListener:
		h := p.Handler
		fn := func(e platform.Event) {
			if msg, ok := h.resolve(e); ok {
				a.dispatch(msg)
			}
		}
		tok, err := a.doc.AddListener(a.element(p.Op), p.Name, fn)
		if err != nil {
			return err
		}
		a.next.appendSlot(StoredHandle{Kind: HandleListener, Listener: tok})

	case OpRemoveListener:
		if err := a.doc.RemoveListener(p.Handle.Listener); err != nil {
			return err
		}

	case OpRetainListener:
		a.next.appendSlot(p.Handle)

	case OpPop:
		if len(a.stack) == 1 {
			panic("vtree: scope pop past the root container")
		}
		a.stack = a.stack[:len(a.stack)-1]

	default:
		panic(fmt.Sprintf("vtree: unknown patch op %d", p.Op))
	}
	return nil
}
