// Package memdom is an in-memory platform.Document and a manually
// pumped platform.Scheduler. It exists for tests and local tooling:
// every mutation is journaled, events can be fired by hand, and frames
// run only when Flush is called, which makes reconciliation cycles
// fully deterministic.
package memdom

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/arbor-dev/arbor/pkg/platform"
)

// ErrDetached is returned when a mutation targets a node that is not
// attached anywhere.
var ErrDetached = errors.New("memdom: node not attached")

// ErrNotElement is returned when an element-only mutation targets a
// text or raw node.
var ErrNotElement = errors.New("memdom: node is not an element")

// Node is a live in-memory node.
type Node struct {
	id       int
	tag      string // element tag; empty for text and raw nodes
	text     string // text content or raw markup
	raw      bool
	attrs    map[string]string
	parent   *Node
	children []*Node
	subs     []*subscription
}

// IsElement implements platform.Node.
func (n *Node) IsElement() bool { return n.tag != "" }

// Tag returns the element tag, or "" for text and raw nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the node's text content or raw markup.
func (n *Node) Text() string { return n.text }

// Attr returns an attribute value and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Children returns the node's children in order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

type subscription struct {
	node    *Node
	trigger string
	fn      func(platform.Event)
	removed bool
}

// Trigger implements platform.ListenerToken.
func (s *subscription) Trigger() string { return s.trigger }

// Doc is the in-memory document.
type Doc struct {
	root    *Node
	nextID  int
	journal []string
}

// New creates a document with an empty root container.
func New() *Doc {
	d := &Doc{}
	d.root = &Node{id: d.takeID(), tag: "root", attrs: map[string]string{}}
	return d
}

// Root returns the root container node.
func (d *Doc) Root() *Node { return d.root }

// Journal returns every mutation performed so far, in order. Creates
// are not journaled; only mutations of the live tree are, so a no-op
// reconciliation leaves the journal untouched.
func (d *Doc) Journal() []string { return slices.Clone(d.journal) }

// ResetJournal clears the journal.
func (d *Doc) ResetJournal() { d.journal = nil }

func (d *Doc) takeID() int {
	d.nextID++
	return d.nextID
}

func (d *Doc) log(format string, args ...any) {
	d.journal = append(d.journal, fmt.Sprintf(format, args...))
}

// CreateElement implements platform.Document.
func (d *Doc) CreateElement(tag string) (platform.Node, error) {
	if tag == "" {
		return nil, errors.New("memdom: empty element tag")
	}
	return &Node{id: d.takeID(), tag: tag, attrs: map[string]string{}}, nil
}

// CreateText implements platform.Document.
func (d *Doc) CreateText(content string) (platform.Node, error) {
	return &Node{id: d.takeID(), text: content}, nil
}

// CreateRaw implements platform.Document.
func (d *Doc) CreateRaw(markup string) (platform.Node, error) {
	return &Node{id: d.takeID(), text: markup, raw: true}, nil
}

// AppendChild implements platform.Document. An already-attached child
// is moved: it leaves its current position and becomes the last child
// of parent.
func (d *Doc) AppendChild(parent, child platform.Node) error {
	p, c := parent.(*Node), child.(*Node)
	if !p.IsElement() {
		return ErrNotElement
	}
	if c == d.root {
		return errors.New("memdom: cannot attach the root container")
	}
	if c.parent != nil {
		idx := slices.Index(c.parent.children, c)
		if idx < 0 {
			return fmt.Errorf("memdom: node %d missing from its parent", c.id)
		}
		c.parent.children = slices.Delete(c.parent.children, idx, idx+1)
		c.parent = p
		p.children = append(p.children, c)
		d.log("move %s under %s", c.describe(), p.describe())
		return nil
	}
	c.parent = p
	p.children = append(p.children, c)
	d.log("append %s under %s", c.describe(), p.describe())
	return nil
}

// Detach implements platform.Document.
func (d *Doc) Detach(node platform.Node) error {
	n := node.(*Node)
	if n.parent == nil {
		return ErrDetached
	}
	idx := slices.Index(n.parent.children, n)
	if idx < 0 {
		return fmt.Errorf("memdom: node %d missing from its parent", n.id)
	}
	n.parent.children = slices.Delete(n.parent.children, idx, idx+1)
	n.parent = nil
	d.log("detach %s", n.describe())
	return nil
}

// SetText implements platform.Document.
func (d *Doc) SetText(node platform.Node, content string) error {
	n := node.(*Node)
	if n.IsElement() {
		return errors.New("memdom: SetText on an element")
	}
	n.text = content
	d.log("settext %s", n.describe())
	return nil
}

// SetAttr implements platform.Document.
func (d *Doc) SetAttr(node platform.Node, name, value string) error {
	n := node.(*Node)
	if !n.IsElement() {
		return ErrNotElement
	}
	n.attrs[name] = value
	d.log("setattr %s %s=%q", n.describe(), name, value)
	return nil
}

// RemoveAttr implements platform.Document.
func (d *Doc) RemoveAttr(node platform.Node, name string) error {
	n := node.(*Node)
	if !n.IsElement() {
		return ErrNotElement
	}
	delete(n.attrs, name)
	d.log("rmattr %s %s", n.describe(), name)
	return nil
}

// AddListener implements platform.Document.
func (d *Doc) AddListener(node platform.Node, trigger string, fn func(platform.Event)) (platform.ListenerToken, error) {
	n := node.(*Node)
	if !n.IsElement() {
		return nil, ErrNotElement
	}
	sub := &subscription{node: n, trigger: trigger, fn: fn}
	n.subs = append(n.subs, sub)
	d.log("listen %s %s", n.describe(), trigger)
	return sub, nil
}

// RemoveListener implements platform.Document.
func (d *Doc) RemoveListener(tok platform.ListenerToken) error {
	sub := tok.(*subscription)
	if sub.removed {
		return errors.New("memdom: listener already removed")
	}
	sub.removed = true
	idx := slices.Index(sub.node.subs, sub)
	if idx >= 0 {
		sub.node.subs = slices.Delete(sub.node.subs, idx, idx+1)
	}
	d.log("unlisten %s %s", sub.node.describe(), sub.trigger)
	return nil
}

// Fire invokes every live listener for trigger on the node, as the
// external event loop would.
func (d *Doc) Fire(node *Node, ev platform.Event) {
	ev.Trigger = strings.TrimPrefix(ev.Trigger, "on")
	for _, sub := range slices.Clone(node.subs) {
		if !sub.removed && sub.trigger == ev.Trigger {
			sub.fn(ev)
		}
	}
}

// Listeners returns the trigger names subscribed on the node.
func (d *Doc) Listeners(node *Node) []string {
	var out []string
	for _, sub := range node.subs {
		out = append(out, sub.trigger)
	}
	return out
}

func (n *Node) describe() string {
	if n.IsElement() {
		return fmt.Sprintf("<%s#%d>", n.tag, n.id)
	}
	if n.raw {
		return fmt.Sprintf("raw#%d", n.id)
	}
	return fmt.Sprintf("text#%d", n.id)
}

// Dump renders the subtree as normalized markup, attributes sorted by
// name, for test assertions.
func (d *Doc) Dump(node *Node) string {
	var b strings.Builder
	dump(&b, node)
	return b.String()
}

// DumpRoot renders the children of the root container.
func (d *Doc) DumpRoot() string {
	var b strings.Builder
	for _, c := range d.root.children {
		dump(&b, c)
	}
	return b.String()
}

func dump(b *strings.Builder, n *Node) {
	if !n.IsElement() {
		b.WriteString(n.text)
		return
	}
	b.WriteByte('<')
	b.WriteString(n.tag)
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, " %s=%q", name, n.attrs[name])
	}
	b.WriteByte('>')
	for _, c := range n.children {
		dump(b, c)
	}
	fmt.Fprintf(b, "</%s>", n.tag)
}
