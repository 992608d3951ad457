package vtree

// NodeKind discriminates tree-description nodes.
type NodeKind uint8

const (
	NodeElement NodeKind = iota
	NodeText
	NodeRaw
	NodeComponent
)

// Attr is one attribute of a tree-description node.
type Attr struct {
	Name  string
	Value string
}

// Binding is one event binding of a tree-description node.
type Binding struct {
	Trigger string
	Handler Handler
}

// Node is a declarative tree description. It is the value the render
// collaborator produces; Stream linearizes it for diffing. Builders
// for common elements live in pkg/ui.
type Node struct {
	Kind     NodeKind
	Tag      string // NodeElement
	Text     string // NodeText and NodeRaw
	Attrs    []Attr
	Events   []Binding
	Children []*Node
	Comp     ComponentSpec // NodeComponent
}

// Stream produces the deterministic pre-order item stream of the
// description. Nil children are skipped, which lets builders express
// conditional content without placeholder nodes.
func (n *Node) Stream() Stream {
	return func(yield func(Item) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(Item) bool) bool {
	if n == nil {
		return true
	}
	switch n.Kind {
	case NodeElement:
		if !yield(ElementItem(n.Tag)) {
			return false
		}
		for _, a := range n.Attrs {
			if !yield(AttrItem(a.Name, a.Value)) {
				return false
			}
		}
		for _, b := range n.Events {
			if !yield(EventItem(b.Trigger, b.Handler)) {
				return false
			}
		}
		for _, c := range n.Children {
			if !c.walk(yield) {
				return false
			}
		}
		return yield(ExitItem())
	case NodeText:
		if !yield(TextItem(n.Text)) {
			return false
		}
		return yield(ExitItem())
	case NodeRaw:
		return yield(RawItem(n.Text))
	case NodeComponent:
		if !yield(ComponentItem(n.Comp)) {
			return false
		}
		return yield(ExitItem())
	default:
		return true
	}
}

// FragmentStream concatenates the streams of several root nodes, for
// applications whose top level is a sequence rather than one element.
func FragmentStream(roots ...*Node) Stream {
	return func(yield func(Item) bool) {
		for _, r := range roots {
			if !r.walk(yield) {
				return
			}
		}
	}
}
