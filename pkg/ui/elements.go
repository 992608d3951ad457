package ui

import (
	"fmt"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// El creates an element node with the given tag. Arguments may be
// vtree.Attr, vtree.Binding, *vtree.Node, []*vtree.Node,
// vtree.ComponentSpec, a string (shorthand for a text child), or nil.
func El(tag string, args ...any) *vtree.Node {
	n := &vtree.Node{Kind: vtree.NodeElement, Tag: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case vtree.Attr:
			n.Attrs = append(n.Attrs, v)
		case []vtree.Attr:
			n.Attrs = append(n.Attrs, v...)
		case vtree.Binding:
			n.Events = append(n.Events, v)
		case *vtree.Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*vtree.Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case vtree.ComponentSpec:
			n.Children = append(n.Children, &vtree.Node{Kind: vtree.NodeComponent, Comp: v})
		case string:
			n.Children = append(n.Children, Text(v))
		default:
			panic(fmt.Sprintf("ui: %s: unsupported argument type %T", tag, arg))
		}
	}
	return n
}

// Text creates a text node.
func Text(content string) *vtree.Node {
	return &vtree.Node{Kind: vtree.NodeText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *vtree.Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped markup node. Use with caution; content is
// handed to the platform verbatim.
func Raw(markup string) *vtree.Node {
	return &vtree.Node{Kind: vtree.NodeRaw, Text: markup}
}

// Component embeds a nested-component spec as a child node.
func Component(spec vtree.ComponentSpec) *vtree.Node {
	return &vtree.Node{Kind: vtree.NodeComponent, Comp: spec}
}

// If returns the node if cond is true, nil otherwise.
func If(cond bool, node *vtree.Node) *vtree.Node {
	if cond {
		return node
	}
	return nil
}

// Map builds one node per item of a slice.
func Map[T any](items []T, fn func(item T, index int) *vtree.Node) []*vtree.Node {
	out := make([]*vtree.Node, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Common elements.

func Div(args ...any) *vtree.Node      { return El("div", args...) }
func Span(args ...any) *vtree.Node     { return El("span", args...) }
func P(args ...any) *vtree.Node        { return El("p", args...) }
func A(args ...any) *vtree.Node        { return El("a", args...) }
func H1(args ...any) *vtree.Node       { return El("h1", args...) }
func H2(args ...any) *vtree.Node       { return El("h2", args...) }
func H3(args ...any) *vtree.Node       { return El("h3", args...) }
func Ul(args ...any) *vtree.Node       { return El("ul", args...) }
func Ol(args ...any) *vtree.Node       { return El("ol", args...) }
func Li(args ...any) *vtree.Node       { return El("li", args...) }
func Button(args ...any) *vtree.Node   { return El("button", args...) }
func Input(args ...any) *vtree.Node    { return El("input", args...) }
func Label(args ...any) *vtree.Node    { return El("label", args...) }
func Form(args ...any) *vtree.Node     { return El("form", args...) }
func Select(args ...any) *vtree.Node   { return El("select", args...) }
func Option(args ...any) *vtree.Node   { return El("option", args...) }
func Textarea(args ...any) *vtree.Node { return El("textarea", args...) }
func Table(args ...any) *vtree.Node    { return El("table", args...) }
func Tr(args ...any) *vtree.Node       { return El("tr", args...) }
func Td(args ...any) *vtree.Node       { return El("td", args...) }
func Section(args ...any) *vtree.Node  { return El("section", args...) }
func Header(args ...any) *vtree.Node   { return El("header", args...) }
func Footer(args ...any) *vtree.Node   { return El("footer", args...) }
func Nav(args ...any) *vtree.Node      { return El("nav", args...) }
func Img(args ...any) *vtree.Node      { return El("img", args...) }
func B(args ...any) *vtree.Node        { return El("b", args...) }
func I(args ...any) *vtree.Node        { return El("i", args...) }
func Pre(args ...any) *vtree.Node      { return El("pre", args...) }
func Code(args ...any) *vtree.Node     { return El("code", args...) }
