package vtree

import (
	"reflect"

	"github.com/arbor-dev/arbor/pkg/platform"
)

// ItemKind is the stream token discriminator.
type ItemKind uint8

const (
	ItemElement   ItemKind = iota // opens an element scope
	ItemText                      // opens a text scope
	ItemRaw                       // leaf: raw pre-rendered markup
	ItemAttr                      // annotates the open node
	ItemEvent                     // annotates the open node
	ItemComponent                 // opens a nested-component scope
	ItemExit                      // closes the innermost open scope
)

// String returns the string representation of the ItemKind.
func (k ItemKind) String() string {
	switch k {
	case ItemElement:
		return "Element"
	case ItemText:
		return "Text"
	case ItemRaw:
		return "Raw"
	case ItemAttr:
		return "Attr"
	case ItemEvent:
		return "Event"
	case ItemComponent:
		return "Component"
	case ItemExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Item is one token in the pre-order encoding of a tree description.
type Item struct {
	Kind    ItemKind
	Name    string        // element tag, attribute name, or event trigger
	Value   string        // text content, raw markup, or attribute value
	Handler Handler       // ItemEvent only
	Comp    ComponentSpec // ItemComponent only
}

// ElementItem opens an element scope with the given tag.
func ElementItem(tag string) Item { return Item{Kind: ItemElement, Name: tag} }

// TextItem opens a text scope with the given content.
func TextItem(content string) Item { return Item{Kind: ItemText, Value: content} }

// RawItem is a leaf carrying raw markup.
func RawItem(markup string) Item { return Item{Kind: ItemRaw, Value: markup} }

// AttrItem annotates the open node with an attribute.
func AttrItem(name, value string) Item { return Item{Kind: ItemAttr, Name: name, Value: value} }

// EventItem annotates the open node with an event binding.
func EventItem(trigger string, h Handler) Item {
	return Item{Kind: ItemEvent, Name: trigger, Handler: h}
}

// ComponentItem opens a nested-component scope.
func ComponentItem(spec ComponentSpec) Item { return Item{Kind: ItemComponent, Comp: spec} }

// ExitItem closes the innermost open scope.
func ExitItem() Item { return Item{Kind: ItemExit} }

// opens reports whether the item opens a scope that a later Exit closes.
func (it Item) opens() bool {
	return it.Kind == ItemElement || it.Kind == ItemText || it.Kind == ItemComponent
}

// Handler describes what an event binding dispatches. Exactly one of
// Msg or Fn is used: a fixed message, or a conversion applied to the
// triggering platform event. A conversion returning ok == false means
// "ignore this event"; nothing is dispatched.
//
// Functions are not comparable, so a conversion carries a Tag that
// stands in for its identity during diffing. Two handlers with the
// same Tag are considered equal and the existing subscription is kept.
type Handler struct {
	Msg any
	Fn  func(platform.Event) (any, bool)
	Tag string
}

// Message builds a handler dispatching a fixed message.
func Message(msg any) Handler { return Handler{Msg: msg} }

// Conversion builds a handler that derives its message from the event.
// The tag identifies the conversion across renders.
func Conversion(tag string, fn func(platform.Event) (any, bool)) Handler {
	return Handler{Fn: fn, Tag: tag}
}

// Equal reports whether two handler specs are interchangeable, meaning
// an existing subscription may be retained.
func (h Handler) Equal(o Handler) bool {
	if (h.Fn == nil) != (o.Fn == nil) {
		return false
	}
	if h.Fn != nil {
		return h.Tag == o.Tag
	}
	return reflect.DeepEqual(h.Msg, o.Msg)
}

// resolve produces the message to dispatch for an event, if any.
func (h Handler) resolve(e platform.Event) (any, bool) {
	if h.Fn != nil {
		return h.Fn(e)
	}
	return h.Msg, true
}

// Host is what a nested component receives at mount time: the document
// and scheduler it renders with, the live parent node it appends its
// own nodes under, and the parent's dispatch entry point for messages
// surfaced through the component's mapping functions.
type Host struct {
	Doc      platform.Document
	Sched    platform.Scheduler
	Parent   platform.Node
	Dispatch func(msg any)
}

// Mounted is the capability surface of a live nested component. The
// parent never inspects a component's internal tree; it only holds
// this handle in its storage ledger.
type Mounted interface {
	// Dispatch delivers a message into the component's own namespace.
	Dispatch(msg any)

	// Detach tears the component down, removing every live node and
	// listener it owns.
	Detach()

	// Nodes lists the component's top-level live nodes.
	Nodes() []platform.Node
}

// ComponentSpec identifies and constructs a nested component. Identity
// is the Key: when two streams carry a component with the same key at
// the same position, the mounted instance is retained untouched;
// differing keys detach the old instance and mount the new one.
type ComponentSpec struct {
	Key   string
	Mount func(Host) (Mounted, error)
}
