package platform

// Node is an opaque handle to a live platform node (element, text, or
// raw-markup node). Handles are created by a Document and remain valid
// until detached through the same Document.
type Node interface {
	// IsElement reports whether the node can carry attributes and
	// listeners. Text and raw nodes return false.
	IsElement() bool
}

// ListenerToken identifies one event subscription on one node.
type ListenerToken interface {
	// Trigger returns the event name the subscription was created for
	// (e.g. "click").
	Trigger() string
}

// Event is the payload delivered to a listener callback. Fields beyond
// Trigger are best-effort: a platform fills in what it knows.
type Event struct {
	Trigger string // event name, e.g. "click"
	Value   string // input/select value at event time
	Checked bool   // checkbox/radio state at event time
	Key     string // keyboard key, if any
	X, Y    int    // pointer coordinates, if any
}

// Document is the mutation surface of a live tree. All methods are
// called from a single goroutine; implementations need no locking on
// behalf of the engine.
//
// A failed mutation aborts the patch cycle that issued it, so
// implementations should return errors only for conditions that make
// the live tree unusable (see the failure policy on vtree.Apply).
type Document interface {
	// CreateElement allocates a new element node with the given tag.
	// The node is not attached anywhere yet.
	CreateElement(tag string) (Node, error)

	// CreateText allocates a new text node with the given content.
	CreateText(content string) (Node, error)

	// CreateRaw allocates a node holding raw, pre-rendered markup.
	CreateRaw(markup string) (Node, error)

	// AppendChild attaches child as the last child of parent. A child
	// that is already attached is moved: it leaves its current position
	// and becomes the last child of parent, keeping its subtree,
	// attributes, and listeners.
	AppendChild(parent, child Node) error

	// Detach removes the node from its parent, destroying the node and
	// everything under it. Detaching an unattached node is an error.
	Detach(node Node) error

	// SetText replaces the content of a text node in place.
	SetText(node Node, content string) error

	// SetAttr sets an attribute on an element node.
	SetAttr(node Node, name, value string) error

	// RemoveAttr removes an attribute from an element node.
	RemoveAttr(node Node, name string) error

	// AddListener subscribes fn to the named event on an element node.
	AddListener(node Node, trigger string, fn func(Event)) (ListenerToken, error)

	// RemoveListener cancels a subscription. The token must have been
	// returned by this Document and not removed before.
	RemoveListener(tok ListenerToken) error
}

// FrameToken identifies one pending frame registration.
type FrameToken interface{}

// Scheduler is the "run before next paint" primitive. At most one
// registration per application instance is outstanding at a time; the
// engine cancels its registration on detach.
type Scheduler interface {
	// RequestFrame registers fn to run once, before the next frame is
	// presented. The callback runs on the same goroutine that drives
	// the application.
	RequestFrame(fn func()) FrameToken

	// Cancel drops a pending registration. Cancelling a token whose
	// callback already ran is a no-op.
	Cancel(tok FrameToken)
}
