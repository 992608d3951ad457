package vtree

import "iter"

// Stream is a finite, restartable, lazily produced pre-order item
// sequence. Invoking a Stream again replays the same items; producers
// must be deterministic for a given tree description.
type Stream func(yield func(Item) bool)

// Empty returns the stream of no items.
func Empty() Stream {
	return func(func(Item) bool) {}
}

// Of returns a stream replaying the given items.
func Of(items ...Item) Stream {
	return func(yield func(Item) bool) {
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}
}

// Collect materializes a stream. Mostly useful in tests.
func Collect(s Stream) []Item {
	var items []Item
	for it := range iter.Seq[Item](s) {
		items = append(items, it)
	}
	return items
}

// cursor is a pull-based reader over a stream with one item of
// pushback, which the diff walk needs when one stream closes a scope
// the other is still adding to.
type cursor struct {
	next    func() (Item, bool)
	stop    func()
	pushed  Item
	hasPush bool
}

func newCursor(s Stream) *cursor {
	next, stop := iter.Pull(iter.Seq[Item](s))
	return &cursor{next: next, stop: stop}
}

func (c *cursor) take() (Item, bool) {
	if c.hasPush {
		c.hasPush = false
		return c.pushed, true
	}
	return c.next()
}

func (c *cursor) unread(it Item) {
	if c.hasPush {
		panic("vtree: cursor pushback overflow")
	}
	c.pushed = it
	c.hasPush = true
}

func (c *cursor) close() {
	c.stop()
}
