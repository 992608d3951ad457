// Package vtree implements the virtual-tree reconciliation core.
//
// A UI tree description is linearized into a Stream of Items by a
// depth-first, pre-order walk. Diff compares the previous stream, the
// next stream, and the Storage ledger of live platform handles in
// lockstep, producing a Patches sequence proportional to the size of
// the actual change. Apply interprets that sequence against the live
// tree through a platform.Document, yielding the ledger for the next
// cycle.
//
// # Item Streams
//
// Every Element, Text, and Component item is closed by exactly one
// Exit item at the same nesting depth. Attr and Event items annotate
// the most recently opened node and have no Exit. Raw items are
// leaves. Streams are restartable: invoking a Stream again replays the
// same items.
//
// # Storage
//
// Storage holds one slot per Element, Text, Raw, Event, and Component
// item of the previously rendered stream, in traversal order. Diff
// consumes slots as it walks; reading a slot twice in one cycle is a
// programming error and panics.
//
// # Failure policy
//
// Misaligned streams and ledgers indicate the inputs were not produced
// by matching render/diff calls; these panic rather than corrupt the
// live tree. Platform mutation failures abort the cycle with an error.
package vtree
