// Package app runs live application instances: it turns dispatched
// messages into model updates, batches renders to one per animation
// frame, and drives the diff/patch cycle in pkg/vtree against a
// platform document.
//
// An App owns exactly one live tree and its storage ledger. Dispatch
// is re-entrant but never recursive: messages dispatched from inside
// an update or effect are queued and drained by the in-progress call.
// Rendering is deferred to the platform's next-frame callback, and at
// most one frame registration is outstanding per instance; messages
// arriving before it fires fold their post-render effects into the
// pending list instead of scheduling another render.
package app
