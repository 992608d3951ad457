// Package platform defines the narrow interfaces the reconciliation
// engine needs from a rendering target.
//
// The engine itself never touches a real UI toolkit. It drives a
// Document (node creation, attribute and listener mutation) and a
// Scheduler (a "run before next paint" primitive), both supplied by
// the embedding program. Implementations include the in-memory
// document in pkg/memdom (tests, tooling) and the websocket-backed
// remote document in pkg/server (browsers).
package platform
