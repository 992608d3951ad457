// Package protocol is the compact binary wire format between the
// server-side reconciliation engine and a thin client applying its
// mutations. Node handles travel as server-assigned numeric IDs; all
// integers are varint encoded, strings are length-prefixed UTF-8.
//
// One websocket message carries one frame: a type byte followed by a
// type-specific payload. The server sends Patches frames, the client
// sends Event frames, and both sides exchange Ping/Pong.
package protocol
