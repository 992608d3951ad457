// Package server hosts application instances for remote clients: each
// websocket session runs one app.App whose platform document encodes
// mutations as protocol patch frames, and whose listener callbacks are
// fed by decoded client event frames.
//
// Every session is driven by a single goroutine, preserving the
// engine's single-threaded model; "next frame" registrations run after
// the session loop drains the events available in the current turn, so
// bursts of events share one render. The HTTP side is a chi router
// serving the bootstrap page, the websocket endpoint, health, and
// Prometheus metrics.
package server
