// Package core is the orchestration layer.  It composes the listener,
// the handshake gate, the session registry and the chat capability
// into the server loop, and owns the shutdown coordinator.
//
// Architecture layers (bottom → top):
//
//	transport / protocol  →  session  →  capability  →  core  →  cmd (CLI)
package core
