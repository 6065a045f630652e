// Package app provides the orchestration layer for the operator console.
//
// # Overview
//
// This package wires together configuration, polling, command handling,
// the audio monitor and the UI. It serves as the composition root where
// all dependencies are initialized and connected, and it owns the two
// background loops that keep the console current.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load console configuration from ~/.config/studiocommand/console.toml
//  2. Load operator preferences (theme, meter visibility, monitor auto-start)
//  3. Initialize the HTTP client for the playout engine API
//  4. Create the shared state.Store and meter.Selector
//  5. Launch the status reconciler and the fast meter poller
//  6. Build the monitor manager and the command layer
//  7. Start the TUI and block until the operator exits or context cancels
//
// # Data Flow
//
//	Reconciler loop (1s):              UI loop:
//	  FetchStatus()                      store.Snapshot()
//	    ok  → store.ApplySuccess()       render queue, header, mode badge
//	    err → store.ApplyFailure()
//	          offline → advance rehearsal
//
//	Meter poller (120ms):              Monitor data channel:
//	  FetchMeters() → selector           per-frame samples → selector
//	  (paused while the channel is live)
//
// Commands never write engine state into the store themselves. A
// successful command calls Reconciler.Kick, which coalesces into an
// immediate re-poll, so the display only ever reflects engine-confirmed
// order. While the engine has never been reached, commands rehearse
// against the local simulation instead.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Engine client initialization failure
//   - UI startup failure
//
// Recoverable errors (logged or surfaced in the UI, loops continue):
//   - Periodic status or meter fetch failures
//   - Rejected reorder, transport or insert commands
//   - Monitor session setup failures
//
// Unlike a monitoring dashboard, the console deliberately starts even
// when the engine is unreachable: the offline rehearsal mode exists so
// operators can practice gestures against a simulated log.
package app
