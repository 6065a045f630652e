// Package state provides the thread-safe reconciliation store for the
// operator console.
//
// # Overview
//
// The Store is the coordination point between the background reconciler
// (single writer of server truth), the command layer (writer of flash
// and undo bookkeeping) and the UI (reader). It holds the last known
// engine snapshot plus the small amount of client-side state layered on
// top of it: connection freshness, the one-shot reorder flash, the
// single-level undo snapshot and the offline rehearsal flag.
//
// # Update Semantics
//
//	// Success: replace the snapshot wholesale
//	store.ApplySuccess(status, now)
//	→ full clone of status, lastSuccess = now, rehearsal flag cleared
//
//	// Failure: keep old data, record the error
//	store.ApplyFailure(err, now)
//	→ status unchanged, lastError = err, lastAttempt = now
//
//	// Rehearsal: offline simulation output, never promoted to truth
//	store.ApplyRehearsal(status)
//	→ snapshot replaced, lastSuccess untouched, Demo = true
//
// Identity is never patched incrementally: every successful poll
// replaces the whole snapshot, and items are matched across snapshots
// by UUID alone.
//
// # Connection Mode
//
// Snapshot.Mode derives OFFLINE, LIVE or STALE purely from the
// last-success timestamp. OFFLINE means no poll has ever succeeded;
// once one has, failures only ever degrade the display to STALE while
// the last known data stays up.
//
// # Defensive Copying
//
// ApplySuccess clones the inbound status and Snapshot returns deep
// copies, so the reconciler, command layer and UI never share mutable
// slices. The cost is a few kilobytes per poll.
//
// # Flash and Undo
//
// The command layer arms a flash against the pre-command order; the
// diff is computed when the next successful poll confirms what actually
// happened, and consumed exactly once by the UI. Undo keeps a single
// pre-command upcoming order: arming a new command replaces it, a
// failed command discards the pending snapshot, and a successful undo
// consumes it.
package state
