// Package ui provides the terminal user interface for the operator
// console.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program layered on top of state.Store. The
// store is the single source of server truth; the model here keeps
// only presentation state (selection, drag, flash and alert timers)
// and re-reads the store on every status tick. A faster meter tick
// repaints between polls so VU ballistics and the interpolated
// playhead stay smooth at roughly 8 frames per second without touching
// the network.
//
// # Package Structure
//
//   - ui.go: Options, the Model, message plumbing and key dispatch
//   - view.go: header, now-playing line, queue table, footer rendering
//   - meters.go: VU bar rendering with dB band coloring
//   - mouse.go: click-to-select, wheel scroll and drag-drop reordering
//   - keys.go: key bindings and help text
//   - theme.go: color palettes and lipgloss style construction
//
// # Reordering
//
// Keyboard moves (shift+arrows) and mouse drags both reduce to a
// queue.Gesture handed to the Commander; the UI never edits the log
// slice itself. While a drag is in flight, incoming snapshots are
// deferred and applied once on release, so rows never shift under the
// cursor mid-gesture.
//
// # Mode Display
//
// The header badge derives LIVE, STALE or OFFLINE from the snapshot's
// last-success timestamp. Offline, the console renders the local
// rehearsal log and marks itself accordingly; commands that require
// the engine are silently rehearsed or ignored.
package ui
