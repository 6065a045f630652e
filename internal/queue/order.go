// Package queue holds the pure ordering logic for the playout log: the
// pinned-head invariant, gesture-to-order computation, the flash diff,
// and the single-level undo snapshot. Nothing here touches the network
// or the terminal, so every reorder rule is testable in isolation.
package queue

import (
	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
)

// GestureKind discriminates the operator gestures that can reorder the
// upcoming queue.
type GestureKind int

const (
	// GestureStep moves an item by a signed offset (keyboard or button).
	GestureStep GestureKind = iota
	// GestureDrop moves an item before or after a target row (drag).
	GestureDrop
)

// Gesture describes one reorder request in id terms. Positions are never
// carried across a round trip; the engine may insert or remove items at
// any time, so only ids are stable.
type Gesture struct {
	Kind   GestureKind
	ID     uuid.UUID
	Delta  int       // GestureStep: signed step within the upcoming list
	Target uuid.UUID // GestureDrop: row the item was dropped on
	After  bool      // GestureDrop: insert after the target instead of before
}

// AllIDs returns the id sequence of the full log, head included. Used
// for the flash "before" picture.
func AllIDs(log []engine.QueueItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(log))
	for i, item := range log {
		ids[i] = item.ID
	}
	return ids
}

// UpcomingIDs returns the id sequence for positions 1..N, the only unit
// the reorder protocol exchanges.
func UpcomingIDs(log []engine.QueueItem) []uuid.UUID {
	if len(log) <= 1 {
		return nil
	}
	return AllIDs(log)[1:]
}

// IsHead reports whether id occupies the pinned position 0 of the log.
func IsHead(log []engine.QueueItem, id uuid.UUID) bool {
	return len(log) > 0 && log[0].ID == id
}

// Apply computes the new upcoming order for a gesture. The second
// return value reports whether the order actually changed; an unchanged
// order must never be sent to the engine. A gesture whose id is absent
// from the order is a silent no-op.
func Apply(order []uuid.UUID, g Gesture) ([]uuid.UUID, bool) {
	switch g.Kind {
	case GestureStep:
		return step(order, g.ID, g.Delta)
	case GestureDrop:
		return drop(order, g.ID, g.Target, g.After)
	}
	return nil, false
}

// step moves id by delta positions within the order, clamping the
// destination into [0, len-1].
func step(order []uuid.UUID, id uuid.UUID, delta int) ([]uuid.UUID, bool) {
	src := indexOf(order, id)
	if src < 0 || delta == 0 {
		return nil, false
	}
	dst := src + delta
	if dst < 0 {
		dst = 0
	}
	if dst > len(order)-1 {
		dst = len(order) - 1
	}
	if dst == src {
		return nil, false
	}
	return reinsert(order, src, dst), true
}

// drop removes id and reinserts it before or after target. Removal
// happens first, so insertion indices are computed against the reduced
// list; this is what makes "insert after a later row" land one slot
// left of the target's original index.
func drop(order []uuid.UUID, id, target uuid.UUID, after bool) ([]uuid.UUID, bool) {
	src := indexOf(order, id)
	if src < 0 || id == target {
		return nil, false
	}

	without := make([]uuid.UUID, 0, len(order)-1)
	without = append(without, order[:src]...)
	without = append(without, order[src+1:]...)

	dst := indexOf(without, target)
	if dst < 0 {
		// Target vanished (engine removed it mid-gesture); drop to the end.
		dst = len(without)
	} else if after {
		dst++
	}
	if dst > len(without) {
		dst = len(without)
	}

	next := make([]uuid.UUID, 0, len(order))
	next = append(next, without[:dst]...)
	next = append(next, id)
	next = append(next, without[dst:]...)

	if Equal(order, next) {
		return nil, false
	}
	return next, true
}

// reinsert removes the element at src and reinserts it at dst.
func reinsert(order []uuid.UUID, src, dst int) []uuid.UUID {
	id := order[src]
	next := make([]uuid.UUID, 0, len(order))
	next = append(next, order[:src]...)
	next = append(next, order[src+1:]...)
	next = append(next[:dst:dst], append([]uuid.UUID{id}, next[dst:]...)...)
	return next
}

// Equal reports whether two id sequences are identical.
func Equal(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FlashIDs diffs two full id sequences position-by-position starting at
// index 1 (the pinned head is exempt by invariant) and returns the ids
// whose position changed. Ids present in only one sequence are ignored;
// an engine-side insert or removal is not a reorder.
func FlashIDs(before, after []uuid.UUID) []uuid.UUID {
	pos := make(map[uuid.UUID]int, len(before))
	for i, id := range before {
		pos[id] = i
	}
	var changed []uuid.UUID
	for i := 1; i < len(after); i++ {
		id := after[i]
		prev, ok := pos[id]
		if ok && prev != i && prev != 0 {
			changed = append(changed, id)
		}
	}
	return changed
}

func indexOf(order []uuid.UUID, id uuid.UUID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
