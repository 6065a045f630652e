package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/queue"
)

// Snapshot represents the latest reconciled data available to the UI.
type Snapshot struct {
	Status      engine.StatusResponse
	HasStatus   bool // a status payload is present (live or rehearsal)
	Demo        bool // the payload came from the offline rehearsal simulator
	LastSuccess time.Time
	LastAttempt time.Time
	LastError   error
	UndoReady   bool
}

// Mode derives the connection mode at the given instant. OFFLINE means
// no poll ever succeeded, regardless of whether rehearsal data is shown.
func (s Snapshot) Mode(now time.Time, staleAfter time.Duration) ConnectionMode {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return modeAt(s.LastSuccess, staleAfter, now)
}

// Store coordinates the single-writer reconciler with the UI readers.
// The reconciler is the only component that mutates server-reflected
// state; gestures go through command + re-poll, never through direct
// writes.
type Store struct {
	mu sync.RWMutex

	status      engine.StatusResponse
	hasStatus   bool
	demo        bool
	lastSuccess time.Time
	lastAttempt time.Time
	lastError   error

	armedFlash  []uuid.UUID // full id picture captured before a command
	flash       []uuid.UUID // one-shot, consumed by the next render pass
	pendingUndo []uuid.UUID
	undo        []uuid.UUID
}

// ApplySuccess replaces the stored snapshot wholesale with the engine's
// payload. The server copy is authoritative; nothing is patched
// field-by-field. If a flash was armed, the move diff is computed
// against the confirmed order.
func (s *Store) ApplySuccess(status *engine.StatusResponse, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = cloneStatus(status)
	s.hasStatus = true
	s.demo = false
	s.lastSuccess = at
	s.lastAttempt = at
	s.lastError = nil

	if s.armedFlash != nil {
		s.flash = queue.FlashIDs(s.armedFlash, queue.AllIDs(s.status.Log))
		s.armedFlash = nil
	}
}

// ApplyFailure records a poll failure. Previous data is kept so the UI
// keeps rendering last-known-server-truth under an accurate badge.
func (s *Store) ApplyFailure(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastError = err
	s.lastAttempt = at
}

// ApplyRehearsal publishes a locally simulated snapshot for offline
// rehearsal. It never counts as a successful poll, so the mode stays
// OFFLINE.
func (s *Store) ApplyRehearsal(status *engine.StatusResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = cloneStatus(status)
	s.hasStatus = true
	s.demo = true
}

// ApplyLocalReorder rearranges the rehearsal log to the given upcoming
// order and computes the flash diff locally. It is a no-op outside
// rehearsal; live reorders must go through the engine.
func (s *Store) ApplyLocalReorder(order []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.demo || len(s.status.Log) <= 1 {
		return
	}
	before := queue.AllIDs(s.status.Log)

	byID := make(map[uuid.UUID]engine.QueueItem, len(s.status.Log)-1)
	for _, item := range s.status.Log[1:] {
		byID[item.ID] = item
	}
	next := make([]engine.QueueItem, 0, len(s.status.Log))
	next = append(next, s.status.Log[0])
	for _, id := range order {
		if item, ok := byID[id]; ok {
			next = append(next, item)
			delete(byID, id)
		}
	}
	// Stragglers keep their relative order at the tail.
	for _, item := range s.status.Log[1:] {
		if _, left := byID[item.ID]; left {
			next = append(next, item)
		}
	}
	s.status.Log = next
	s.flash = queue.FlashIDs(before, queue.AllIDs(next))
}

// ArmFlash captures the full id sequence (head included) immediately
// before a reorder command is sent.
func (s *Store) ArmFlash(before []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armedFlash = cloneIDs(before)
}

// DisarmFlash drops an armed flash picture after a failed command.
func (s *Store) DisarmFlash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armedFlash = nil
}

// ConsumeFlash returns the one-shot flash set and clears it.
func (s *Store) ConsumeFlash() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	flash := s.flash
	s.flash = nil
	return flash
}

// ArmUndo snapshots the upcoming order before a reorder request. Arming
// invalidates any previously committed undo: there is exactly one level
// of history.
func (s *Store) ArmUndo(order []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingUndo = cloneIDs(order)
	s.undo = nil
}

// CommitUndo promotes the armed snapshot after the command succeeded.
func (s *Store) CommitUndo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = s.pendingUndo
	s.pendingUndo = nil
}

// DiscardPendingUndo drops the armed snapshot after a failed command.
func (s *Store) DiscardPendingUndo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingUndo = nil
}

// PeekUndo returns the committed undo order without consuming it; the
// undo command must succeed before the snapshot is cleared.
func (s *Store) PeekUndo() ([]uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.undo == nil {
		return nil, false
	}
	return cloneIDs(s.undo), true
}

// ClearUndo consumes the snapshot after a successful undo. A second
// undo has no further effect.
func (s *Store) ClearUndo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Status:      cloneStatus(&s.status),
		HasStatus:   s.hasStatus,
		Demo:        s.demo,
		LastSuccess: s.lastSuccess,
		LastAttempt: s.lastAttempt,
		UndoReady:   s.undo != nil,
	}
	if s.lastError != nil {
		snap.LastError = fmt.Errorf("%w", s.lastError)
	}
	return snap
}

func cloneStatus(status *engine.StatusResponse) engine.StatusResponse {
	if status == nil {
		return engine.StatusResponse{}
	}
	dup := *status
	if len(status.Log) > 0 {
		dup.Log = make([]engine.QueueItem, len(status.Log))
		copy(dup.Log, status.Log)
	}
	if len(status.Producers) > 0 {
		dup.Producers = make([]engine.Producer, len(status.Producers))
		copy(dup.Producers, status.Producers)
	}
	if status.VU != nil {
		vu := *status.VU
		dup.VU = &vu
	}
	return dup
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	dup := make([]uuid.UUID, len(ids))
	copy(dup, ids)
	return dup
}
