package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
)

func demoStatus(n int) *engine.StatusResponse {
	log := make([]engine.QueueItem, n)
	for i := range log {
		log[i] = engine.QueueItem{ID: uuid.New(), State: engine.StateQueued, Title: "Track"}
	}
	if n > 0 {
		log[0].State = engine.StatePlaying
	}
	return &engine.StatusResponse{
		Version: "0.4.2",
		Now:     engine.NowPlaying{Title: "Track", Dur: 200, Pos: 10},
		Log:     log,
	}
}

func TestStore_ApplySuccessReplacesWholesale(t *testing.T) {
	var s Store

	first := demoStatus(3)
	s.ApplySuccess(first, time.Now())

	second := demoStatus(5)
	second.Version = "0.5.0"
	at := time.Now()
	s.ApplySuccess(second, at)

	snap := s.Snapshot()
	if !snap.HasStatus || snap.Demo {
		t.Fatalf("snapshot = %#v, want live status", snap)
	}
	if snap.Status.Version != "0.5.0" || len(snap.Status.Log) != 5 {
		t.Fatalf("status not replaced wholesale: %#v", snap.Status)
	}
	if !snap.LastSuccess.Equal(at) {
		t.Fatalf("LastSuccess = %v, want %v", snap.LastSuccess, at)
	}

	// Returned snapshot must be independent of the stored one.
	snap.Status.Log[0].Title = "mutated"
	if s.Snapshot().Status.Log[0].Title == "mutated" {
		t.Fatal("Snapshot should clone the log")
	}
}

func TestStore_ApplyFailureKeepsData(t *testing.T) {
	var s Store

	s.ApplySuccess(demoStatus(3), time.Now())
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.ApplyFailure(origErr, time.Now())

	snap := s.Snapshot()
	if len(snap.Status.Log) != len(prev.Status.Log) {
		t.Fatalf("log changed on failure: %d -> %d", len(prev.Status.Log), len(snap.Status.Log))
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatal("Snapshot should clone the error instance")
	}
}

func TestSnapshot_ModeTransitions(t *testing.T) {
	base := time.Now()

	tests := []struct {
		name string
		snap Snapshot
		at   time.Time
		want ConnectionMode
	}{
		{"never succeeded", Snapshot{}, base, ModeOffline},
		{"never succeeded with rehearsal data", Snapshot{HasStatus: true, Demo: true}, base, ModeOffline},
		{"fresh success", Snapshot{LastSuccess: base}, base.Add(time.Second), ModeLive},
		{"just under threshold", Snapshot{LastSuccess: base}, base.Add(DefaultStaleAfter - time.Millisecond), ModeLive},
		{"at threshold", Snapshot{LastSuccess: base}, base.Add(DefaultStaleAfter), ModeLiveStale},
		{"long after threshold", Snapshot{LastSuccess: base}, base.Add(time.Minute), ModeLiveStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Mode(tt.at, 0); got != tt.want {
				t.Fatalf("Mode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_ModeRevertsToLiveOnSuccess(t *testing.T) {
	var s Store
	base := time.Now()

	s.ApplySuccess(demoStatus(2), base)
	s.ApplyFailure(errors.New("down"), base.Add(2*time.Second))

	at := base.Add(10 * time.Second)
	if got := s.Snapshot().Mode(at, 0); got != ModeLiveStale {
		t.Fatalf("mode after failures = %v, want STALE", got)
	}

	s.ApplySuccess(demoStatus(2), at)
	if got := s.Snapshot().Mode(at.Add(time.Second), 0); got != ModeLive {
		t.Fatalf("mode after recovery = %v, want LIVE", got)
	}
}

func TestStore_FlashComputedOnNextSuccess(t *testing.T) {
	var s Store

	status := demoStatus(4)
	s.ApplySuccess(status, time.Now())

	before := make([]uuid.UUID, len(status.Log))
	for i, item := range status.Log {
		before[i] = item.ID
	}
	s.ArmFlash(before)

	// Engine confirms a swap of positions 1 and 2.
	confirmed := demoStatus(0)
	confirmed.Log = []engine.QueueItem{
		status.Log[0], status.Log[2], status.Log[1], status.Log[3],
	}
	s.ApplySuccess(confirmed, time.Now())

	flash := s.ConsumeFlash()
	want := map[uuid.UUID]bool{status.Log[1].ID: true, status.Log[2].ID: true}
	if len(flash) != 2 {
		t.Fatalf("flash = %v, want 2 ids", flash)
	}
	for _, id := range flash {
		if !want[id] {
			t.Fatalf("unexpected id %s in flash set", id)
		}
	}

	// One-shot: a second consume returns nothing.
	if again := s.ConsumeFlash(); len(again) != 0 {
		t.Fatalf("second ConsumeFlash = %v, want empty", again)
	}
}

func TestStore_DisarmedFlashNeverFires(t *testing.T) {
	var s Store

	status := demoStatus(3)
	s.ApplySuccess(status, time.Now())
	s.ArmFlash([]uuid.UUID{status.Log[0].ID, status.Log[1].ID, status.Log[2].ID})
	s.DisarmFlash()
	s.ApplySuccess(demoStatus(3), time.Now())

	if flash := s.ConsumeFlash(); len(flash) != 0 {
		t.Fatalf("flash = %v, want empty after disarm", flash)
	}
}

func TestStore_UndoSingleLevel(t *testing.T) {
	var s Store

	first := []uuid.UUID{uuid.New(), uuid.New()}
	s.ArmUndo(first)

	// Not available until the command is confirmed.
	if _, ok := s.PeekUndo(); ok {
		t.Fatal("undo available before commit")
	}
	s.CommitUndo()

	got, ok := s.PeekUndo()
	if !ok || len(got) != 2 || got[0] != first[0] {
		t.Fatalf("PeekUndo = %v %v, want committed order", got, ok)
	}

	// Arming the next reorder invalidates the committed level.
	second := []uuid.UUID{uuid.New()}
	s.ArmUndo(second)
	if _, ok := s.PeekUndo(); ok {
		t.Fatal("undo still available after a new request was armed")
	}

	// A failed command discards the pending snapshot entirely.
	s.DiscardPendingUndo()
	s.CommitUndo()
	if _, ok := s.PeekUndo(); ok {
		t.Fatal("undo available after discard")
	}
}

func TestStore_UndoConsumedOnce(t *testing.T) {
	var s Store

	order := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	s.ArmUndo(order)
	s.CommitUndo()

	if !s.Snapshot().UndoReady {
		t.Fatal("UndoReady = false, want true")
	}

	s.ClearUndo()
	if _, ok := s.PeekUndo(); ok {
		t.Fatal("undo available after consumption")
	}
	if s.Snapshot().UndoReady {
		t.Fatal("UndoReady = true after consumption")
	}
}

func TestStore_LocalReorderOnlyInRehearsal(t *testing.T) {
	var s Store

	// Live data: local reorder must be ignored.
	live := demoStatus(4)
	s.ApplySuccess(live, time.Now())
	s.ApplyLocalReorder([]uuid.UUID{live.Log[3].ID, live.Log[1].ID, live.Log[2].ID})
	snap := s.Snapshot()
	if snap.Status.Log[1].ID != live.Log[1].ID {
		t.Fatal("live log mutated by local reorder")
	}

	// Rehearsal data: reorder applies and flashes.
	var d Store
	demo := demoStatus(4)
	d.ApplyRehearsal(demo)
	d.ApplyLocalReorder([]uuid.UUID{demo.Log[2].ID, demo.Log[1].ID, demo.Log[3].ID})

	got := d.Snapshot()
	if got.Status.Log[0].ID != demo.Log[0].ID {
		t.Fatal("local reorder moved the pinned head")
	}
	if got.Status.Log[1].ID != demo.Log[2].ID || got.Status.Log[2].ID != demo.Log[1].ID {
		t.Fatalf("local reorder not applied: %v", got.Status.Log)
	}
	if flash := d.ConsumeFlash(); len(flash) != 2 {
		t.Fatalf("flash = %v, want the two swapped ids", flash)
	}
}
