package queue

import (
	"testing"

	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
)

// ids returns n distinct uuids. Index 0 plays the pinned head in tests
// that build a full log.
func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func namesOf(order []uuid.UUID, named map[uuid.UUID]string) []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = named[id]
	}
	return out
}

// abcd builds the canonical upcoming order [A,B,C,D] used by the
// gesture scenarios.
func abcd() ([]uuid.UUID, map[uuid.UUID]string, map[string]uuid.UUID) {
	order := ids(4)
	names := []string{"A", "B", "C", "D"}
	byID := make(map[uuid.UUID]string, 4)
	byName := make(map[string]uuid.UUID, 4)
	for i, id := range order {
		byID[id] = names[i]
		byName[names[i]] = id
	}
	return order, byID, byName
}

func TestApply_DropAfterLater(t *testing.T) {
	order, byID, byName := abcd()

	// Move B to after C -> [A,C,B,D].
	next, changed := Apply(order, Gesture{Kind: GestureDrop, ID: byName["B"], Target: byName["C"], After: true})
	if !changed {
		t.Fatal("Apply reported no change")
	}
	got := namesOf(next, byID)
	want := []string{"A", "C", "B", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestApply_DropBeforeFirst(t *testing.T) {
	order, byID, byName := abcd()

	// Drag D onto A with insert-before -> [D,A,B,C].
	next, changed := Apply(order, Gesture{Kind: GestureDrop, ID: byName["D"], Target: byName["A"], After: false})
	if !changed {
		t.Fatal("Apply reported no change")
	}
	got := namesOf(next, byID)
	want := []string{"D", "A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestApply_DropOnSelfIsNoOp(t *testing.T) {
	order, _, byName := abcd()

	if _, changed := Apply(order, Gesture{Kind: GestureDrop, ID: byName["B"], Target: byName["B"]}); changed {
		t.Fatal("dropping an item on itself should not change the order")
	}
}

func TestApply_DropVanishedTargetGoesToEnd(t *testing.T) {
	order, byID, byName := abcd()

	next, changed := Apply(order, Gesture{Kind: GestureDrop, ID: byName["A"], Target: uuid.New(), After: false})
	if !changed {
		t.Fatal("Apply reported no change")
	}
	got := namesOf(next, byID)
	want := []string{"B", "C", "D", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestApply_StepMoves(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		delta int
		want  []string
	}{
		{"down one", "B", 1, []string{"A", "C", "B", "D"}},
		{"up one", "C", -1, []string{"A", "C", "B", "D"}},
		{"to top clamped", "D", -10, []string{"D", "A", "B", "C"}},
		{"to bottom clamped", "A", 10, []string{"B", "C", "D", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, byID, byName := abcd()
			next, changed := Apply(order, Gesture{Kind: GestureStep, ID: byName[tt.id], Delta: tt.delta})
			if !changed {
				t.Fatal("Apply reported no change")
			}
			got := namesOf(next, byID)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestApply_StepNoOps(t *testing.T) {
	order, _, byName := abcd()

	if _, changed := Apply(order, Gesture{Kind: GestureStep, ID: byName["A"], Delta: -1}); changed {
		t.Fatal("stepping the first upcoming item up should be a no-op")
	}
	if _, changed := Apply(order, Gesture{Kind: GestureStep, ID: byName["D"], Delta: 1}); changed {
		t.Fatal("stepping the last upcoming item down should be a no-op")
	}
	if _, changed := Apply(order, Gesture{Kind: GestureStep, ID: byName["B"], Delta: 0}); changed {
		t.Fatal("zero delta should be a no-op")
	}
	if _, changed := Apply(order, Gesture{Kind: GestureStep, ID: uuid.New(), Delta: 1}); changed {
		t.Fatal("unknown id should be a no-op")
	}
}

// Every valid gesture must produce a permutation of the input: same
// length, same id set, never an insert or delete.
func TestApply_ProducesPermutation(t *testing.T) {
	order, _, _ := abcd()

	gestures := []Gesture{
		{Kind: GestureStep, ID: order[1], Delta: 2},
		{Kind: GestureStep, ID: order[3], Delta: -3},
		{Kind: GestureDrop, ID: order[0], Target: order[2], After: true},
		{Kind: GestureDrop, ID: order[2], Target: order[0], After: false},
	}
	for _, g := range gestures {
		next, changed := Apply(order, g)
		if !changed {
			t.Fatalf("gesture %+v reported no change", g)
		}
		if len(next) != len(order) {
			t.Fatalf("gesture %+v changed length: %d -> %d", g, len(order), len(next))
		}
		seen := make(map[uuid.UUID]bool, len(next))
		for _, id := range next {
			seen[id] = true
		}
		for _, id := range order {
			if !seen[id] {
				t.Fatalf("gesture %+v lost id %s", g, id)
			}
		}
	}
}

func TestUpcomingIDs_ExcludesPinnedHead(t *testing.T) {
	all := ids(5)
	log := make([]engine.QueueItem, len(all))
	for i, id := range all {
		log[i] = engine.QueueItem{ID: id, State: engine.StateQueued}
	}
	log[0].State = engine.StatePlaying

	upcoming := UpcomingIDs(log)
	if len(upcoming) != 4 {
		t.Fatalf("upcoming length = %d, want 4", len(upcoming))
	}
	for _, id := range upcoming {
		if id == all[0] {
			t.Fatal("upcoming order contains the pinned head")
		}
	}

	if !IsHead(log, all[0]) {
		t.Fatal("IsHead(head) = false")
	}
	if IsHead(log, all[1]) {
		t.Fatal("IsHead(non-head) = true")
	}
	if got := UpcomingIDs(log[:1]); got != nil {
		t.Fatalf("single-item log upcoming = %v, want nil", got)
	}
}

func TestFlashIDs(t *testing.T) {
	head := uuid.New()
	order, byID, byName := abcd()

	before := append([]uuid.UUID{head}, order...)

	// Move B after C: [H,A,B,C,D] -> [H,A,C,B,D]. B and C shifted, A and
	// D did not.
	after := []uuid.UUID{head, byName["A"], byName["C"], byName["B"], byName["D"]}

	flash := FlashIDs(before, after)
	got := map[string]bool{}
	for _, id := range flash {
		got[byID[id]] = true
	}
	if len(got) != 2 || !got["B"] || !got["C"] {
		t.Fatalf("flash = %v, want exactly {B, C}", got)
	}
}

func TestFlashIDs_IgnoresInsertsAndIdentity(t *testing.T) {
	head := uuid.New()
	order, _, _ := abcd()
	before := append([]uuid.UUID{head}, order...)

	// Identical sequences flash nothing.
	if flash := FlashIDs(before, before); len(flash) != 0 {
		t.Fatalf("identical sequences flashed %v", flash)
	}

	// An engine-side insert is not a reorder; the new id must not flash.
	inserted := uuid.New()
	after := append([]uuid.UUID{head, inserted}, order...)
	for _, id := range FlashIDs(before, after) {
		if id == inserted {
			t.Fatal("freshly inserted id joined the flash set")
		}
	}
}
