package playhead

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/studiocommand/console/internal/engine"
)

// rehearsalDepth is the log depth the simulator keeps topped up,
// matching the engine's own demo scheduler.
const rehearsalDepth = 8

// Seed returns the canned rehearsal snapshot the console boots into
// when the engine is unreachable. Deterministic apart from ids, so the
// offline view is predictable.
func Seed() *engine.StatusResponse {
	return &engine.StatusResponse{
		Version: "rehearsal",
		Now:     engine.NowPlaying{Title: "Lean On Me", Artist: "Club Nouveau", Dur: 228, Pos: 0},
		Log: []engine.QueueItem{
			{ID: uuid.New(), Tag: engine.TagMusic, Time: "15:33", Title: "Lean On Me", Artist: "Club Nouveau", State: engine.StatePlaying, Dur: "3:48", Cart: "080-0599"},
			{ID: uuid.New(), Tag: engine.TagMusic, Time: "15:37", Title: "Bette Davis Eyes", Artist: "Kim Carnes", State: engine.StateNext, Dur: "3:30", Cart: "080-6250"},
			{ID: uuid.New(), Tag: engine.TagMusic, Time: "15:41", Title: "Talk Dirty To Me", Artist: "Poison", State: engine.StateQueued, Dur: "3:42", Cart: "080-4577"},
			{ID: uuid.New(), Tag: engine.TagEvent, Time: "15:45", Title: "TOH Legal ID", Artist: "", State: engine.StateLocked, Dur: "0:10", Cart: "ID-TOH"},
			{ID: uuid.New(), Tag: engine.TagMusic, Time: "15:46", Title: "Jessie's Girl", Artist: "Rick Springfield", State: engine.StateQueued, Dur: "3:07", Cart: "080-1591"},
		},
		Producers: []engine.Producer{
			{Name: "Sarah", Role: "Producer", Connected: true, OnAir: true, Jitter: "8-20ms", Loss: "0.1%", Level: 0.72},
			{Name: "Emily", Role: "Producer", Connected: true, Jitter: "8-20ms", Loss: "0.4%", Level: 0.44},
		},
	}
}

// Advance runs one 1 Hz rehearsal step in place: the position ticks
// forward and, when the head finishes, the log shifts and fresh filler
// items top the tail back up. Locked items are exempt from the shift:
// they are never promoted to playing, only the engine may remove them.
// Callers must not invoke this while LIVE.
func Advance(st *engine.StatusResponse) {
	st.Now.Pos++
	if st.Now.Pos < st.Now.Dur {
		return
	}
	shift(st)
}

// Skip force-finishes the playing head, as the transport skip action
// would on the engine. Rehearsal only.
func Skip(st *engine.StatusResponse) {
	shift(st)
}

func shift(st *engine.StatusResponse) {
	st.Now.Pos = 0

	if len(st.Log) > 0 {
		st.Log = st.Log[1:]
	}
	if len(st.Log) == 0 {
		st.Now = engine.NowPlaying{}
	}

	for len(st.Log) < rehearsalDepth {
		n := len(st.Log)
		st.Log = append(st.Log, engine.QueueItem{
			ID:     uuid.New(),
			Tag:    engine.TagMusic,
			Time:   fmt.Sprintf("+%d", n),
			Title:  fmt.Sprintf("Queued Track %d", n),
			Artist: "Various",
			State:  engine.StateQueued,
			Dur:    "3:30",
			Cart:   fmt.Sprintf("080-%04d", 9000+n),
		})
	}

	// A locked item must not become the playing head; slide the first
	// playable item in front of any leading locked run.
	if idx := firstPlayable(st.Log); idx > 0 {
		item := st.Log[idx]
		rest := append([]engine.QueueItem{}, st.Log[:idx]...)
		rest = append(rest, st.Log[idx+1:]...)
		st.Log = append([]engine.QueueItem{item}, rest...)
	}

	Normalize(st)
}

// Normalize restores the state markers after any log mutation: the head
// plays, the first non-locked follower is next, everything else keeps
// its locked marker or reverts to queued. Now-playing mirrors the head.
func Normalize(st *engine.StatusResponse) {
	if len(st.Log) == 0 {
		return
	}
	st.Log[0].State = engine.StatePlaying
	st.Now.Title = st.Log[0].Title
	st.Now.Artist = st.Log[0].Artist
	st.Now.Dur = st.Log[0].DurationSec()
	if st.Now.Pos > st.Now.Dur {
		st.Now.Pos = 0
	}

	marked := false
	for i := 1; i < len(st.Log); i++ {
		if st.Log[i].State == engine.StateLocked {
			continue
		}
		if !marked {
			st.Log[i].State = engine.StateNext
			marked = true
			continue
		}
		st.Log[i].State = engine.StateQueued
	}
}

func firstPlayable(log []engine.QueueItem) int {
	for i, item := range log {
		if item.State != engine.StateLocked {
			return i
		}
	}
	return -1
}
