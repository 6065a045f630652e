// Package playhead derives a smooth playback position between coarse
// engine snapshots and, while offline, advances a local rehearsal
// simulation of the playout log.
package playhead

import (
	"time"

	"github.com/studiocommand/console/internal/engine"
)

// Anchor pins an engine-reported position to the local monotonic clock.
// Re-anchored on every successful poll so drift cannot accumulate.
type Anchor struct {
	Pos int // seconds into the item at the anchor instant
	Dur int // item duration in seconds
	At  time.Time
}

// AnchorFrom captures an anchor for a now-playing payload received at
// the given instant.
func AnchorFrom(now engine.NowPlaying, at time.Time) Anchor {
	return Anchor{Pos: now.Pos, Dur: now.Dur, At: at}
}

// PositionAt interpolates the playback position for the given instant,
// clamped into [0, Dur]. Elapsed time below zero (a stale anchor or
// clock skew) counts as zero, so the position never runs backwards
// between polls.
func (a Anchor) PositionAt(now time.Time) int {
	if a.Dur <= 0 {
		return 0
	}
	elapsed := int(now.Sub(a.At) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	pos := a.Pos + elapsed
	if pos < 0 {
		pos = 0
	}
	if pos > a.Dur {
		pos = a.Dur
	}
	return pos
}

// Fraction returns the interpolated position as a 0..1 progress value.
func (a Anchor) Fraction(now time.Time) float64 {
	if a.Dur <= 0 {
		return 0
	}
	return float64(a.PositionAt(now)) / float64(a.Dur)
}
