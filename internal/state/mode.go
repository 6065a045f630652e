package state

import "time"

// ConnectionMode is the console's view of engine reachability, derived
// purely from the time since the last successful poll.
type ConnectionMode int

const (
	// ModeOffline means no poll has ever succeeded; the console runs the
	// local rehearsal simulation instead.
	ModeOffline ConnectionMode = iota
	// ModeLive means the last successful poll is within the staleness
	// threshold.
	ModeLive
	// ModeLiveStale means polling succeeded at least once but has been
	// failing or degraded past the threshold.
	ModeLiveStale
)

// DefaultStaleAfter is how long after the last successful poll a live
// connection is displayed as stale.
const DefaultStaleAfter = 5 * time.Second

func (m ConnectionMode) String() string {
	switch m {
	case ModeLive:
		return "LIVE"
	case ModeLiveStale:
		return "STALE"
	default:
		return "OFFLINE"
	}
}

// modeAt derives the connection mode for a given wall-clock instant.
func modeAt(lastSuccess time.Time, staleAfter time.Duration, now time.Time) ConnectionMode {
	if lastSuccess.IsZero() {
		return ModeOffline
	}
	if now.Sub(lastSuccess) < staleAfter {
		return ModeLive
	}
	return ModeLiveStale
}
