package meter

import (
	"sync"
	"time"

	"github.com/studiocommand/console/internal/engine"
)

// Source identifies which transport delivered a meter frame.
type Source int

const (
	// SourcePoll is the HTTP fast-poll fallback.
	SourcePoll Source = iota
	// SourceChannel is the WebRTC "meters" data channel.
	SourceChannel
)

func (s Source) String() string {
	if s == SourceChannel {
		return "rtc"
	}
	return "poll"
}

// channelFreshFor is how recently the data channel must have delivered
// a frame to be preferred over polling.
const channelFreshFor = 2 * time.Second

// Selector routes meter frames from two competing transports into one
// Ballistics instance, preferring the low-latency data channel while it
// is open and fresh. Safe for concurrent use: the data channel delivers
// from network goroutines while the UI polls and reads.
type Selector struct {
	mu          sync.Mutex
	ballistics  Ballistics
	channelOpen bool
	lastChannel time.Time
}

// Active reports the transport currently feeding the display.
func (s *Selector) Active(now time.Time) Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(now)
}

func (s *Selector) activeLocked(now time.Time) Source {
	if s.channelOpen && now.Sub(s.lastChannel) < channelFreshFor {
		return SourceChannel
	}
	return SourcePoll
}

// SetChannelOpen records data-channel availability as reported by the
// monitor session.
func (s *Selector) SetChannelOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelOpen = open
}

// Offer feeds one raw frame from the given transport. Poll frames are
// dropped while the data channel is live so a stale poll response
// cannot yank the display backwards.
func (s *Selector) Offer(src Source, raw engine.MeterSample, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if src == SourceChannel {
		s.lastChannel = now
	} else if s.activeLocked(now) == SourceChannel {
		return
	}
	s.ballistics.Update(raw, now)
}

// Display returns the current smoothed state for rendering.
func (s *Selector) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ballistics.Display()
}
