package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Queue item tags as scheduled by the engine.
const (
	TagMusic = "MUS"
	TagAd    = "AD"
	TagID    = "ID"
	TagEvent = "EVT"
)

// Lifecycle states for queue items. Exactly one item is playing at a time
// and the engine keeps it at position 0 of the log.
const (
	StatePlaying = "playing"
	StateNext    = "next"
	StateQueued  = "queued"
	StateLocked  = "locked"
	StateSkipped = "skipped"
)

// StatusResponse mirrors the payload returned by /api/v1/status.
type StatusResponse struct {
	Version   string       `json:"version"`
	Now       NowPlaying   `json:"now"`
	Log       []QueueItem  `json:"log"`
	Producers []Producer   `json:"producers"`
	VU        *MeterSample `json:"vu,omitempty"`
}

// QueueItem describes one entry of the playout log in transport-friendly
// form. The engine owns identity and ordering; the console holds a
// read-mostly mirror.
type QueueItem struct {
	ID     uuid.UUID `json:"id"`
	Tag    string    `json:"tag"`
	Time   string    `json:"time"`
	Title  string    `json:"title"`
	Artist string    `json:"artist"`
	State  string    `json:"state"`
	Dur    string    `json:"dur"` // "M:SS"
	Cart   string    `json:"cart"`
}

// DurationSec parses the item's "M:SS" duration. Unparseable values
// report zero, matching the engine's own lenient parser.
func (q QueueItem) DurationSec() int {
	return ParseDuration(q.Dur)
}

// NowPlaying is the engine's coarse playhead snapshot. Pos is the
// position at the moment the snapshot was taken; the console
// interpolates between polls.
type NowPlaying struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Dur    int    `json:"dur"` // seconds
	Pos    int    `json:"pos"` // seconds
}

// Producer reports one remote contributor's link status.
type Producer struct {
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Connected bool    `json:"connected"`
	OnAir     bool    `json:"onAir"`
	CamOn     bool    `json:"camOn"`
	Jitter    string  `json:"jitter"`
	Loss      string  `json:"loss"`
	Level     float64 `json:"level"`
}

// MeterSample is one raw program-level reading, all channels in [0,1].
// The same shape arrives from /api/v1/meters and from the "meters"
// WebRTC data channel.
type MeterSample struct {
	RMSLeft   float64 `json:"rmsLeft"`
	RMSRight  float64 `json:"rmsRight"`
	PeakLeft  float64 `json:"peakLeft"`
	PeakRight float64 `json:"peakRight"`
}

// InsertItem is the body of a queue insert request.
type InsertItem struct {
	Tag    string `json:"tag"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Dur    string `json:"dur"`
	Cart   string `json:"cart"`
}

// ParseDuration converts an "M:SS" string to whole seconds. Returns 0
// for anything it cannot parse.
func ParseDuration(d string) int {
	m, s, ok := strings.Cut(d, ":")
	if !ok {
		return 0
	}
	mins, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || mins < 0 {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || secs < 0 {
		return 0
	}
	return mins*60 + secs
}

// FormatDuration renders whole seconds as "M:SS".
func FormatDuration(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
