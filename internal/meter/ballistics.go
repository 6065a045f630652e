// Package meter converts raw program-level samples into perceptually
// smoothed display values and selects which transport feeds them.
package meter

import (
	"math"
	"time"

	"github.com/studiocommand/console/internal/engine"
)

// Ballistics time constants. RMS smoothing is asymmetric: a short
// attack so transients register, a long release so the bar falls
// gently. Peaks latch instantly, hold, then decay toward the raw peak.
const (
	attackTau  = 15 * time.Millisecond
	releaseTau = 300 * time.Millisecond
	peakHold   = 220 * time.Millisecond
	peakTau    = 500 * time.Millisecond
)

// ChannelDisplay is the smoothed state of one audio channel.
type ChannelDisplay struct {
	RMS  float64
	Peak float64

	holdUntil time.Time
}

// Display carries both channels, ready for rendering. UI-owned, never
// persisted.
type Display struct {
	Left  ChannelDisplay
	Right ChannelDisplay
}

// Ballistics applies attack/release smoothing and peak hold to a stream
// of raw samples. Not safe for concurrent use; the transport selector
// serializes updates.
type Ballistics struct {
	display Display
	last    time.Time
}

// Update feeds one raw sample observed at the given instant and returns
// the new display state. The blend factor is derived from the elapsed
// time, so the ballistics are frame-rate independent.
func (b *Ballistics) Update(raw engine.MeterSample, now time.Time) Display {
	dt := time.Duration(0)
	if !b.last.IsZero() && now.After(b.last) {
		dt = now.Sub(b.last)
	}
	b.last = now

	b.display.Left.update(clamp01(raw.RMSLeft), clamp01(raw.PeakLeft), dt, now)
	b.display.Right.update(clamp01(raw.RMSRight), clamp01(raw.PeakRight), dt, now)
	return b.display
}

// Display returns the current display state without feeding a sample.
func (b *Ballistics) Display() Display {
	return b.display
}

func (c *ChannelDisplay) update(rms, peak float64, dt time.Duration, now time.Time) {
	tau := releaseTau
	if rms > c.RMS {
		tau = attackTau
	}
	c.RMS += (rms - c.RMS) * blend(dt, tau)
	c.RMS = clamp01(c.RMS)

	switch {
	case peak >= c.Peak:
		// Latch instantly to any new maximum and rearm the hold.
		c.Peak = peak
		c.holdUntil = now.Add(peakHold)
	case now.Before(c.holdUntil):
		// Held: the indicator stays put.
	default:
		// Decay toward the raw peak, never below it.
		c.Peak = peak + (c.Peak-peak)*decay(dt, peakTau)
		if c.Peak < peak {
			c.Peak = peak
		}
	}
	c.Peak = clamp01(c.Peak)
}

// blend converts a time constant into a per-frame smoothing factor.
func blend(dt time.Duration, tau time.Duration) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-float64(dt)/float64(tau))
}

func decay(dt time.Duration, tau time.Duration) float64 {
	if dt <= 0 {
		return 1
	}
	return math.Exp(-float64(dt) / float64(tau))
}

// DisplayDB maps a 0..1 display value onto the -60..0 dB scale used by
// the meter labels. The value is squared first, approximating a
// perceptual curve rather than a true logarithmic conversion.
func DisplayDB(v float64) float64 {
	v = clamp01(v)
	return -60 + 60*v*v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
