package meter

import (
	"math"
	"testing"
	"time"

	"github.com/studiocommand/console/internal/engine"
)

const frame = 120 * time.Millisecond

// feed runs n identical frames through b at a fixed frame interval.
func feed(b *Ballistics, raw engine.MeterSample, start time.Time, n int) (Display, time.Time) {
	at := start
	var d Display
	for i := 0; i < n; i++ {
		at = at.Add(frame)
		d = b.Update(raw, at)
	}
	return d, at
}

func TestBallistics_AttackFasterThanRelease(t *testing.T) {
	base := time.Now()

	var b Ballistics
	b.Update(engine.MeterSample{}, base)

	// One frame of loud signal: attack tau is far below the frame time,
	// so the display should be nearly there already.
	up := b.Update(engine.MeterSample{RMSLeft: 0.8, RMSRight: 0.8}, base.Add(frame))
	if up.Left.RMS < 0.75 {
		t.Fatalf("RMS after one attack frame = %v, want near 0.8", up.Left.RMS)
	}

	// One frame of silence: release tau is much longer, so most of the
	// level must still be showing.
	down := b.Update(engine.MeterSample{}, base.Add(2*frame))
	if down.Left.RMS < 0.4 {
		t.Fatalf("RMS after one release frame = %v, want slow decay", down.Left.RMS)
	}
	if down.Left.RMS >= up.Left.RMS {
		t.Fatalf("RMS did not fall: %v -> %v", up.Left.RMS, down.Left.RMS)
	}
}

func TestBallistics_FrameRateIndependence(t *testing.T) {
	base := time.Now()

	// Same wall-clock release interval, chopped into different frame
	// counts, must land close to the same display value.
	run := func(frames int) float64 {
		var b Ballistics
		at := base
		for i := 0; i < 4; i++ {
			at = at.Add(frame)
			b.Update(engine.MeterSample{RMSLeft: 1}, at)
		}
		step := 600 * time.Millisecond / time.Duration(frames)
		var d Display
		for i := 0; i < frames; i++ {
			at = at.Add(step)
			d = b.Update(engine.MeterSample{}, at)
		}
		return d.Left.RMS
	}

	coarse := run(5)
	fine := run(60)
	if math.Abs(coarse-fine) > 0.02 {
		t.Fatalf("release diverges with frame rate: %v vs %v", coarse, fine)
	}
}

func TestBallistics_PeakLatchHoldDecay(t *testing.T) {
	base := time.Now()

	var b Ballistics
	// A single hot peak latches instantly.
	d := b.Update(engine.MeterSample{PeakLeft: 0.9}, base)
	if d.Left.Peak != 0.9 {
		t.Fatalf("peak = %v, want instant latch to 0.9", d.Left.Peak)
	}

	// Within the hold window the indicator stays put.
	d = b.Update(engine.MeterSample{PeakLeft: 0.2}, base.Add(100*time.Millisecond))
	if d.Left.Peak != 0.9 {
		t.Fatalf("peak = %v during hold, want 0.9", d.Left.Peak)
	}

	// After the hold it decays, but never below the raw peak.
	d = b.Update(engine.MeterSample{PeakLeft: 0.2}, base.Add(400*time.Millisecond))
	if d.Left.Peak >= 0.9 || d.Left.Peak < 0.2 {
		t.Fatalf("peak = %v after hold, want decaying within [0.2, 0.9)", d.Left.Peak)
	}

	prev := d.Left.Peak
	d = b.Update(engine.MeterSample{PeakLeft: 0.2}, base.Add(5*time.Second))
	if d.Left.Peak > prev || d.Left.Peak < 0.2 {
		t.Fatalf("peak = %v, want monotone decay toward 0.2", d.Left.Peak)
	}

	// A louder raw peak re-latches immediately.
	d = b.Update(engine.MeterSample{PeakLeft: 0.95}, base.Add(6*time.Second))
	if d.Left.Peak != 0.95 {
		t.Fatalf("peak = %v, want re-latch to 0.95", d.Left.Peak)
	}
}

func TestBallistics_ClampsRawSamples(t *testing.T) {
	base := time.Now()

	var b Ballistics
	b.Update(engine.MeterSample{RMSLeft: 7, PeakRight: -3}, base)
	d, _ := feed(&b, engine.MeterSample{RMSLeft: 7, PeakRight: -3}, base, 50)

	if d.Left.RMS > 1 {
		t.Fatalf("RMS = %v, want clamped to 1", d.Left.RMS)
	}
	if d.Right.Peak < 0 {
		t.Fatalf("peak = %v, want clamped to 0", d.Right.Peak)
	}
}

func TestDisplayDB(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, -60},
		{1, 0},
		{0.5, -45},
		{-2, -60},
		{3, 0},
	}
	for _, tt := range tests {
		if got := DisplayDB(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DisplayDB(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
