package app

import (
	"context"
	"log"
	"time"

	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/meter"
	"github.com/studiocommand/console/internal/playhead"
	"github.com/studiocommand/console/internal/state"
)

const (
	defaultPollInterval  = time.Second
	defaultMeterInterval = 120 * time.Millisecond
)

// Reconciler polls the authoritative engine snapshot at a fixed cadence
// and is the single writer of server-reflected state. Commands never
// mutate the store directly; they Kick the reconciler so the UI
// reflects engine-confirmed order without waiting for the next tick.
type Reconciler struct {
	store    *state.Store
	client   engine.API
	selector *meter.Selector // may be nil
	interval time.Duration
	kick     chan struct{}
}

// NewReconciler builds a reconciler. selector is optional; when set,
// meter samples piggybacked on the status payload are fed to it.
func NewReconciler(store *state.Store, client engine.API, interval time.Duration, selector *meter.Selector) *Reconciler {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Reconciler{
		store:    store,
		client:   client,
		selector: selector,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the background poll loop. It returns immediately.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			r.refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-r.kick:
			}
		}
	}()
}

// Kick requests an immediate re-poll, coalescing with any pending one.
func (r *Reconciler) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *Reconciler) refresh(ctx context.Context) {
	status, err := r.client.FetchStatus(ctx)
	now := time.Now()
	if err != nil {
		r.store.ApplyFailure(err, now)
		log.Printf("status poll failed: %v", err)
		if r.store.Snapshot().Mode(now, 0) == state.ModeOffline {
			r.advanceRehearsal()
		}
		return
	}
	r.store.ApplySuccess(status, now)
	if r.selector != nil && status.VU != nil {
		r.selector.Offer(meter.SourcePoll, *status.VU, now)
	}
}

// advanceRehearsal runs one step of the offline simulation: the head
// plays down, finished items shift, filler tops the tail up. It reads
// the store back first so local rehearsal reorders survive the tick.
// Never invoked while a poll has ever succeeded.
func (r *Reconciler) advanceRehearsal() {
	snap := r.store.Snapshot()
	var st engine.StatusResponse
	if snap.Demo {
		st = snap.Status
	} else {
		st = *playhead.Seed()
	}
	playhead.Advance(&st)
	r.store.ApplyRehearsal(&st)
}

// StartMeterPoller launches the fast meter fallback loop, independent
// of the status cadence so meter responsiveness is decoupled from queue
// payload size. Polling pauses while the data channel is live.
func StartMeterPoller(ctx context.Context, client engine.API, selector *meter.Selector, interval time.Duration) {
	if interval <= 0 {
		interval = defaultMeterInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if selector.Active(time.Now()) == meter.SourceChannel {
				continue
			}
			sample, err := client.FetchMeters(ctx)
			if err != nil {
				continue
			}
			selector.Offer(meter.SourcePoll, sample, time.Now())
		}
	}()
}
