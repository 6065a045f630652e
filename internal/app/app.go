package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/studiocommand/console/internal/config"
	"github.com/studiocommand/console/internal/engine"
	"github.com/studiocommand/console/internal/meter"
	"github.com/studiocommand/console/internal/monitor"
	"github.com/studiocommand/console/internal/prefs"
	"github.com/studiocommand/console/internal/state"
	"github.com/studiocommand/console/internal/ui"
)

// Options configure the console application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/studiocommand/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the operator console until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load console config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := engine.NewClient(cfg.EngineBind)
	if err != nil {
		return fmt.Errorf("init engine client: %w", err)
	}

	store := &state.Store{}
	selector := &meter.Selector{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	rec := NewReconciler(store, client, interval, selector)
	rec.Start(ctx)
	StartMeterPoller(ctx, client, selector, defaultMeterInterval)

	monitorMgr := monitor.NewManager(client, cfg.StunServer, monitor.Events{
		OnSample: func(sample engine.MeterSample) {
			selector.Offer(meter.SourceChannel, sample, time.Now())
		},
		OnChannelOpen: selector.SetChannelOpen,
	})

	if userPrefs.AutoStart {
		go func() {
			if err := monitorMgr.Start(ctx); err != nil {
				log.Printf("monitor auto-start failed: %v", err)
			}
		}()
	}

	uiOpts := ui.Options{
		Context:          ctx,
		Store:            store,
		Commander:        NewCommander(client, store, rec),
		Selector:         selector,
		Monitor:          monitorMgr,
		PollTick:         interval,
		MeterTick:        defaultMeterInterval,
		ThemeName:        userPrefs.Theme,
		ShowVU:           userPrefs.ShowVU,
		AutoStartMonitor: userPrefs.AutoStart,
		PrefsPath:        opts.PrefsPath,
	}
	defer monitorMgr.Stop()
	return ui.Run(uiOpts)
}
