package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	sdnotify "github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"

	"catalystradar/internal/config"
	"catalystradar/pkg/logx"
)

// RunLoop runs the pipeline on the configured cron schedule until ctx is
// cancelled. Runs are consumed by this single goroutine, so two runs can
// never overlap and race on the persisted flags; a tick that lands while
// a run is in flight coalesces into one pending run.
//
// In daemon mode the loop also: notifies systemd (READY/WATCHDOG/
// STOPPING), serves Prometheus metrics when enabled, and re-applies
// logging settings when the config file changes.
func (a *App) RunLoop(ctx context.Context, mgr *config.Manager, logSvc *logx.Service) error {
	cfg := a.cfg.Load()

	loc := time.Local
	if tz := cfg.Schedule.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			a.log.Warn("invalid schedule timezone; using local", logx.String("timezone", tz), logx.Err(err))
		} else {
			loc = l
		}
	}

	spec := cfg.Schedule.Spec
	if spec == "" {
		spec = "@hourly"
	}

	runCh := make(chan struct{}, 1)
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() {
		select {
		case runCh <- struct{}{}:
		default: // a run is already pending
		}
	}); err != nil {
		return errors.New("invalid schedule spec " + spec + ": " + err.Error())
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	stopMetrics := a.serveMetrics(cfg)
	defer stopMetrics()

	if mgr != nil {
		go func() {
			err := mgr.Watch(ctx, func(next *config.Config) {
				a.SetConfig(next)
				if logSvc != nil {
					logSvc.Apply(logx.Config{
						Level:   next.Logging.Level,
						Console: next.Logging.Console,
						File:    logx.FileConfig{Enabled: next.Logging.File.Enabled, Path: next.Logging.File.Path},
					})
				}
			})
			if err != nil {
				a.log.Warn("config watch unavailable", logx.Err(err))
			}
		}()
	}

	notifySystemd(a.log, sdnotify.SdNotifyReady)
	defer notifySystemd(a.log, sdnotify.SdNotifyStopping)
	stopWatchdog := startWatchdog(ctx, a.log)
	defer stopWatchdog()

	a.log.Info("daemon started", logx.String("schedule", spec), logx.String("timezone", loc.String()))

	if cfg.Schedule.RunOnStart == nil || *cfg.Schedule.RunOnStart {
		_ = a.RunOnce(ctx) // fetch failures are non-fatal; next tick retries
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info("daemon stopping")
			return nil
		case <-runCh:
			_ = a.RunOnce(ctx)
		}
	}
}

func (a *App) serveMetrics(cfg *config.Config) func() {
	if !cfg.Metrics.Enabled {
		return func() {}
	}
	addr := cfg.Metrics.Addr
	if addr == "" {
		addr = "127.0.0.1:9190"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		a.log.Info("metrics listening", logx.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server stopped", logx.Err(err))
		}
	}()
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
}

func notifySystemd(log logx.Logger, state string) {
	// No-op outside a systemd unit (NOTIFY_SOCKET unset).
	if _, err := sdnotify.SdNotify(false, state); err != nil {
		log.Debug("sd_notify failed", logx.Err(err))
	}
}

// startWatchdog pings the systemd watchdog at half its interval when one
// is configured for the unit.
func startWatchdog(ctx context.Context, log logx.Logger) func() {
	interval, err := sdnotify.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return func() {}
	}
	wctx, cancel := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-wctx.Done():
				return
			case <-t.C:
				notifySystemd(log, sdnotify.SdNotifyWatchdog)
			}
		}
	}()
	return cancel
}
