package app

import (
	"context"
	"sync/atomic"
	"time"

	"catalystradar/internal/calendar"
	"catalystradar/internal/config"
	"catalystradar/internal/metrics"
	"catalystradar/internal/storage"
	"catalystradar/pkg/logx"
)

// Provider yields raw calendar rows for a date range.
type Provider interface {
	FetchRange(ctx context.Context, from, to time.Time) ([]calendar.RawRow, error)
}

// App wires the pipeline: fetch -> normalize -> merge -> evaluate -> persist.
//
// A run is strictly sequential; runs must not overlap (the daemon loop
// guarantees that by consuming ticks on a single goroutine).
type App struct {
	cfg atomic.Pointer[config.Config]

	log      logx.Logger
	provider Provider
	sender   calendar.Sender // nil disables delivery, not the pipeline
	store    storage.Store   // nil disables persistence
	metrics  *metrics.Metrics

	// now is a test seam for wall-clock time.
	now func() time.Time
}

func New(cfg *config.Config, log logx.Logger, provider Provider, sender calendar.Sender, store storage.Store, m *metrics.Metrics) *App {
	if log.IsZero() {
		log = logx.Nop()
	}
	if m == nil {
		m = metrics.New()
	}
	a := &App{
		log:      log,
		provider: provider,
		sender:   sender,
		store:    store,
		metrics:  m,
		now:      time.Now,
	}
	a.cfg.Store(cfg)
	return a
}

// SetConfig swaps the active config. Only settings read per run (fetch
// window) take effect immediately; collaborators built at startup
// (credentials, storage driver) need a restart.
func (a *App) SetConfig(cfg *config.Config) { a.cfg.Store(cfg) }

// RunOnce executes one full pipeline pass.
//
// Only a fetch failure aborts the run (before merge/persist, so the prior
// document is left untouched). Everything downstream degrades per
// category: bad rows are skipped, failed sends stay pending, a broken
// store read means an empty prior batch, a failed write still reports the
// in-memory summary.
func (a *App) RunOnce(ctx context.Context) error {
	cfg := a.cfg.Load()
	start := a.now()
	defer func() {
		a.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	windowDays := cfg.Provider.WindowDays
	if windowDays <= 0 {
		windowDays = 28
	}
	from := start
	to := start.AddDate(0, 0, windowDays)

	a.log.Info("run started",
		logx.Time("window_start", from),
		logx.Time("window_end", to),
	)

	a.metrics.FetchTotal.Inc()
	rows, err := a.provider.FetchRange(ctx, from, to)
	if err != nil {
		a.metrics.FetchErrors.Inc()
		a.log.Error("calendar fetch failed; keeping prior state", logx.Err(err))
		return err
	}

	events := calendar.Normalize(rows, from, to, a.log)
	a.metrics.RowsAccepted.Add(float64(len(events)))
	a.metrics.RowsRejected.Add(float64(len(rows) - len(events)))

	prior := a.loadPrior(ctx)
	merged := calendar.Merge(events, prior.Events)

	final, res := calendar.Evaluate(ctx, merged, start, a.sender, a.log)
	a.metrics.SentTotal.WithLabelValues("warning").Add(float64(res.Warned))
	a.metrics.SentTotal.WithLabelValues("release").Add(float64(res.Released))
	a.metrics.SendFailures.Add(float64(res.Failed))

	a.persist(ctx, final)
	a.metrics.EventsTracked.Set(float64(len(final)))

	a.log.Info("run finished",
		logx.Int("events", len(final)),
		logx.Int("warnings_sent", res.Warned),
		logx.Int("releases_sent", res.Released),
		logx.Int("send_failures", res.Failed),
		logx.Duration("took", time.Since(start)),
	)
	return nil
}

// loadPrior fetches the persisted batch. Any read failure other than
// "not found" degrades to an empty prior batch rather than aborting: a
// lost flag means a duplicate notification at worst, while aborting would
// mean none.
func (a *App) loadPrior(ctx context.Context) storage.Document {
	if a.store == nil {
		return storage.Document{Events: []calendar.Event{}}
	}
	doc, err := a.store.Load(ctx)
	if err != nil {
		a.log.Warn("prior document unreadable; treating as empty", logx.Err(err))
		return storage.Document{Events: []calendar.Event{}}
	}
	return doc
}

func (a *App) persist(ctx context.Context, events []calendar.Event) {
	if a.store == nil {
		return
	}
	now := a.now().UTC()
	doc := storage.Document{UpdatedAt: &now, Events: events}
	if err := a.store.Save(ctx, doc); err != nil {
		a.log.Error("persisting calendar document failed", logx.Err(err))
	}
}
