package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"catalystradar/internal/app"
	"catalystradar/internal/calendar"
	"catalystradar/internal/config"
	"catalystradar/internal/metrics"
	"catalystradar/internal/notify/telegram"
	"catalystradar/internal/provider/investing"
	"catalystradar/internal/storage"
	"catalystradar/pkg/logx"
)

func main() {
	var (
		cfgPath    string
		daemonMode bool
	)
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml (optional; defaults apply when missing)")
	flag.BoolVar(&daemonMode, "daemon", false, "keep running on the configured schedule instead of a single pass")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	defer logSvc.Close()
	mgr.SetLogger(log)

	provider, err := investing.New(investing.Config{
		Endpoint:  cfg.Provider.Endpoint,
		UserAgent: cfg.Provider.UserAgent,
		Timezone:  cfg.Provider.Timezone,
		Timeout:   config.DurationOr(cfg.Provider.Timeout, 0),
	}, log.With(logx.String("component", "provider")))
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	// Keep the interface nil when delivery is disabled; a typed nil would
	// defeat the evaluator's sender check.
	var sender calendar.Sender
	if n := buildSender(cfg, log); n != nil {
		sender = n
	}

	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: config.DurationOr(cfg.Storage.BusyTimeout, 0),
	}, log.With(logx.String("component", "storage")))
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	a := app.New(cfg, log, provider, sender, store, metrics.New())

	if daemonMode {
		if err := a.RunLoop(ctx, mgr, logSvc); err != nil {
			fmt.Println("fatal:", err)
			os.Exit(1)
		}
		return
	}

	// One-shot mode: a fetch failure leaves prior state untouched and is
	// not a process failure; the scheduled trigger simply retries later.
	_ = a.RunOnce(ctx)
}

// buildSender constructs the Telegram sink when credentials are present.
// Missing or broken credentials disable delivery only; the fetch/merge/
// persist pipeline still runs so state stays current.
func buildSender(cfg *config.Config, log logx.Logger) *telegram.Notifier {
	if strings.TrimSpace(cfg.Telegram.Token) == "" || strings.TrimSpace(cfg.Telegram.ChatID) == "" {
		log.Warn("telegram credentials not configured; notifications disabled")
		return nil
	}
	sender, err := telegram.New(telegram.Config{
		Token:      cfg.Telegram.Token,
		ChatID:     cfg.Telegram.ChatID,
		RatePerSec: cfg.Telegram.RatePerSec,
		Timeout:    config.DurationOr(cfg.Telegram.SendTimeout, 0),
	}, log.With(logx.String("component", "telegram")))
	if err != nil {
		log.Error("telegram setup failed; notifications disabled", logx.Err(err))
		return nil
	}
	return sender
}
