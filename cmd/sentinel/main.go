package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"SkewSentinel/internal/baseline"
	"SkewSentinel/internal/collector"
	"SkewSentinel/internal/config"
	"SkewSentinel/internal/notifier"
	"SkewSentinel/internal/recorder"
	"SkewSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SkewSentinel starting...")

	// Load .env if present, then config
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{Spot: cfg.SpotPrice}
	} else {
		fetcher = collector.NewNSEFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s, symbol: %s", fetcher.Name(), cfg.Symbol)

	// Init collector
	col := collector.NewCollector(fetcher, cfg.Symbol)

	// Init baseline store
	store, err := baseline.NewCSVStore(cfg.Storage.BaselineDir)
	if err != nil {
		log.Fatalf("[FATAL] init baseline store: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifier: Telegram when configured, plain logging otherwise
	var tn *notifier.TelegramNotifier
	var n notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[INFO] telegram not configured, alerts go to the log")
		n = notifier.NewLogNotifier()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, store, rec, n,
		cfg.Threshold, cfg.SpotPrice, cfg.Storage.ReportsDir)
	if err := sched.Register(cfg.Schedule.CycleCron); err != nil {
		log.Fatalf("[FATAL] register cycle task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling when available
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing cycle now")
		go sched.RunCycleNow()
	}

	log.Println("[INFO] SkewSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SkewSentinel stopped")
}
