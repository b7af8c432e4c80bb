package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PiggyVault/internal/config"
	"PiggyVault/internal/ledger"
	"PiggyVault/internal/scheduler"
	"PiggyVault/internal/server"
	"PiggyVault/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PiggyVault starting...")

	// Load config
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

	// Init store: SQLite when configured, JSON file otherwise
	var st store.Store
	if cfg.Storage.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using file store: %v", err)
			st = store.NewFileStore(cfg.Storage.StateFile)
		} else {
			st = ss
		}
	} else {
		st = store.NewFileStore(cfg.Storage.StateFile)
	}
	defer st.Close()

	// Init ledger manager
	mgr := ledger.NewManager(st,
		ledger.WithCooldown(time.Duration(cfg.Ledger.ExtendCooldownSeconds)*time.Second))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, mgr)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: extend immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, extending schedule now")
		go sched.RunNow()
	}

	// HTTP server
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: server.New(mgr).Routes()}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] PiggyVault is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] PiggyVault stopped")
}
