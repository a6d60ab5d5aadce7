package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"jobyab-engine/internal/browser"
	"jobyab-engine/internal/config"
	"jobyab-engine/internal/httpapi"
	"jobyab-engine/internal/notify"
	"jobyab-engine/internal/orchestrator"
	"jobyab-engine/internal/scraper"
	"jobyab-engine/internal/scraper/jobinja"
	"jobyab-engine/internal/scraper/jobvision"
	"jobyab-engine/internal/store"
)

func main() {
	//load config
	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create data directory: %v", err)
	}

	//one engine per data dir: the sqlite store and the browser pool are
	//not meant to be shared between processes
	lock := flock.New(filepath.Join(cfg.DataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("❌ Failed to acquire instance lock: %v", err)
	}
	if !locked {
		log.Fatal("❌ Another engine instance is already running")
	}
	defer lock.Unlock()

	//open store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer st.Close()

	//init playwright manager
	pwManager, err := browser.NewPlaywright(cfg.Headless, cfg.RenderWaitMs())
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()
	log.Println("✅ Browser initialized successfully!")

	//register sources
	registry := scraper.NewRegistry()
	registry.Register(scraper.NewRunner(jobinja.New(), pwManager, cfg.PageDelay()))
	registry.Register(scraper.NewRunner(jobvision.New(), pwManager, cfg.PageDelay()))
	log.Printf("🔧 Sources registered: %v", registry.Names())

	orch := orchestrator.New(registry, st, cfg.MaxResultsPerSource)

	//optional telegram notifications
	notifier, err := notify.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Telegram notifications disabled: %v", err)
	} else if notifier != nil {
		orch.OnDone(notifier.ScrapeFinished)
		log.Println("🤖 Telegram notifications enabled.")
	}

	//periodic session sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepLoop(sweepCtx, st, cfg)

	api := &httpapi.Server{Store: st, Orchestrator: orch}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Engine listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	//wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}
	log.Println("🏁 Engine stopped.")
}

// sweepLoop removes expired sessions once at startup and then at most once
// per sweep interval.
func sweepLoop(ctx context.Context, st *store.SQLiteStore, cfg *config.Config) {
	sweep := func() {
		sctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		n, err := st.SweepExpiredSessions(sctx, cfg.RetentionDays)
		if err != nil {
			log.Printf("⚠️ Session sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("🧹 Session sweep removed %d sessions", n)
		}
	}

	sweep()
	ticker := time.NewTicker(cfg.SweepInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
