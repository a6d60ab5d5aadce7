// One-shot scrape without the HTTP layer: scrape a keyword from the
// command line, print what was found, and persist it under an ad-hoc
// session. Useful for checking selectors after a site redesign.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"jobyab-engine/internal/browser"
	"jobyab-engine/internal/config"
	"jobyab-engine/internal/scraper"
	"jobyab-engine/internal/scraper/jobinja"
	"jobyab-engine/internal/scraper/jobvision"
	"jobyab-engine/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: scraper <keyword> [source ...]")
		os.Exit(2)
	}
	keyword := os.Args[1]
	sources := os.Args[2:]
	if len(sources) == 0 {
		sources = []string{"jobinja", "jobvision"}
	}

	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create data directory: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer st.Close()

	pwManager, err := browser.NewPlaywright(cfg.Headless, cfg.RenderWaitMs())
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()
	log.Println("✅ Browser initialized successfully!")

	registry := scraper.NewRegistry()
	registry.Register(scraper.NewRunner(jobinja.New(), pwManager, cfg.PageDelay()))
	registry.Register(scraper.NewRunner(jobvision.New(), pwManager, cfg.PageDelay()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var allJobs []scraper.JobRecord
	for _, runner := range registry.Resolve(sources) {
		log.Printf("▶️ Starting source: %s", runner.Name())
		jobs := runner.Run(ctx, keyword, cfg.MaxResultsPerSource)
		log.Printf("✅ Source %s finished. Found %d jobs.", runner.Name(), len(jobs))
		allJobs = append(allJobs, jobs...)
	}

	for _, job := range allJobs {
		fmt.Printf("- %s @ %s (%s) [%s] %s\n", job.Title, job.Company, job.City, job.DatePostedText, job.Link)
	}

	if len(allJobs) == 0 {
		log.Println("ℹ️ No jobs found.")
		return
	}

	sessionID := uuid.NewString()
	if _, err := st.GetOrCreateSession(ctx, sessionID); err != nil {
		log.Fatalf("❌ Failed to create session: %v", err)
	}
	res := st.SaveAll(ctx, sessionID, allJobs, keyword)
	log.Printf("💾 Saved %d new jobs, updated %d existing (session %s)", res.Saved, res.Updated, sessionID)
	log.Println("🏁 Execution finished.")
}
