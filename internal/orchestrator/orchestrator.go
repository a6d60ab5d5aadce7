// Package orchestrator fans a scrape request out over the selected source
// runners and owns the process-wide scrape status. Exactly one scrape may
// be in flight at a time; callers poll Status instead of waiting.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jobyab-engine/internal/scraper"
	"jobyab-engine/internal/store"
)

// Rejections visible to the immediate caller of StartScrape. Everything
// past validation is reported through the status snapshot only.
var (
	ErrAlreadyRunning = errors.New("scraping already in progress")
	ErrEmptyKeyword   = errors.New("keyword is required")
	ErrNoSources      = errors.New("at least one known source must be selected")
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateError   State = "error"
)

// Snapshot is a point-in-time copy of the scrape status. Progress is
// coarse and advisory.
type Snapshot struct {
	IsScraping bool   `json:"is_scraping"`
	State      State  `json:"state"`
	Message    string `json:"message"`
	Progress   int    `json:"progress"`
}

// runTimeout bounds one whole background run.
const runTimeout = 10 * time.Minute

type Orchestrator struct {
	registry   *scraper.Registry
	store      *store.SQLiteStore
	maxResults int
	onDone     func(keyword string, count int)

	mu   sync.Mutex
	snap Snapshot
}

func New(registry *scraper.Registry, st *store.SQLiteStore, maxResultsPerSource int) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		store:      st,
		maxResults: maxResultsPerSource,
		snap:       Snapshot{State: StateIdle},
	}
}

// OnDone registers a hook invoked after a run finishes successfully.
func (o *Orchestrator) OnDone(fn func(keyword string, count int)) {
	o.onDone = fn
}

// Status returns a copy of the current scrape status.
func (o *Orchestrator) Status() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// StartScrape validates the request, claims the single scrape slot, and
// spawns the background run. It returns immediately; a second request
// while one is running is rejected, not queued.
func (o *Orchestrator) StartScrape(keyword string, sources []string, sessionID string) error {
	if keyword == "" {
		return ErrEmptyKeyword
	}
	runners := o.registry.Resolve(sources)
	if len(runners) == 0 {
		return ErrNoSources
	}

	// claim the slot and flip to Running in one critical section, so two
	// concurrent requests cannot both slip past the check
	o.mu.Lock()
	if o.snap.IsScraping {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}
	o.snap = Snapshot{IsScraping: true, State: StateRunning, Message: "Starting scraping...", Progress: 0}
	o.mu.Unlock()

	go o.run(keyword, runners, sessionID)
	return nil
}

func (o *Orchestrator) run(keyword string, runners []*scraper.Runner, sessionID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Scrape panicked: %v", r)
			o.finish(StateError, fmt.Sprintf("Error: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if sessionID != "" {
		if _, err := o.store.ClearSession(ctx, sessionID); err != nil {
			// stale rows degrade the result view, they don't stop the run
			log.Printf("⚠️ Error clearing previous results: %v", err)
		}
	}
	o.setProgress(20, "Cleared previous results, scraping sources...")

	// Each runner renders its own pages, so sources can run in parallel.
	// A failing source contributes nothing and never cancels its siblings.
	var (
		jobsMu  sync.Mutex
		allJobs []scraper.JobRecord
	)
	step := 70 / len(runners)

	var g errgroup.Group
	for _, runner := range runners {
		g.Go(func() error {
			log.Printf("▶️ Starting source: %s", runner.Name())
			jobs := runner.Run(ctx, keyword, o.maxResults)
			log.Printf("✅ Source %s finished. Found %d jobs.", runner.Name(), len(jobs))

			jobsMu.Lock()
			allJobs = append(allJobs, jobs...)
			jobsMu.Unlock()

			o.bumpProgress(step, fmt.Sprintf("Finished %s (%d jobs)", runner.Name(), len(jobs)))
			return nil
		})
	}
	_ = g.Wait()

	if len(allJobs) == 0 {
		o.finish(StateDone, "No jobs found")
		return
	}

	res := o.store.SaveAll(ctx, sessionID, allJobs, keyword)
	if sessionID != "" {
		if err := o.store.IncrementSearchCount(ctx, sessionID); err != nil {
			log.Printf("⚠️ %v", err)
		}
	}

	log.Printf("💾 Saved %d new jobs, updated %d existing", res.Saved, res.Updated)
	o.finish(StateDone, fmt.Sprintf("Successfully scraped %d jobs", len(allJobs)))

	if o.onDone != nil {
		o.onDone(keyword, len(allJobs))
	}
}

func (o *Orchestrator) setProgress(progress int, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snap.Progress = progress
	o.snap.Message = message
}

func (o *Orchestrator) bumpProgress(step int, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.snap.Progress+step < 100 {
		o.snap.Progress += step
	}
	o.snap.Message = message
}

// finish releases the scrape slot. The terminal state stays visible until
// the next accepted request resets it to Running.
func (o *Orchestrator) finish(state State, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snap = Snapshot{IsScraping: false, State: state, Message: message, Progress: 100}
}
