package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// PageFetcher renders a URL in a real browser and returns the resulting
// markup. Implemented by internal/browser; tests supply fakes.
type PageFetcher interface {
	Render(ctx context.Context, url, readySelector string, scroll bool) (string, error)
}

// fetchAttempts bounds retries of a single page before the source's
// pagination ends with partial results.
const fetchAttempts = 2

// Runner drives one Extractor through pagination. Page N+1 depends on
// page N's content, so a runner is inherently sequential; concurrency
// lives one level up, across sources.
type Runner struct {
	extractor Extractor
	fetcher   PageFetcher
	limiter   *rate.Limiter
}

func NewRunner(e Extractor, f PageFetcher, pageDelay time.Duration) *Runner {
	if pageDelay <= 0 {
		pageDelay = time.Second
	}
	return &Runner{
		extractor: e,
		fetcher:   f,
		limiter:   rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

func (r *Runner) Name() string {
	return r.extractor.Name()
}

// Run paginates from page 1 until a page yields no new records, maxResults
// is reached, or a page fails past its retry budget. Failures degrade the
// result set; they are never returned to the caller.
func (r *Runner) Run(ctx context.Context, keyword string, maxResults int) []JobRecord {
	var jobs []JobRecord
	seen := make(map[string]bool)

	for page := 1; len(jobs) < maxResults; page++ {
		if ctx.Err() != nil {
			log.Printf("⚠️ [%s] context cancelled, returning %d jobs", r.Name(), len(jobs))
			return jobs
		}

		url := r.extractor.SearchURL(keyword, page)
		log.Printf("🔍 [%s] Scraping page %d: %s", r.Name(), page, url)

		html, err := r.fetchPage(ctx, url)
		if err != nil {
			log.Printf("⚠️ [%s] Error fetching page %d: %v", r.Name(), page, err)
			return jobs
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			log.Printf("⚠️ [%s] Error parsing page %d: %v", r.Name(), page, err)
			return jobs
		}

		newCount := 0
		for _, rec := range r.extractor.Extract(doc) {
			if seen[rec.Link] {
				continue
			}
			seen[rec.Link] = true
			jobs = append(jobs, rec)
			newCount++
			if len(jobs) >= maxResults {
				break
			}
		}

		log.Printf("📦 [%s] Page %d yielded %d new jobs (%d total)", r.Name(), page, newCount, len(jobs))
		if newCount == 0 {
			// end of results for this keyword
			break
		}
	}

	return jobs
}

// fetchPage waits out the politeness interval, then renders the page with
// a bounded retry.
func (r *Runner) fetchPage(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
		html, err := r.fetcher.Render(ctx, url, r.extractor.ReadySelector(), r.extractor.NeedsScroll())
		if err == nil {
			return html, nil
		}
		lastErr = err
		log.Printf("⚠️ [%s] Fetch attempt %d/%d failed: %v", r.Name(), attempt, fetchAttempts, err)
	}
	return "", lastErr
}
