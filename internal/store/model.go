package store

import "time"

// StoredJob is a persisted listing owned by a session. Uniqueness is by
// Link alone, globally: a later scrape that finds the same link relocates
// the row to the scraping session instead of inserting a duplicate.
type StoredJob struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	City           string    `json:"city"`
	Link           string    `json:"link"`
	Source         string    `json:"source"`
	SearchKeyword  string    `json:"search_keyword"`
	DatePostedText string    `json:"date_posted"`
	SessionID      string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	IsActive       bool      `json:"-"`
}

// SessionRecord tracks one browser visit. Sessions idle past the retention
// window are swept together with their jobs.
type SessionRecord struct {
	SessionID    string
	CreatedAt    time.Time
	LastAccessed time.Time
	SearchCount  int
}

// Filters narrows a session's job query. Source matches exactly; the
// Contains filters are case-sensitive substring matches.
type Filters struct {
	Source          string
	CityContains    string
	CompanyContains string
}

// Sort orders for Query. Anything else falls back to created_at DESC.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// SaveResult reports how a batch landed: Saved rows are new links,
// Updated rows were relocated/overwritten in place.
type SaveResult struct {
	Saved   int
	Updated int
}

// SessionInfo is the caller-facing view of a session.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	JobCount  int       `json:"job_count"`
	CreatedAt time.Time `json:"created_at"`
}
