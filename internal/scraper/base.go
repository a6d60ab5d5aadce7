// Define the extraction contract all sources must implement
// Ensure consistency

package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// Unspecified is the placeholder stored when a field cannot be extracted.
const Unspecified = "نامشخص"

// JobRecord is one normalized listing produced by an Extractor.
// It is not yet owned by any session.
type JobRecord struct {
	Title          string
	Company        string
	City           string
	Link           string
	Source         string
	DatePostedText string
}

// Extractor turns one rendered search page into normalized records.
// Each platform (Jobinja, Jobvision, ...) has its own implementation.
type Extractor interface {
	// Name is the platform name, also the registry key
	Name() string

	// SearchURL builds the search page URL for a keyword and 1-based page
	SearchURL(keyword string, page int) string

	// ReadySelector is the element the fetcher waits for before reading the DOM
	ReadySelector() string

	// NeedsScroll reports whether the page lazy-loads cards on scroll
	NeedsScroll() bool

	// Extract pulls records out of a rendered document. Items missing
	// optional fields get the Unspecified sentinel; items missing title
	// or link are dropped silently.
	Extract(doc *goquery.Document) []JobRecord
}

// Normalize applies the sentinel policy to a freshly extracted record.
// City falls back to the location synonym before the sentinel.
func Normalize(rec JobRecord, location string) JobRecord {
	rec.Title = CleanText(rec.Title)
	rec.Company = CleanText(rec.Company)
	rec.City = CleanText(rec.City)
	rec.DatePostedText = CleanText(rec.DatePostedText)

	if rec.City == "" {
		rec.City = CleanText(location)
	}
	if rec.Company == "" {
		rec.Company = Unspecified
	}
	if rec.City == "" {
		rec.City = Unspecified
	}
	if rec.DatePostedText == "" {
		rec.DatePostedText = Unspecified
	}
	return rec
}
