package search

import (
	"context"

	"github.com/Rsm-Microstate/team-dev/internal/scraper"
)

// Result is the outcome of one keyword search.
type Result struct {
	// ID correlates the search across log lines and the HTTP response.
	ID string
	scraper.ResultSet
}

// Provider abstracts an auction site that can be searched by keyword.
// Failures are the typed errors of package scraper.
type Provider interface {
	Search(ctx context.Context, keyword string) (*Result, error)
}

// PageFetcher downloads the search page for a keyword.
type PageFetcher interface {
	Fetch(ctx context.Context, keyword string) (*scraper.Page, error)
}

// ListingExtractor parses a downloaded page into listings.
type ListingExtractor interface {
	Extract(body []byte) *scraper.ResultSet
}
