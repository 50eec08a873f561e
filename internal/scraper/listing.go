package scraper

import (
	"net/http"
	"time"
)

// Listing is one normalized auction entry. Image and CurrentPrice are empty
// when the page had nothing usable and are then omitted from JSON.
type Listing struct {
	Title        string `json:"Title"`
	Image        string `json:"Image,omitempty"`
	CurrentPrice string `json:"CurrentPrice,omitempty"`
	AuctionID    string `json:"AuctionID"`
}

// ResultSet holds the emitted listings and the number of valid listings
// found before truncation.
type ResultSet struct {
	Items []Listing
	Total int
	// Skipped counts listing nodes dropped during extraction.
	Skipped int
}

// Page is a successfully fetched search-results page.
type Page struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}
