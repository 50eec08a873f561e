package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultMaxResults caps the listings returned from one page.
const DefaultMaxResults = 40

// ExtractConfig configures an Extractor.
type ExtractConfig struct {
	Selectors  Selectors
	MaxResults int
	// MatchID defaults to AuctionIDFromHref.
	MatchID IDMatcher
	Logger  *zap.Logger
}

// Extractor turns search-results markup into listings. It is stateless and
// safe for concurrent use.
type Extractor struct {
	sel        Selectors
	maxResults int
	matchID    IDMatcher
	logger     *zap.Logger
}

// NewExtractor creates an Extractor, filling unset fields with defaults.
func NewExtractor(cfg ExtractConfig) *Extractor {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.MatchID == nil {
		cfg.MatchID = AuctionIDFromHref
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Extractor{
		sel:        cfg.Selectors.withDefaults(),
		maxResults: cfg.MaxResults,
		matchID:    cfg.MatchID,
		logger:     cfg.Logger,
	}
}

// nodeResult is the outcome for one listing node: a record, or the reason
// the node was dropped.
type nodeResult struct {
	listing Listing
	skip    string
}

// Extract parses body leniently and returns the listings in document order.
// Total counts every node that produced a listing, Items holds at most
// MaxResults of them. No listings at all is a valid, empty result.
func (e *Extractor) Extract(body []byte) *ResultSet {
	rs := &ResultSet{Items: []Listing{}}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("failed to parse search page", zap.Error(err))
		return rs
	}

	nodes := doc.Find(e.sel.Listing)
	if nodes.Length() == 0 {
		e.logger.Warn("no listing nodes found, page markup may have changed",
			zap.String("selector", e.sel.Listing),
			zap.Int("bytes", len(body)),
		)
		return rs
	}

	nodes.Each(func(i int, s *goquery.Selection) {
		res := e.extractNode(i, s)
		if res.skip != "" {
			rs.Skipped++
			e.logger.Debug("skipped listing node", zap.Int("index", i), zap.String("reason", res.skip))
			return
		}
		rs.Items = append(rs.Items, res.listing)
	})

	rs.Total = len(rs.Items)
	if len(rs.Items) > e.maxResults {
		rs.Items = rs.Items[:e.maxResults]
	}

	e.logger.Debug("extracted listings",
		zap.Int("nodes", nodes.Length()),
		zap.Int("total", rs.Total),
		zap.Int("returned", len(rs.Items)),
	)
	return rs
}

func (e *Extractor) extractNode(index int, s *goquery.Selection) (res nodeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = nodeResult{skip: fmt.Sprintf("extraction panic: %v", r)}
		}
	}()

	title := e.title(s)
	if title == "" {
		return nodeResult{skip: "no title"}
	}

	id := syntheticID(index)
	if href, ok := s.Find(e.sel.Link).First().Attr("href"); ok && href != "" {
		if matched, ok := e.matchID(href); ok {
			id = matched
		}
	}

	return nodeResult{listing: Listing{
		Title:        title,
		Image:        e.image(s),
		CurrentPrice: digitsOnly(e.priceText(s)),
		AuctionID:    id,
	}}
}

func (e *Extractor) title(s *goquery.Selection) string {
	for _, sel := range e.sel.Title {
		if t := strings.TrimSpace(s.Find(sel).Text()); t != "" {
			return t
		}
	}
	return ""
}

// image returns the attribute value as found in the markup. Whitespace-only
// values count as absent so the next locator is tried.
func (e *Extractor) image(s *goquery.Selection) string {
	for _, sel := range e.sel.Image {
		if v, ok := s.Find(sel).First().Attr(e.sel.ImageAttr); ok && !isBlank(v) {
			return v
		}
	}
	return ""
}

func (e *Extractor) priceText(s *goquery.Selection) string {
	for _, sel := range e.sel.Price {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// digitsOnly keeps ASCII digits, so "¥12,345" becomes "12345" and text
// without digits becomes "".
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
