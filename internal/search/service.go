package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rsm-Microstate/team-dev/internal/metrics"
	"github.com/Rsm-Microstate/team-dev/internal/scraper"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ Provider = (*Service)(nil)

// Service runs the fetch and extract stages for a keyword. Each call is
// independent; nothing is retained between searches.
type Service struct {
	fetcher   PageFetcher
	extractor ListingExtractor
	logger    *zap.Logger
}

// NewService wires a fetcher and extractor together.
func NewService(fetcher PageFetcher, extractor ListingExtractor, logger *zap.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("search: fetcher is nil")
	}
	if extractor == nil {
		return nil, errors.New("search: extractor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, extractor: extractor, logger: logger}, nil
}

// Search validates keyword, fetches its results page once and extracts the
// listings. A blank keyword fails with *scraper.ValidationError before any
// request is made.
func (s *Service) Search(ctx context.Context, keyword string) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := s.logger.With(zap.String("search_id", id), zap.String("keyword", keyword))

	if err := scraper.ValidateKeyword(keyword); err != nil {
		metrics.RecordSearch(metrics.OutcomeInvalid, time.Since(start), 0, 0)
		return nil, err
	}

	log.Info("searching")

	page, err := s.fetcher.Fetch(ctx, keyword)
	if err != nil {
		outcome := classify(err)
		var ff *scraper.FetchFailedError
		if errors.As(err, &ff) {
			metrics.RecordUpstream(ff.StatusCode, ff.Blocker, 0)
		}
		metrics.RecordSearch(outcome, time.Since(start), 0, 0)
		log.Error("search fetch failed", zap.String("outcome", outcome), zap.Error(err))
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	metrics.RecordUpstream(page.StatusCode, "", len(page.Body))

	rs := s.extractor.Extract(page.Body)

	outcome := metrics.OutcomeOK
	if rs.Total == 0 {
		outcome = metrics.OutcomeEmpty
	}
	elapsed := time.Since(start)
	metrics.RecordSearch(outcome, elapsed, rs.Total, rs.Skipped)

	log.Info("search complete",
		zap.Int("total", rs.Total),
		zap.Int("returned", len(rs.Items)),
		zap.Int("skipped", rs.Skipped),
		zap.Duration("duration", elapsed),
	)

	return &Result{ID: id, ResultSet: *rs}, nil
}

func classify(err error) string {
	var ff *scraper.FetchFailedError
	if errors.As(err, &ff) {
		return metrics.OutcomeFetchError
	}
	var ve *scraper.ValidationError
	if errors.As(err, &ve) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeTransport
}
