package scraper

import (
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rsm-Microstate/team-dev/internal/bypass"
	"github.com/Rsm-Microstate/team-dev/internal/fingerprint"
	"github.com/Rsm-Microstate/team-dev/pkg/httpclient"
	"github.com/Rsm-Microstate/team-dev/pkg/useragent"
	"go.uber.org/zap"
)

const (
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptJapanese = "ja,en-US;q=0.9,en;q=0.8"
)

// FetchConfig configures the search page fetcher.
type FetchConfig struct {
	// Endpoint is the search page without query string.
	Endpoint     string
	Timeout      time.Duration
	MaxRedirects int
	UAPool       *useragent.Pool
	UARotation   useragent.Rotation
	// AcceptLanguage overrides the Japanese-first default.
	AcceptLanguage string
	Fingerprint    fingerprint.Profile
	// RootCAs overrides the system trust store, e.g. for test servers.
	RootCAs *x509.CertPool
	Logger  *zap.Logger
}

// Fetcher downloads one search-results page per call. It holds no
// per-request state and is safe for concurrent use.
type Fetcher struct {
	config FetchConfig
	client *httpclient.Client
	logger *zap.Logger
}

// NewFetcher initializes a new Fetcher with the given configuration.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultSearchEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = acceptJapanese
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, fingerprint.Options{RootCAs: cfg.RootCAs})
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Fetcher{
		config: cfg,
		client: client,
		logger: cfg.Logger,
	}, nil
}

// Fetch issues a single GET for the keyword's search page. It never retries.
// Failures are *ValidationError, *TransportError or *FetchFailedError.
func (f *Fetcher) Fetch(ctx context.Context, keyword string) (*Page, error) {
	if err := ValidateKeyword(keyword); err != nil {
		return nil, err
	}

	target := SearchURL(f.config.Endpoint, keyword)
	log := f.logger.With(zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", f.config.UAPool.Pick(f.config.UARotation))
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", f.config.AcceptLanguage)

	start := time.Now()
	log.Debug("fetching search page")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		log.Warn("search page request failed", zap.Error(err))
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	// A short read still leaves the status authoritative for non-2xx replies.
	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		blocker := bypass.Identify(bypass.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
		}, bypass.DefaultDetectors())
		log.Error("search page returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("blocker", blocker),
		)
		return nil, &FetchFailedError{URL: target, StatusCode: resp.StatusCode, Blocker: blocker}
	}

	if readErr != nil {
		log.Warn("failed to read search page body", zap.Error(readErr))
		return nil, &TransportError{URL: target, Err: fmt.Errorf("read body: %w", readErr)}
	}

	page := &Page{
		URL:        target,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}
	log.Debug("fetched search page",
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.Body)),
		zap.Duration("duration", page.Duration),
	)
	return page, nil
}
