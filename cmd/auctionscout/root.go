package main

import (
	"fmt"

	"github.com/Rsm-Microstate/team-dev/internal/config"
	"github.com/Rsm-Microstate/team-dev/internal/fingerprint"
	"github.com/Rsm-Microstate/team-dev/internal/scraper"
	"github.com/Rsm-Microstate/team-dev/internal/search"
	"github.com/Rsm-Microstate/team-dev/pkg/useragent"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "auctionscout",
		Short:         "Keyword search over auction listings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default .env in the working directory)")

	cmd.AddCommand(newServeCmd(opts), newSearchCmd(opts))
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// newSearchService builds the fetch and extract pipeline from cfg.
func newSearchService(cfg *config.Config, logger *zap.Logger) (*search.Service, error) {
	profile, err := fingerprint.ParseProfile(cfg.TLSFingerprint)
	if err != nil {
		return nil, err
	}

	fetcher, err := scraper.NewFetcher(scraper.FetchConfig{
		Endpoint:       cfg.SearchEndpoint,
		Timeout:        cfg.FetchTimeout,
		MaxRedirects:   cfg.MaxRedirects,
		UAPool:         useragent.NewPool(cfg.UserAgents),
		UARotation:     cfg.Rotation(),
		AcceptLanguage: cfg.AcceptLanguage,
		Fingerprint:    profile,
		Logger:         logger.Named("fetcher"),
	})
	if err != nil {
		return nil, err
	}

	extractor := scraper.NewExtractor(scraper.ExtractConfig{
		Selectors:  cfg.Selectors(),
		MaxResults: cfg.MaxResults,
		MatchID:    cfg.IDMatcher(),
		Logger:     logger.Named("extractor"),
	})

	return search.NewService(fetcher, extractor, logger.Named("search"))
}
