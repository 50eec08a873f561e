package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Rsm-Microstate/team-dev/internal/fingerprint"
	"github.com/Rsm-Microstate/team-dev/internal/scraper"
	"github.com/Rsm-Microstate/team-dev/pkg/useragent"
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	SearchEndpoint string        `mapstructure:"SEARCH_ENDPOINT"`
	FetchTimeout   time.Duration `mapstructure:"FETCH_TIMEOUT"`
	MaxRedirects   int           `mapstructure:"MAX_REDIRECTS"`
	TLSFingerprint string        `mapstructure:"TLS_FINGERPRINT"`
	AcceptLanguage string        `mapstructure:"ACCEPT_LANGUAGE"`

	// UserAgents is filled by Load from USER_AGENTS. User-Agent strings
	// contain commas, so the env form is separated by "|" or newlines
	// instead of viper's comma split.
	UserAgents        []string `mapstructure:"-"`
	UserAgentRotation string   `mapstructure:"USER_AGENT_ROTATION"`

	MaxResults       int      `mapstructure:"MAX_RESULTS"`
	ListingSelector  string   `mapstructure:"LISTING_SELECTOR"`
	TitleSelectors   []string `mapstructure:"TITLE_SELECTORS"`
	ImageSelectors   []string `mapstructure:"IMAGE_SELECTORS"`
	ImageAttribute   string   `mapstructure:"IMAGE_ATTRIBUTE"`
	PriceSelectors   []string `mapstructure:"PRICE_SELECTORS"`
	LinkSelector     string   `mapstructure:"LINK_SELECTOR"`
	AuctionIDPattern string   `mapstructure:"AUCTION_ID_PATTERN"`
}

func setDefaults(v *viper.Viper) {
	sel := scraper.DefaultSelectors()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEARCH_ENDPOINT", scraper.DefaultSearchEndpoint)
	v.SetDefault("FETCH_TIMEOUT", "15s")
	v.SetDefault("MAX_REDIRECTS", 10)
	v.SetDefault("TLS_FINGERPRINT", string(fingerprint.ProfileChrome))
	v.SetDefault("USER_AGENTS", "")
	v.SetDefault("USER_AGENT_ROTATION", string(useragent.RoundRobin))
	v.SetDefault("ACCEPT_LANGUAGE", "ja,en-US;q=0.9,en;q=0.8")
	v.SetDefault("MAX_RESULTS", scraper.DefaultMaxResults)
	v.SetDefault("LISTING_SELECTOR", sel.Listing)
	v.SetDefault("TITLE_SELECTORS", sel.Title)
	v.SetDefault("IMAGE_SELECTORS", sel.Image)
	v.SetDefault("IMAGE_ATTRIBUTE", sel.ImageAttr)
	v.SetDefault("PRICE_SELECTORS", sel.Price)
	v.SetDefault("LINK_SELECTOR", sel.Link)
	v.SetDefault("AUCTION_ID_PATTERN", "")
}

// Load reads configuration from the given file (or .env in the working
// directory when path is empty) and the environment. Environment variables
// win over file values. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && path != "" {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.UserAgents = userAgents(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// userAgents reads USER_AGENTS. A string value (env or .env) is split on
// "|" and newlines; a list from a YAML or JSON file is taken element-wise.
func userAgents(v *viper.Viper) []string {
	raw, ok := v.Get("USER_AGENTS").(string)
	if !ok {
		return v.GetStringSlice("USER_AGENTS")
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == '\n'
	})
	uas := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			uas = append(uas, f)
		}
	}
	return uas
}

// Validate rejects values the fetcher or extractor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	if c.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("MAX_RESULTS must be positive, got %d", c.MaxResults))
	}
	if c.SearchEndpoint == "" {
		errs = append(errs, errors.New("SEARCH_ENDPOINT is required"))
	}
	if _, err := fingerprint.ParseProfile(c.TLSFingerprint); err != nil {
		errs = append(errs, err)
	}
	if _, err := useragent.ParseRotation(c.UserAgentRotation); err != nil {
		errs = append(errs, fmt.Errorf("USER_AGENT_ROTATION: %w", err))
	}
	if c.AuctionIDPattern != "" {
		if _, err := regexp.Compile(c.AuctionIDPattern); err != nil {
			errs = append(errs, fmt.Errorf("AUCTION_ID_PATTERN: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Selectors returns the configured extraction selectors.
func (c *Config) Selectors() scraper.Selectors {
	return scraper.Selectors{
		Listing:   c.ListingSelector,
		Title:     c.TitleSelectors,
		Image:     c.ImageSelectors,
		ImageAttr: c.ImageAttribute,
		Price:     c.PriceSelectors,
		Link:      c.LinkSelector,
	}
}

// Rotation returns the configured User-Agent rotation.
func (c *Config) Rotation() useragent.Rotation {
	r, err := useragent.ParseRotation(c.UserAgentRotation)
	if err != nil {
		return useragent.RoundRobin
	}
	return r
}

// IDMatcher returns the configured auction ID matcher, or nil for the default.
func (c *Config) IDMatcher() scraper.IDMatcher {
	if c.AuctionIDPattern == "" {
		return nil
	}
	return scraper.PatternMatcher(regexp.MustCompile(c.AuctionIDPattern))
}
