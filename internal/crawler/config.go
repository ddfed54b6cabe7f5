package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a crawl run. All values
// originate from Viper so the crawler can be configured via files, env vars,
// or CLI flags.
type Config struct {
	BaseURL           string
	Targets           []string
	UserAgent         string
	PageSize          int
	Concurrency       int
	RequestTimeout    time.Duration
	RunTimeout        time.Duration
	RatePerDomain     float64
	RateBurst         int
	FetchDetails      bool
	KeepFailedRecords bool
	HeadlessEnabled   bool
	HeadlessTimeout   time.Duration
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		BaseURL:           v.GetString("crawler.base_url"),
		Targets:           v.GetStringSlice("crawler.targets"),
		UserAgent:         v.GetString("crawler.user_agent"),
		PageSize:          v.GetInt("crawler.page_size"),
		Concurrency:       v.GetInt("crawler.concurrency"),
		RequestTimeout:    v.GetDuration("crawler.request_timeout"),
		RunTimeout:        v.GetDuration("crawler.run_timeout"),
		RatePerDomain:     v.GetFloat64("crawler.rate_per_domain"),
		RateBurst:         v.GetInt("crawler.rate_burst"),
		FetchDetails:      v.GetBool("crawler.fetch_details"),
		KeepFailedRecords: v.GetBool("crawler.keep_failed_records"),
		HeadlessEnabled:   v.GetBool("crawler.headless_enabled"),
		HeadlessTimeout:   v.GetDuration("crawler.headless_timeout"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("crawler.base_url must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("crawler.page_size must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("crawler.run_timeout must be >= 0")
	}
	if c.RatePerDomain < 0 {
		return fmt.Errorf("crawler.rate_per_domain must be >= 0")
	}
	if c.HeadlessEnabled && c.HeadlessTimeout <= 0 {
		return fmt.Errorf("crawler.headless_timeout must be > 0 when headless is enabled")
	}
	return nil
}
