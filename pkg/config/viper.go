// Package config initializes the application's configuration. It uses the
// Viper library to read settings from a config file, environment variables,
// and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// InitConfig initializes the application's configuration using Viper. It sets
// up default values, defines configuration search paths, and enables reading
// from environment variables. Designed to be called once at startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/adidas-scraper/")
	viper.AddConfigPath("$HOME/.adidas-scraper")

	// The storefront blocks default Go user agents, so the crawler always
	// presents a browser UA.
	const defaultUA = "Mozilla/5.0 (X11; Linux x86_64; rv:130.0) Gecko/20100101 Firefox/130.0"
	viper.SetDefault("crawler.base_url", "https://www.adidas.com.vn")
	viper.SetDefault("crawler.targets", []string{"men-shoes"})
	viper.SetDefault("crawler.user_agent", defaultUA)
	viper.SetDefault("crawler.page_size", 48)
	viper.SetDefault("crawler.concurrency", 8)
	viper.SetDefault("crawler.request_timeout", "200s")
	viper.SetDefault("crawler.run_timeout", "0s")
	viper.SetDefault("crawler.rate_per_domain", 4.0)
	viper.SetDefault("crawler.rate_burst", 2)
	viper.SetDefault("crawler.fetch_details", true)
	viper.SetDefault("crawler.keep_failed_records", false)
	viper.SetDefault("crawler.headless_enabled", false)
	viper.SetDefault("crawler.headless_timeout", "30s")

	viper.SetDefault("catalog.search_path", "/api/search/product")
	viper.SetDefault("catalog.detail_path", "/api/products")

	viper.SetDefault("output.path", "data/products.csv")
	viper.SetDefault("output.format", "csv")

	viper.SetDefault("archive.provider", "none")
	viper.SetDefault("archive.local.base_dir", "data/pages")
	viper.SetDefault("archive.gcs.bucket", "")

	viper.SetDefault("database.provider", "none")
	viper.SetDefault("database.postgres.dsn", "")
	viper.SetDefault("database.postgres.table", "products")

	viper.SetDefault("publish.provider", "none")
	viper.SetDefault("publish.gcp.project_id", "")
	viper.SetDefault("publish.gcp.topic_id", "")

	viper.SetDefault("status.enabled", false)
	viper.SetDefault("status.addr", ":8080")

	viper.SetDefault("log.development", false)

	viper.SetEnvPrefix("ADIDAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and env vars carry the run.
	_ = viper.ReadInConfig()
}
