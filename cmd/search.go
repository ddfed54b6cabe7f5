package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/catalog"
	"github.com/quochuy242/AdidasScraper/internal/clean"
	"github.com/quochuy242/AdidasScraper/internal/crawler"
	"github.com/quochuy242/AdidasScraper/internal/parser"
	"github.com/quochuy242/AdidasScraper/internal/policy/ratelimit"

	collyfetcher "github.com/quochuy242/AdidasScraper/internal/fetcher/colly"
)

// newSearchCmd creates the 'search' subcommand: the catalog-API crawl that
// pages the storefront search endpoint and expands color variants.
func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Scrape the storefront search API into product records",
		Long: `Pages through the storefront search API, expands every item's
color variations into their own records, and writes the collection to the
configured output. The first API call establishes the total item count and
its failure aborts the run; later page failures only cost their page.`,

		RunE: runSearchCommand,
	}
	cmd.Flags().String("market", "", "country/language code, e.g. vn/en")
	cmd.Flags().Bool("all", false, "scrape every item the API reports")
	cmd.Flags().Int("limit", 0, "stop after N items (ignored with --all)")
	cmd.Flags().String("query", "", "search term")
	cmd.Flags().Bool("detail", false, "fetch each base product's detail page for images and sizes")
	cmd.Flags().Bool("raw", false, "log the raw first-page payload at debug level")
	cmd.Flags().Bool("clean", false, "split subtitles into gender + subtitle before writing")
	return cmd
}

func runSearchCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger()

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}

	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")
	query, _ := cmd.Flags().GetString("query")
	market, _ := cmd.Flags().GetString("market")
	detail, _ := cmd.Flags().GetBool("detail")
	raw, _ := cmd.Flags().GetBool("raw")
	if all {
		limit = 0
	} else if limit <= 0 {
		// Without --all, one page of results is the default scope.
		limit = cfg.PageSize
	}
	cfg.FetchDetails = detail

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})
	client := catalog.NewClient(catalog.Config{
		BaseURL:     cfg.BaseURL,
		Market:      market,
		SearchPath:  viper.GetString("catalog.search_path"),
		DetailPath:  viper.GetString("catalog.detail_path"),
		Concurrency: cfg.Concurrency,
		LogRaw:      raw,
	}, fetcher, logger)

	// The first page failing is the one unrecoverable setup error here.
	items, err := client.SearchAll(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search catalog: %w", err)
	}
	logger.Info("catalog items discovered", zap.Int("count", len(items)))

	orch := crawler.New(cfg, crawler.Deps{
		Fetcher:    fetcher,
		Detail:     parser.NewHTMLDetailParser(),
		Variations: client,
		Limiter: ratelimit.New(ratelimit.Config{
			DefaultRPS:   cfg.RatePerDomain,
			DefaultBurst: cfg.RateBurst,
		}),
		Retry:   crawler.NewExponentialRetryPolicy(),
		Archive: appInstance.Archive(),
		Emitter: buildEmitter(appInstance),
		Logger:  logger,
	})

	label := "search"
	if query != "" {
		label = "search:" + query
	}
	records, stats := orch.Expand(cmd.Context(), label, catalog.ListingItems(items, client.BaseURL()))
	logger.Info("catalog scrape finished",
		zap.Int("records", len(records)),
		zap.Int("items", stats.ItemsAttempted),
		zap.Int("duplicate_ids", stats.DuplicateIDs),
	)

	if cleanFlag, _ := cmd.Flags().GetBool("clean"); cleanFlag {
		clean.Apply(records)
	}

	return writeRecords(cmd, appInstance, records)
}
