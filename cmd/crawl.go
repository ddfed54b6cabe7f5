package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/clean"
	"github.com/quochuy242/AdidasScraper/internal/crawler"
	"github.com/quochuy242/AdidasScraper/internal/headless/detector"
	"github.com/quochuy242/AdidasScraper/internal/parser"
	"github.com/quochuy242/AdidasScraper/internal/policy/ratelimit"
	"github.com/quochuy242/AdidasScraper/internal/progress"
	"github.com/quochuy242/AdidasScraper/internal/progress/sinks"

	collyfetcher "github.com/quochuy242/AdidasScraper/internal/fetcher/colly"
	"github.com/quochuy242/AdidasScraper/internal/fetcher/headless"
)

// newCrawlCmd creates the 'crawl' subcommand: the listing-page crawl that
// paginates category pages and resolves every product's detail page.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [targets...]",
		Short: "Crawl paginated category listings into product records",
		Long: `Walks every listing page of the given targets (category path
segments such as "men-shoes"), discovers all product URLs, fetches and
parses each detail page concurrently, and writes the records to the
configured output. Targets default to crawler.targets from config.`,

		RunE: runCrawlCommand,
	}
	cmd.Flags().Bool("clean", false, "split subtitles into gender + subtitle before writing")
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.Logger()

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load crawler config: %w", err)
	}
	if len(args) > 0 {
		cfg.Targets = args
	}

	orch, closeFns, err := buildOrchestrator(cfg, appInstance)
	if err != nil {
		return err
	}
	defer closeFns()

	var (
		records   []crawler.Product
		succeeded int
		lastErr   error
	)
	for _, target := range cfg.Targets {
		targetRecords, stats, err := orch.Crawl(cmd.Context(), crawler.Target(target))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("crawl canceled: %w", err)
			}
			// One dead target never aborts the rest of the run.
			logger.Error("target crawl failed", zap.String("target", target), zap.Error(err))
			lastErr = err
			continue
		}
		succeeded++
		logger.Info("target crawl finished",
			zap.String("target", target),
			zap.Int("records", len(targetRecords)),
			zap.Int("pages", stats.Pages),
			zap.Int("pages_failed", stats.PagesFailed),
			zap.Int("items_failed", stats.ItemsFailed),
			zap.Int("duplicate_ids", stats.DuplicateIDs),
		)
		records = append(records, targetRecords...)
	}

	if succeeded == 0 && len(cfg.Targets) > 0 {
		return fmt.Errorf("every target failed: %w", lastErr)
	}

	if cleanFlag, _ := cmd.Flags().GetBool("clean"); cleanFlag {
		clean.Apply(records)
	}

	return writeRecords(cmd, appInstance, records)
}

// buildOrchestrator assembles the crawl pipeline from configuration: the
// Colly fetcher, the optional chromedp renderer, the per-domain limiter,
// the retry policy and the progress broadcaster.
func buildOrchestrator(cfg crawler.Config, appInstance App) (*crawler.Orchestrator, func(), error) {
	logger := appInstance.Logger()

	deps := crawler.Deps{
		Fetcher: collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.RequestTimeout,
		}),
		Listing: parser.NewHTMLListingParser(),
		Detail:  parser.NewHTMLDetailParser(),
		Limiter: ratelimit.New(ratelimit.Config{
			DefaultRPS:   cfg.RatePerDomain,
			DefaultBurst: cfg.RateBurst,
		}),
		Retry:   crawler.NewExponentialRetryPolicy(),
		Archive: appInstance.Archive(),
		Logger:  logger,
	}

	closeFn := func() {}
	if cfg.HeadlessEnabled {
		renderer, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Concurrency,
			UserAgent:         cfg.UserAgent,
			NavigationTimeout: cfg.HeadlessTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init headless renderer: %w", err)
		}
		deps.Headless = renderer
		deps.Detector = detector.NewHeuristic(0)
		closeFn = renderer.Close
	}

	deps.Emitter = buildEmitter(appInstance)

	return crawler.New(cfg, deps), closeFn, nil
}

func buildEmitter(appInstance App) progress.Emitter {
	logger := appInstance.Logger()
	sinkList := []progress.Sink{sinks.NewLogSink(logger)}
	if promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer); err == nil {
		sinkList = append(sinkList, promSink)
	}
	if snapshot := appInstance.Snapshot(); snapshot != nil {
		sinkList = append(sinkList, snapshot)
	}
	return progress.NewBroadcaster(logger, sinkList...)
}

// writeRecords pushes the final collection through every configured sink
// and publishes the completion notification.
func writeRecords(cmd *cobra.Command, appInstance App, records []crawler.Product) error {
	logger := appInstance.Logger()
	path := viper.GetString("output.path")
	format := viper.GetString("output.format")

	recordSinks, err := appInstance.RecordSinks(path, format)
	if err != nil {
		return err
	}
	for _, s := range recordSinks {
		if err := s.Write(cmd.Context(), records); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
	}
	logger.Info("records written",
		zap.Int("count", len(records)),
		zap.String("path", path),
		zap.String("format", format),
	)

	if publisher := appInstance.Publisher(); publisher != nil {
		payload := map[string]any{
			"records":     len(records),
			"output":      path,
			"finished_at": time.Now().UTC(),
		}
		if _, err := publisher.Publish(cmd.Context(), payload); err != nil {
			logger.Warn("completion publish failed", zap.Error(err))
		}
	}
	return nil
}
