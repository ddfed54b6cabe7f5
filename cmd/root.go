// Package cmd defines and implements the CLI commands for the scraper
// executable.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/app"
	"github.com/quochuy242/AdidasScraper/internal/crawler"
	"github.com/quochuy242/AdidasScraper/internal/logging"
	"github.com/quochuy242/AdidasScraper/internal/metrics"
	"github.com/quochuy242/AdidasScraper/internal/publish"
	"github.com/quochuy242/AdidasScraper/pkg/config"

	progresssinks "github.com/quochuy242/AdidasScraper/internal/progress/sinks"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is the service container interface commands depend on. Keeping it an
// interface lets tests inject a mock container.
type App interface {
	Close(ctx context.Context)
	Logger() *zap.Logger
	Archive() crawler.Archive
	Publisher() *publish.PubSub
	Snapshot() *progresssinks.SnapshotSink
	RecordSinks(path, format string) ([]crawler.RecordSink, error)
}

// newApp is the application factory; tests replace it with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	return app.New(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adidas-scraper",
		Short: "A concurrent product scraper for the Adidas storefront.",
		Long: `adidas-scraper walks paginated category listings (or the storefront
search API), resolves every product's detail page including its color
variants, and writes normalized records to CSV, JSON or Postgres.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", cfgFile, err)
				}
			}
			if err := logging.InitLogger(viper.GetBool("log.development")); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			metrics.Init()

			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close(cmd.Context())
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/adidas-scraper, $HOME/.adidas-scraper)")
	cmd.PersistentFlags().String("output", "", "output file path")
	cmd.PersistentFlags().String("format", "", "output format: csv or json")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "development logging")
	mustBindFlag("output.path", cmd.PersistentFlags().Lookup("output"))
	mustBindFlag("output.format", cmd.PersistentFlags().Lookup("format"))
	mustBindFlag("log.development", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}

func mustBindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("command execution failed", zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}
