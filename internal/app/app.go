// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"

	gstorage "cloud.google.com/go/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/api"
	"github.com/quochuy242/AdidasScraper/internal/crawler"
	"github.com/quochuy242/AdidasScraper/internal/logging"
	"github.com/quochuy242/AdidasScraper/internal/publish"
	"github.com/quochuy242/AdidasScraper/internal/sink"
	"github.com/quochuy242/AdidasScraper/internal/storage/gcs"
	"github.com/quochuy242/AdidasScraper/internal/storage/local"

	progresssinks "github.com/quochuy242/AdidasScraper/internal/progress/sinks"
)

// App holds the shared, long-lived services for one scraper invocation:
// the logger, the optional raw-page archive, the optional Postgres sink,
// the optional completion publisher, and the optional status server. It
// is initialized once at startup and handed to the command that runs.
type App struct {
	logger    *zap.Logger
	archive   crawler.Archive
	postgres  *sink.PostgresSink
	publisher *publish.PubSub
	snapshot  *progresssinks.SnapshotSink
	status    *api.Server
}

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Archive exposes the configured raw-page archive, or nil when disabled.
func (a *App) Archive() crawler.Archive {
	return a.archive
}

// Publisher returns the completion publisher, or nil when disabled.
func (a *App) Publisher() *publish.PubSub {
	return a.publisher
}

// Snapshot returns the live progress accumulator, or nil when the status
// server is disabled.
func (a *App) Snapshot() *progresssinks.SnapshotSink {
	return a.snapshot
}

// RecordSinks builds the file sink for the given path and format, plus the
// Postgres sink when one is configured.
func (a *App) RecordSinks(path, format string) ([]crawler.RecordSink, error) {
	var s crawler.RecordSink
	switch format {
	case "csv":
		s = sink.NewCSVSink(path)
	case "json":
		s = sink.NewJSONSink(path)
	default:
		return nil, fmt.Errorf("unknown output format %q (want csv or json)", format)
	}
	out := []crawler.RecordSink{s}
	if a.postgres != nil {
		out = append(out, a.postgres)
	}
	return out, nil
}

// New creates and initializes an App based on the application's
// configuration. It fails fast if any configured service cannot be
// initialized.
func New(ctx context.Context) (*App, error) {
	l := logging.L
	a := &App{logger: l}

	if err := a.initArchive(ctx); err != nil {
		return nil, err
	}
	if err := a.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := a.initPublisher(ctx); err != nil {
		return nil, err
	}
	a.initStatusServer()

	return a, nil
}

func (a *App) initArchive(ctx context.Context) error {
	switch provider := viper.GetString("archive.provider"); provider {
	case "local":
		baseDir := viper.GetString("archive.local.base_dir")
		a.logger.Info("archiving pages to local filesystem", zap.String("base_dir", baseDir))
		store, err := local.New(local.Config{BaseDir: baseDir})
		if err != nil {
			return fmt.Errorf("initialize local archive: %w", err)
		}
		a.archive = store
	case "gcs":
		bucket := viper.GetString("archive.gcs.bucket")
		if bucket == "" {
			return fmt.Errorf("archive provider is 'gcs' but archive.gcs.bucket is not set")
		}
		client, err := gstorage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		a.logger.Info("archiving pages to GCS", zap.String("bucket", bucket))
		store, err := gcs.New(client, gcs.Config{Bucket: bucket})
		if err != nil {
			return fmt.Errorf("initialize gcs archive: %w", err)
		}
		a.archive = store
	case "none":
		// Raw pages are discarded.
	default:
		return fmt.Errorf("unknown archive provider: %s", provider)
	}
	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	switch provider := viper.GetString("database.provider"); provider {
	case "postgres":
		dsn := viper.GetString("database.postgres.dsn")
		if dsn == "" {
			return fmt.Errorf("database provider is 'postgres' but database.postgres.dsn is not set")
		}
		a.logger.Info("connecting to PostgreSQL")
		pg, err := sink.NewPostgresSink(ctx, sink.PostgresConfig{
			DSN:   dsn,
			Table: viper.GetString("database.postgres.table"),
		})
		if err != nil {
			return fmt.Errorf("initialize postgres sink: %w", err)
		}
		a.postgres = pg
	case "none":
	default:
		return fmt.Errorf("unknown database provider: %s", provider)
	}
	return nil
}

func (a *App) initPublisher(ctx context.Context) error {
	switch provider := viper.GetString("publish.provider"); provider {
	case "pubsub":
		projectID := viper.GetString("publish.gcp.project_id")
		topicID := viper.GetString("publish.gcp.topic_id")
		if projectID == "" || topicID == "" {
			return fmt.Errorf("publish provider is 'pubsub' but project_id or topic_id is not set")
		}
		a.logger.Info("connecting to GCP Pub/Sub", zap.String("topic", topicID))
		p, err := publish.NewPubSub(ctx, projectID, topicID, a.logger)
		if err != nil {
			return fmt.Errorf("initialize publisher: %w", err)
		}
		a.publisher = p
	case "none":
	default:
		return fmt.Errorf("unknown publish provider: %s", provider)
	}
	return nil
}

func (a *App) initStatusServer() {
	if !viper.GetBool("status.enabled") {
		return
	}
	a.snapshot = progresssinks.NewSnapshotSink()
	a.status = api.NewServer(viper.GetString("status.addr"), a.snapshot, nil, a.logger)
	go func() {
		if err := a.status.Start(); err != nil {
			a.logger.Error("status server failed", zap.Error(err))
		}
	}()
}

// Close gracefully shuts down all services in the container. It is called
// by a Cobra hook after the command finishes execution.
func (a *App) Close(ctx context.Context) {
	if a.status != nil {
		if err := a.status.Shutdown(ctx); err != nil {
			a.logger.Warn("error shutting down status server", zap.Error(err))
		}
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("error closing publisher", zap.Error(err))
		}
	}
	// Flush buffered log entries before exit; stderr sync failures are
	// expected on some platforms.
	_ = a.logger.Sync()
}
