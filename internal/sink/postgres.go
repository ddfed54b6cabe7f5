package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quochuy242/AdidasScraper/internal/crawler"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool used for product rows.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresSink inserts one row per product record.
type PostgresSink struct {
	pool  execCloser
	table string
}

// NewPostgresSink creates a Postgres-backed sink using the provided config.
func NewPostgresSink(ctx context.Context, cfg PostgresConfig) (*PostgresSink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresSink{pool: pool, table: table}, nil
}

// NewPostgresSinkWithPool constructs a sink from an existing pool (primarily for testing).
func NewPostgresSinkWithPool(pool execCloser, table string) (*PostgresSink, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresSink{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *PostgresSink) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Write upserts every record by id. The images map is stored as JSONB,
// sizes as a pipe-joined text column.
func (s *PostgresSink) Write(ctx context.Context, records []crawler.Product) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres sink is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	title,
	subtitle,
	division,
	gender,
	price,
	url,
	images,
	sizes,
	scraped_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	subtitle = EXCLUDED.subtitle,
	division = EXCLUDED.division,
	gender = EXCLUDED.gender,
	price = EXCLUDED.price,
	url = EXCLUDED.url,
	images = EXCLUDED.images,
	sizes = EXCLUDED.sizes,
	scraped_at = EXCLUDED.scraped_at`, s.table)

	now := time.Now().UTC()
	for _, record := range records {
		if record.ID == "" {
			return fmt.Errorf("record id is required")
		}
		images, err := json.Marshal(normalizeImages(record.Images))
		if err != nil {
			return fmt.Errorf("marshal images for %s: %w", record.ID, err)
		}
		args := []any{
			record.ID,
			record.Title,
			record.Subtitle,
			record.Division,
			record.Gender,
			record.Price,
			record.URL,
			images,
			strings.Join(record.Sizes, "|"),
			now,
		}
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert product %s: %w", record.ID, err)
		}
	}
	return nil
}

func normalizeImages(images map[string]string) map[string]string {
	if images == nil {
		return map[string]string{}
	}
	return images
}
