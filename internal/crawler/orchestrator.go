package crawler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quochuy242/AdidasScraper/internal/metrics"
	"github.com/quochuy242/AdidasScraper/internal/progress"
)

// Deps bundles the collaborators an Orchestrator needs. Fetcher is required;
// everything else may be nil and degrades to a no-op.
type Deps struct {
	Fetcher    Fetcher
	Headless   Fetcher
	Detector   Detector
	Listing    ListingParser
	Detail     DetailParser
	Variations VariationDetailer
	Limiter    Limiter
	Retry      RetryPolicy
	Emitter    progress.Emitter
	Archive    Archive
	Logger     *zap.Logger
}

// Orchestrator coordinates the two crawl phases: URL discovery across
// listing pages, then detail resolution with color-variant expansion. Both
// phases fan out with bounded concurrency and isolate per-unit failures;
// only the very first fetch of a run is fatal. Results always come back in
// submission order regardless of completion order.
//
// An Orchestrator is not safe for concurrent runs; targets are crawled
// sequentially, one run at a time.
type Orchestrator struct {
	cfg    Config
	deps   Deps
	runID  uuid.UUID
	target string
	c      *counters
	ids    *idTracker
}

type counters struct {
	pages          atomic.Int64
	pagesFailed    atomic.Int64
	urls           atomic.Int64
	itemsAttempted atomic.Int64
	itemsSucceeded atomic.Int64
	itemsFailed    atomic.Int64
	duplicates     atomic.Int64
	retries        atomic.Int64
}

// New constructs an Orchestrator.
func New(cfg Config, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Emitter == nil {
		deps.Emitter = progress.Nop{}
	}
	return &Orchestrator{
		cfg:  cfg,
		deps: deps,
		c:    &counters{},
		ids:  newIDTracker(),
	}
}

// Crawl runs both phases for one listing target and returns the record
// collection in page order. The error is non-nil only when the first listing
// page could not be fetched; every other failure is isolated and reflected
// in Stats.
func (o *Orchestrator) Crawl(ctx context.Context, target Target) ([]Product, Stats, error) {
	if o.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RunTimeout)
		defer cancel()
	}
	o.beginRun(string(target))

	urls, err := o.DiscoverURLs(ctx, target)
	if err != nil {
		o.emit(progress.StageRunError, "", false, 0, 0, err.Error())
		return nil, o.stats(), err
	}
	o.deps.Logger.Info("product urls discovered",
		zap.String("target", string(target)),
		zap.Int("count", len(urls)),
	)

	records := o.ResolveDetails(ctx, urls)
	o.noteDuplicates(records)
	o.emit(progress.StageRunDone, "", true, len(records), 0, "")
	return records, o.stats(), nil
}

// Expand runs the detail-resolution phase over catalog items (the search-API
// variant of the crawl) with color-variant expansion.
func (o *Orchestrator) Expand(ctx context.Context, label string, items []ListingItem) ([]Product, Stats) {
	if o.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RunTimeout)
		defer cancel()
	}
	o.beginRun(label)

	records := o.ExpandItems(ctx, items)
	o.noteDuplicates(records)
	o.emit(progress.StageRunDone, "", true, len(records), 0, "")
	return records, o.stats()
}

// DiscoverURLs is Phase A: establish the page count from page zero, then
// fetch and parse every listing page concurrently. Pages that fail
// individually contribute an empty URL list. The flattened result preserves
// page order, then within-page order.
func (o *Orchestrator) DiscoverURLs(ctx context.Context, target Target) ([]string, error) {
	firstURL := ListingURL(o.cfg.BaseURL, target, 0, o.cfg.PageSize)
	first, err := o.fetch(ctx, firstURL)
	if err != nil {
		return nil, fmt.Errorf("fetch first listing page %s: %w", firstURL, err)
	}

	total := o.deps.Listing.PageCount(first.Body)
	o.deps.Logger.Info("pagination discovered",
		zap.String("target", string(target)),
		zap.Int("pages", total),
	)

	// Pages 0..total inclusive; each index owns its result slot so the
	// merge below is a pure ordered flatten.
	perPage := make([][]string, total+1)
	ForEach(ctx, total+1, o.cfg.Concurrency, func(ctx context.Context, i int) {
		start := time.Now()
		pageURL := ListingURL(o.cfg.BaseURL, target, i, o.cfg.PageSize)
		page, err := o.fetch(ctx, pageURL)
		if err != nil {
			o.c.pagesFailed.Add(1)
			metrics.ObservePage(false)
			o.deps.Logger.Warn("listing page failed", zap.String("url", pageURL), zap.Error(err))
			o.emit(progress.StagePageDone, pageURL, false, 0, time.Since(start), err.Error())
			return
		}
		perPage[i] = o.deps.Listing.ProductURLs(page.Body, o.cfg.BaseURL)
		o.c.pages.Add(1)
		metrics.ObservePage(true)
		o.emit(progress.StagePageDone, pageURL, true, len(perPage[i]), time.Since(start), "")
	})

	var flat []string
	for _, urls := range perPage {
		flat = append(flat, urls...)
	}
	o.c.urls.Store(int64(len(flat)))
	return flat, nil
}

// ResolveDetails is Phase B for listing-derived URLs: fetch and parse every
// detail page concurrently. Failed units either vanish or leave a
// default-valued placeholder, per configuration; either way the attempted
// and succeeded counts stay observable in Stats.
func (o *Orchestrator) ResolveDetails(ctx context.Context, urls []string) []Product {
	slots := make([]*Product, len(urls))
	ForEach(ctx, len(urls), o.cfg.Concurrency, func(ctx context.Context, i int) {
		start := time.Now()
		o.c.itemsAttempted.Add(1)
		page, err := o.fetch(ctx, urls[i])
		var rec Product
		if err == nil {
			rec, err = o.deps.Detail.Parse(page.Body, urls[i])
		}
		if err != nil {
			o.c.itemsFailed.Add(1)
			metrics.ObserveItem(false)
			o.deps.Logger.Warn("product detail failed", zap.String("url", urls[i]), zap.Error(err))
			o.emit(progress.StageItemDone, urls[i], false, 0, time.Since(start), err.Error())
			if o.cfg.KeepFailedRecords {
				slots[i] = &Product{URL: urls[i], Images: map[string]string{}}
			}
			return
		}
		o.c.itemsSucceeded.Add(1)
		metrics.ObserveItem(true)
		slots[i] = &rec
		o.emit(progress.StageItemDone, urls[i], true, 1, time.Since(start), "")
	})

	records := make([]Product, 0, len(urls))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	metrics.AddRecords(len(records))
	return records
}

// ExpandItems is Phase B for catalog items: each item yields one record per
// color variation followed by the base product's own record. Variant records
// share title, subtitle, division and price with the base but carry their
// own id and URL, plus per-id color/image detail when a VariationDetailer is
// wired. Detail enrichment failures never drop the item.
func (o *Orchestrator) ExpandItems(ctx context.Context, items []ListingItem) []Product {
	slots := make([][]Product, len(items))
	ForEach(ctx, len(items), o.cfg.Concurrency, func(ctx context.Context, i int) {
		start := time.Now()
		o.c.itemsAttempted.Add(1)
		slots[i] = o.expandItem(ctx, items[i])
		o.c.itemsSucceeded.Add(1)
		metrics.ObserveItem(true)
		// Catalog items may carry no link; the event still needs a subject.
		subject := items[i].URL
		if subject == "" {
			subject = items[i].ID
		}
		o.emit(progress.StageItemDone, subject, true, len(slots[i]), time.Since(start), "")
	})

	var records []Product
	for _, recs := range slots {
		records = append(records, recs...)
	}
	metrics.AddRecords(len(records))
	return records
}

func (o *Orchestrator) expandItem(ctx context.Context, item ListingItem) []Product {
	base := Product{
		ID:       item.ID,
		Title:    item.Title,
		Subtitle: item.Subtitle,
		Division: item.Division,
		Price:    item.Price,
		URL:      item.URL,
		Images:   map[string]string{},
	}

	out := make([]Product, 0, len(item.ColorVariations)+1)
	for _, vid := range item.ColorVariations {
		variant := base
		variant.ID = vid
		variant.URL = VariantURL(item.URL, item.ID, vid)
		variant.Images = map[string]string{}
		if o.deps.Variations != nil {
			det, err := o.deps.Variations.VariationDetail(ctx, vid)
			if err != nil {
				o.deps.Logger.Warn("variation detail failed", zap.String("id", vid), zap.Error(err))
			} else if det.Color != "" {
				variant.Images[det.Color] = det.Image
			}
		}
		out = append(out, variant)
	}

	if o.cfg.FetchDetails && o.deps.Detail != nil && item.URL != "" {
		page, err := o.fetch(ctx, item.URL)
		if err != nil {
			o.deps.Logger.Warn("detail page fetch failed", zap.String("url", item.URL), zap.Error(err))
		} else if rec, perr := o.deps.Detail.Parse(page.Body, item.URL); perr != nil {
			o.deps.Logger.Warn("detail page parse failed", zap.String("url", item.URL), zap.Error(perr))
		} else {
			base.Images = rec.Images
			base.Sizes = rec.Sizes
		}
	}

	// Variant records first, then the base product's own record.
	return append(out, base)
}

// fetch runs one rate-limited, retried fetch, with optional headless
// promotion and raw-page archiving on success.
func (o *Orchestrator) fetch(ctx context.Context, rawURL string) (Page, error) {
	for attempt := 0; ; attempt++ {
		if o.deps.Limiter != nil {
			if err := o.deps.Limiter.Wait(ctx, rawURL); err != nil {
				return Page{}, fmt.Errorf("rate limit wait: %w", err)
			}
		}
		page, err := o.deps.Fetcher.Fetch(ctx, rawURL)
		if err == nil {
			metrics.ObserveFetch(page.StatusCode, page.Duration)
			page = o.maybePromote(ctx, page)
			o.archivePage(ctx, page)
			return page, nil
		}
		if o.deps.Retry == nil || !o.deps.Retry.ShouldRetry(err, attempt) {
			return Page{}, err
		}
		o.c.retries.Add(1)
		select {
		case <-ctx.Done():
			return Page{}, ctx.Err()
		case <-time.After(o.deps.Retry.Backoff(attempt)):
		}
	}
}

func (o *Orchestrator) maybePromote(ctx context.Context, page Page) Page {
	if o.deps.Detector == nil || o.deps.Headless == nil {
		return page
	}
	if !o.deps.Detector.ShouldPromote(page) {
		return page
	}
	rendered, err := o.deps.Headless.Fetch(ctx, page.URL)
	if err != nil {
		o.deps.Logger.Warn("headless promotion failed", zap.String("url", page.URL), zap.Error(err))
		return page
	}
	return rendered
}

func (o *Orchestrator) archivePage(ctx context.Context, page Page) {
	if o.deps.Archive == nil || len(page.Body) == 0 {
		return
	}
	name := archiveObjectName(page.URL, time.Now().UTC())
	if _, err := o.deps.Archive.PutObject(ctx, name, "text/html; charset=utf-8", page.Body); err != nil {
		o.deps.Logger.Warn("archive snapshot failed", zap.String("url", page.URL), zap.Error(err))
	}
}

func (o *Orchestrator) beginRun(label string) {
	o.runID = uuid.New()
	o.target = label
	o.c = &counters{}
	o.ids = newIDTracker()
	o.emit(progress.StageRunStart, "", true, 0, 0, "")
}

func (o *Orchestrator) noteDuplicates(records []Product) {
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if !o.ids.MarkIfNew(rec.ID) {
			o.c.duplicates.Add(1)
			o.deps.Logger.Warn("duplicate record id", zap.String("id", rec.ID), zap.String("url", rec.URL))
		}
	}
}

func (o *Orchestrator) emit(stage progress.Stage, url string, ok bool, records int, dur time.Duration, note string) {
	o.deps.Emitter.Emit(progress.Event{
		RunID:   o.runID,
		TS:      time.Now().UTC(),
		Stage:   stage,
		Target:  o.target,
		URL:     url,
		OK:      ok,
		Records: records,
		Dur:     dur,
		Note:    note,
	})
}

func (o *Orchestrator) stats() Stats {
	return Stats{
		Pages:          int(o.c.pages.Load()),
		PagesFailed:    int(o.c.pagesFailed.Load()),
		URLsDiscovered: int(o.c.urls.Load()),
		ItemsAttempted: int(o.c.itemsAttempted.Load()),
		ItemsSucceeded: int(o.c.itemsSucceeded.Load()),
		ItemsFailed:    int(o.c.itemsFailed.Load()),
		DuplicateIDs:   int(o.c.duplicates.Load()),
		Retries:        int(o.c.retries.Load()),
	}
}
