// Package metrics exposes Prometheus collectors for the scraper.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scraperPagesTotal          *prometheus.CounterVec
	scraperItemsTotal          *prometheus.CounterVec
	scraperRecordsTotal        prometheus.Counter
	scraperFetchDurationSecond *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors. It is safe to call
// this function multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total listing pages processed, labeled by result.",
			},
			[]string{"result"},
		)

		scraperItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_items_total",
				Help: "Total product detail items processed, labeled by result.",
			},
			[]string{"result"},
		)

		scraperRecordsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_records_total",
				Help: "Total product records emitted.",
			},
		)

		scraperFetchDurationSecond = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scraper_fetch_duration_seconds",
				Help:    "Histogram of fetch latencies, labeled by status code.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"status"},
		)
	})
}

// ObservePage records the outcome of one listing page.
func ObservePage(ok bool) {
	if scraperPagesTotal == nil {
		return
	}
	scraperPagesTotal.WithLabelValues(result(ok)).Inc()
}

// ObserveItem records the outcome of one detail item.
func ObserveItem(ok bool) {
	if scraperItemsTotal == nil {
		return
	}
	scraperItemsTotal.WithLabelValues(result(ok)).Inc()
}

// AddRecords counts emitted product records.
func AddRecords(n int) {
	if scraperRecordsTotal == nil || n <= 0 {
		return
	}
	scraperRecordsTotal.Add(float64(n))
}

// ObserveFetch records one successful fetch's latency.
func ObserveFetch(status int, dur time.Duration) {
	if scraperFetchDurationSecond == nil {
		return
	}
	scraperFetchDurationSecond.WithLabelValues(strconv.Itoa(status)).Observe(dur.Seconds())
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
