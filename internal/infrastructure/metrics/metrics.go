// Package metrics holds the Prometheus collectors of the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsfeed_feed_fetch_total",
		Help: "Feed endpoint retrievals by outcome (ok, failed)",
	}, []string{"outcome"})

	FeedEntries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsfeed_feed_entries_total",
		Help: "Entries parsed from all feed endpoints",
	})

	Enrichments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsfeed_enrichment_total",
		Help: "Enrichment steps by outcome (enriched, placeholder)",
	}, []string{"outcome"})

	EnrichmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsfeed_enrichment_duration_seconds",
		Help:    "Duration of a single enrichment capability call",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	StoreItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsfeed_store_items",
		Help: "Content items held in the persisted store after the last merge",
	})

	WorkerRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsfeed_worker_running",
		Help: "1 while an enrichment pass is active",
	})
)
