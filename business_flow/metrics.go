package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	boqEstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constructai",
			Name:      "boq_estimates_total",
			Help:      "Number of BOQ estimates produced, by outcome",
		},
		[]string{"outcome"},
	)

	boqLineItemsMissingRate = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "constructai",
			Name:      "boq_missing_rates_total",
			Help:      "Line items skipped because no rate was known",
		},
	)

	priceUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constructai",
			Name:      "price_updates_total",
			Help:      "Accepted price updates by source and resulting trend",
		},
		[]string{"source", "trend"},
	)

	priceFeedFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "constructai",
			Name:      "price_feed_failures_total",
			Help:      "Materials whose live price could not be refreshed",
		},
		[]string{"feed"},
	)

	priceRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "constructai",
			Name:      "price_refresh_duration_seconds",
			Help:      "Duration of a full live price refresh",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)
