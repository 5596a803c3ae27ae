package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the portal's prometheus collectors on a private registry
type Metrics struct {
	Registry          *prometheus.Registry
	FetchFailures     *prometheus.CounterVec
	Navigations       *prometheus.CounterVec
	LoginAttempts     *prometheus.CounterVec
	ArticlesDelivered prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inspire_bytes",
			Name:      "article_fetch_failures_total",
			Help:      "Article list fetches that failed and degraded to an empty list.",
		}, []string{"source"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inspire_bytes",
			Name:      "navigations_total",
			Help:      "Navigation actions dispatched from the article list.",
		}, []string{"action"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inspire_bytes",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		ArticlesDelivered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inspire_bytes",
			Name:      "article_list_size",
			Help:      "Number of articles returned by the data service per fetch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	m.Registry.MustRegister(
		m.FetchFailures,
		m.Navigations,
		m.LoginAttempts,
		m.ArticlesDelivered,
		collectors.NewGoCollector(),
	)

	return m
}
