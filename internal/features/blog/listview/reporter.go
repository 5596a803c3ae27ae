package listview

import (
	"context"

	"inspire-bytes/internal/core"
)

// MetricsReporter logs fetch failures and counts them by source
type MetricsReporter struct {
	logger  *core.Logger
	metrics *core.Metrics
	source  string
}

// NewMetricsReporter creates a reporter; metrics may be nil
func NewMetricsReporter(logger *core.Logger, metrics *core.Metrics, source string) *MetricsReporter {
	return &MetricsReporter{logger: logger, metrics: metrics, source: source}
}

// FetchFailed implements FailureReporter
func (r *MetricsReporter) FetchFailed(ctx context.Context, err error) {
	r.logger.WithContext(ctx).Error("Failed to fetch articles", "source", r.source, "error", err)
	if r.metrics != nil {
		r.metrics.FetchFailures.WithLabelValues(r.source).Inc()
	}
}
