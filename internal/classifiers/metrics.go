package classifiers

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricAlertsPublishedTotal counts triggered alerts by publish outcome.
	metricAlertsPublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "alerts_published_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
