package aggregators

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricWindowsFlushedTotal counts batch flush ticks. Every active
	// method flushes on the same tick, so this counts ticks, not methods.
	metricWindowsFlushedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubWindow,
			Name:      "flushes_total",
		},
	)

	// metricWindowSnapshotsHandledTotal counts per-method snapshots handed
	// to the snapshot handler at flush time, by outcome.
	metricWindowSnapshotsHandledTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubWindow,
			Name:      "snapshots_handled_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
