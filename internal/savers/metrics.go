package savers

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricSaverRecordsRoutedTotal counts received bus records per stream.
	metricSaverRecordsRoutedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "records_routed_total",
		},
		[]string{"stream"},
	)
)
