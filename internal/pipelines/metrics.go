package pipelines

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricPipelineEventsTotal counts tailed lines by processing outcome.
	metricPipelineEventsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "events_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
