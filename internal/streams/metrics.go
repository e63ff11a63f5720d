package streams

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	streamBusRecord              = "bus_record"
	metricBusRecordProducedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "bus_record_published_total",
		},
		[]string{"stream_id"},
	)

	metricBusRecordConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "bus_record_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
