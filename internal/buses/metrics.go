package buses

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricBusConnected is 1 while a broker connection is established.
	metricBusConnected = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBus,
			Name:      "connected",
		},
	)

	// metricBusReconnectsTotal counts entries into the Reconnecting state.
	metricBusReconnectsTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBus,
			Name:      "reconnects_total",
		},
	)

	// metricBusPublishedTotal counts publish attempts by outcome.
	metricBusPublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBus,
			Name:      "published_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricBusReceivedTotal counts received messages per topic. The
	// sentinel topic space is small, so the label stays low-cardinality.
	metricBusReceivedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBus,
			Name:      "received_total",
		},
		[]string{"topic"},
	)

	// metricBusHeartbeatsTotal counts liveness records published.
	metricBusHeartbeatsTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBus,
			Name:      "heartbeats_published_total",
		},
	)
)
