package responders

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricResponderAlertsTotal counts processed alerts per classified type.
	metricResponderAlertsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubResponder,
			Name:      "alerts_classified_total",
		},
		[]string{"attack_type"},
	)

	// metricResponderActionsTotal counts executed response actions.
	metricResponderActionsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubResponder,
			Name:      "actions_executed_total",
		},
		[]string{"action"},
	)

	// metricResponderBlocksTotal counts packet filter block attempts by outcome.
	metricResponderBlocksTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubResponder,
			Name:      "blocks_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
