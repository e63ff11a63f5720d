package parsers

import (
	"rpc-sentinel/internal/shared/metrics"
)

// metricEventLinesParsedTotal counts parsed call-log lines by outcome.
// error_code is empty for lines that decoded cleanly.
var (
	metricEventLinesParsedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPipeline,
			Name:      "event_lines_parsed_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
