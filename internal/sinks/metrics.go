package sinks

import (
	"rpc-sentinel/internal/shared/metrics"
)

var (
	// metricSinkRecordsWrittenTotal counts appended records by stream and outcome.
	metricSinkRecordsWrittenTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "records_written_total",
		},
		[]string{"stream", metrics.FieldErrorCode},
	)

	// metricSinkRotationsTotal counts bucket file openings per stream.
	metricSinkRotationsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "rotations_total",
		},
		[]string{"stream"},
	)

	// metricSinkFilesSweptTotal counts expired files deleted per stream.
	metricSinkFilesSweptTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "files_swept_total",
		},
		[]string{"stream"},
	)
)
