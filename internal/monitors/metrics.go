package monitors

import "rpc-sentinel/internal/shared/metrics"

// metricMonitorLinesTotal counts bus messages seen by the monitor, labeled by
// whether they rendered as flagged.
var metricMonitorLinesTotal = metrics.NewCounterVec(
	metrics.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubMonitor,
		Name:      "lines_total",
		Help:      "Bus messages inspected by the console monitor.",
	},
	[]string{"flagged"},
)
