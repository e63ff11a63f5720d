package aggregators

import (
	"context"
	"sort"
	"time"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
)

//go:generate mockgen -source=window_aggregator.go -destination=./mocks/window_aggregator_mock.go -package=mocks

// SnapshotHandler receives every method's snapshot at flush time. A returned
// error is logged and counted but never stops the flush: the window clears
// regardless.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snapshot *models.WindowSnapshot) *svcerrors.ServiceError
}

// WindowAggregator keys WindowStats by method inside a tumbling window. All
// methods flush together on the first event at or past the window boundary;
// no sample carries over. Not safe for concurrent use: the pipeline loop is
// the single owner.
type WindowAggregator interface {
	// Add feeds one event and flushes every active window when the window
	// duration has elapsed since the last flush.
	Add(ctx context.Context, event *models.Event, now time.Time)
	// Snapshot returns the current view of one method's window, or false
	// when no events arrived for it since the last flush.
	Snapshot(method string) (*models.WindowSnapshot, bool)
}

type methodWindow struct {
	stats      *WindowStats
	lastSource string
}

type windowAggregator struct {
	window  time.Duration
	handler SnapshotHandler

	windows   map[string]*methodWindow
	lastFlush time.Time
}

func NewWindowAggregator(window time.Duration, handler SnapshotHandler) WindowAggregator {
	return &windowAggregator{
		window:  window,
		handler: handler,
		windows: make(map[string]*methodWindow),
	}
}

func (a *windowAggregator) Add(ctx context.Context, event *models.Event, now time.Time) {
	w, ok := a.windows[event.Method]
	if !ok {
		w = &methodWindow{stats: NewWindowStats()}
		a.windows[event.Method] = w
	}
	w.stats.Add(event.LatencyMS, event.IsError())
	if event.SourceID != "" {
		w.lastSource = event.SourceID
	}

	if a.lastFlush.IsZero() {
		a.lastFlush = now
		return
	}
	if now.Sub(a.lastFlush) >= a.window {
		a.flush(ctx, now)
	}
}

func (a *windowAggregator) Snapshot(method string) (*models.WindowSnapshot, bool) {
	w, ok := a.windows[method]
	if !ok {
		return nil, false
	}
	snapshot := w.stats.Snapshot(method)
	snapshot.Sample = w.lastSource
	return &snapshot, true
}

// flush hands every active method's snapshot to the handler in a stable
// order, then clears the whole mapping and restarts the window clock.
func (a *windowAggregator) flush(ctx context.Context, now time.Time) {
	methods := make([]string, 0, len(a.windows))
	for method := range a.windows {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	for _, method := range methods {
		w := a.windows[method]
		snapshot := w.stats.Snapshot(method)
		snapshot.Sample = w.lastSource
		if svcErr := a.handler.HandleSnapshot(ctx, &snapshot); svcErr != nil {
			loggers.Ctx(ctx).Error().
				Err(svcErr).
				Str(loggers.FieldErrorCode, svcErr.Code).
				Str(loggers.FieldMethod, method).
				Msg("snapshot handler failed")
			metricWindowSnapshotsHandledTotal.WithLabelValues(svcErr.Code).Inc()
		} else {
			metricWindowSnapshotsHandledTotal.WithLabelValues(metrics.ValueNoError).Inc()
		}
	}

	a.windows = make(map[string]*methodWindow)
	a.lastFlush = now
	metricWindowsFlushedTotal.Inc()
}
