package aggregators

import (
	"context"
	"testing"
	"time"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	snapshots []models.WindowSnapshot
	fail      bool
}

func (h *recordingHandler) HandleSnapshot(_ context.Context, snapshot *models.WindowSnapshot) *svcerrors.ServiceError {
	h.snapshots = append(h.snapshots, *snapshot)
	if h.fail {
		return svcerrors.NewInternalErrorUndefined(nil)
	}
	return nil
}

func event(method string, latency float64, status int) *models.Event {
	return &models.Event{Method: method, LatencyMS: latency, StatusCode: status}
}

func TestWindowAggregator_FlushesAllMethodsTogether(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	agg := NewWindowAggregator(250*time.Millisecond, handler)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg.Add(context.Background(), event("getBalance", 100, 200), t0)
	agg.Add(context.Background(), event("getLogs", 200, 503), t0.Add(100*time.Millisecond))
	agg.Add(context.Background(), event("getBalance", 120, 200), t0.Add(250*time.Millisecond))

	require.Len(t, handler.snapshots, 2, "both methods flush on the same tick")
	assert.Equal(t, "getBalance", handler.snapshots[0].Method)
	assert.Equal(t, int64(2), handler.snapshots[0].Calls)
	assert.Equal(t, "getLogs", handler.snapshots[1].Method)
	assert.Equal(t, int64(1), handler.snapshots[1].Errors)
}

func TestWindowAggregator_TumblingResetAfterFlush(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	agg := NewWindowAggregator(250*time.Millisecond, handler)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg.Add(context.Background(), event("getBalance", 100, 200), t0)
	agg.Add(context.Background(), event("getBalance", 100, 200), t0.Add(300*time.Millisecond))

	require.Len(t, handler.snapshots, 1)

	// No sample carries over: the window is gone until a new event arrives.
	_, ok := agg.Snapshot("getBalance")
	assert.False(t, ok, "flushed window must report no data, not stale values")
}

func TestWindowAggregator_NoFlushBeforeWindowElapses(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	agg := NewWindowAggregator(250*time.Millisecond, handler)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg.Add(context.Background(), event("getBalance", 100, 200), t0)
	agg.Add(context.Background(), event("getBalance", 110, 200), t0.Add(100*time.Millisecond))
	agg.Add(context.Background(), event("getBalance", 120, 200), t0.Add(249*time.Millisecond))

	assert.Empty(t, handler.snapshots)

	snapshot, ok := agg.Snapshot("getBalance")
	require.True(t, ok)
	assert.Equal(t, int64(3), snapshot.Calls)
}

func TestWindowAggregator_HandlerErrorDoesNotStopFlush(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{fail: true}
	agg := NewWindowAggregator(250*time.Millisecond, handler)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	agg.Add(context.Background(), event("getBalance", 100, 200), t0)
	agg.Add(context.Background(), event("getLogs", 100, 200), t0.Add(150*time.Millisecond))
	agg.Add(context.Background(), event("getBalance", 100, 200), t0.Add(250*time.Millisecond))

	assert.Len(t, handler.snapshots, 2, "every method is still handed over")

	_, ok := agg.Snapshot("getBalance")
	assert.False(t, ok, "window clears even when the handler fails")
}

func TestWindowAggregator_SampleTracksLastHashedSource(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	agg := NewWindowAggregator(250*time.Millisecond, handler)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	first := event("getBalance", 100, 200)
	first.SourceID = "iphash:aaaaaaaaaaaa"
	agg.Add(context.Background(), first, t0)

	second := event("getBalance", 110, 200)
	agg.Add(context.Background(), second, t0.Add(10*time.Millisecond))

	snapshot, ok := agg.Snapshot("getBalance")
	require.True(t, ok)
	assert.Equal(t, "iphash:aaaaaaaaaaaa", snapshot.Sample, "events without an address keep the last seen sample")
}
