package aggregators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowStats_CountsAndErrorRate(t *testing.T) {
	t.Parallel()

	stats := NewWindowStats()
	stats.Add(100, false)
	stats.Add(200, true)

	snapshot := stats.Snapshot("getBalance")

	assert.Equal(t, int64(2), snapshot.Calls)
	assert.Equal(t, int64(1), snapshot.Errors)
	assert.Equal(t, 0.5, snapshot.ErrRate)
	assert.Equal(t, "getBalance", snapshot.Method)
}

func TestWindowStats_SnapshotIsIdempotent(t *testing.T) {
	t.Parallel()

	stats := NewWindowStats()
	for i := 0; i < 50; i++ {
		stats.Add(float64(i), i%10 == 0)
	}

	first := stats.Snapshot("getBlock")
	second := stats.Snapshot("getBlock")

	assert.Equal(t, first, second)
}

func TestWindowStats_P95TracksLatencies(t *testing.T) {
	t.Parallel()

	stats := NewWindowStats()
	for i := 1; i <= 100; i++ {
		stats.Add(float64(i), false)
	}

	snapshot := stats.Snapshot("getBlock")

	// Rank-based sketch: expect convergence near the true p95, not equality.
	assert.InDelta(t, 95.0, snapshot.P95, 3.0)
}

func TestWindowStats_EmptyWindowSnapshot(t *testing.T) {
	t.Parallel()

	stats := NewWindowStats()
	snapshot := stats.Snapshot("getBlock")

	assert.Equal(t, int64(0), snapshot.Calls)
	assert.Equal(t, 0.0, snapshot.P95)
	assert.Equal(t, 0.0, snapshot.ErrRate)
	assert.Equal(t, 0.0, snapshot.ZLat)
	assert.Equal(t, 0.0, snapshot.ZErr)
}
