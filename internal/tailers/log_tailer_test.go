package tailers_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"rpc-sentinel/internal/tailers"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (c *lineCollector) collect(ch <-chan []byte) {
	for line := range ch {
		c.mu.Lock()
		c.lines = append(c.lines, string(line))
		c.mu.Unlock()
	}
}

func (c *lineCollector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFollow_DoesNotReplayHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rpc.jsonl")
	appendLine(t, path, "historic")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tailer := tailers.NewLogTailer(zerolog.Nop())
	ch := tailer.Follow(ctx, path)

	collector := &lineCollector{}
	go collector.collect(ch)

	// Give the tailer time to open and seek to EOF before appending.
	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "fresh")

	assert.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) == 1 && lines[0] == "fresh"
	}, 2*time.Second, 20*time.Millisecond)
	assert.NotContains(t, collector.snapshot(), "historic")
}

func TestFollow_WaitsForAbsentFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rpc.jsonl")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tailer := tailers.NewLogTailer(zerolog.Nop())
	ch := tailer.Follow(ctx, path)

	collector := &lineCollector{}
	go collector.collect(ch)

	// File appears after the tailer started; lines appended after the
	// open must flow through.
	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "first")
	time.Sleep(400 * time.Millisecond)
	appendLine(t, path, "second")

	assert.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) >= 1 && lines[len(lines)-1] == "second"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFollow_SurvivesRotation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rpc.jsonl")
	appendLine(t, path, "seed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tailer := tailers.NewLogTailer(zerolog.Nop())
	ch := tailer.Follow(ctx, path)

	collector := &lineCollector{}
	go collector.collect(ch)

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "before-rotate")

	assert.Eventually(t, func() bool {
		return len(collector.snapshot()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	// Rotate: remove and recreate; follow must pick the new file up.
	require.NoError(t, os.Remove(path))
	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "ignored-preopen")
	time.Sleep(400 * time.Millisecond)
	appendLine(t, path, "after-rotate")

	assert.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) >= 2 && lines[len(lines)-1] == "after-rotate"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFollow_RotationDiscardsStaleOffset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rpc.jsonl")
	appendLine(t, path, "ab")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tailer := tailers.NewLogTailer(zerolog.Nop())
	ch := tailer.Follow(ctx, path)

	collector := &lineCollector{}
	go collector.collect(ch)

	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "xy")

	assert.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) == 1 && lines[0] == "xy"
	}, 2*time.Second, 20*time.Millisecond)

	// Replace the file with one already larger than the recorded offset.
	// Resuming at that offset inside the new file would emit a fabricated
	// mid-line fragment; the tailer must restart at end-of-file instead.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.WriteFile(path, []byte("replacement-line-one\nreplacement-line-two\n"), 0o644))
	time.Sleep(400 * time.Millisecond)
	appendLine(t, path, "post-rotate")

	assert.Eventually(t, func() bool {
		lines := collector.snapshot()
		return len(lines) >= 2 && lines[len(lines)-1] == "post-rotate"
	}, 3*time.Second, 20*time.Millisecond)

	for _, line := range collector.snapshot() {
		assert.Contains(t, []string{"xy", "post-rotate"}, line)
	}
}

func TestFollow_CancellationClosesStream(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rpc.jsonl")
	appendLine(t, path, "seed")

	ctx, cancel := context.WithCancel(context.Background())
	tailer := tailers.NewLogTailer(zerolog.Nop())
	ch := tailer.Follow(ctx, path)

	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open, "channel must close on cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}
