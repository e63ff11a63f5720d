package sinks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rpc-sentinel/internal/sinks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestRetentionSweeper_DeletesExpiredKeepsFresh(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	expired := writeAgedFile(t, dir, "log-1.jsonl", 3*time.Hour)
	fresh := writeAgedFile(t, dir, "log-2.jsonl", 10*time.Minute)

	sweeper := sinks.NewRetentionSweeper(dir, ".jsonl", 2*time.Hour, time.Minute, func() string { return "" }, "normal", zerolog.Nop())
	sweeper.Sweep(time.Now())

	assert.NoFileExists(t, expired)
	assert.FileExists(t, fresh)
}

func TestRetentionSweeper_NeverDeletesCurrentFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	current := writeAgedFile(t, dir, "log-open.jsonl", 3*time.Hour)

	sweeper := sinks.NewRetentionSweeper(dir, ".jsonl", 2*time.Hour, time.Minute, func() string { return current }, "normal", zerolog.Nop())
	sweeper.Sweep(time.Now())

	assert.FileExists(t, current)
}

func TestRetentionSweeper_IgnoresUnmanagedExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	other := writeAgedFile(t, dir, "notes.txt", 3*time.Hour)

	sweeper := sinks.NewRetentionSweeper(dir, ".jsonl", 2*time.Hour, time.Minute, func() string { return "" }, "normal", zerolog.Nop())
	sweeper.Sweep(time.Now())

	assert.FileExists(t, other)
}

func TestRetentionSweeper_ZeroTTLKeepsForever(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	old := writeAgedFile(t, dir, "log-1.jsonl", 300*time.Hour)

	sweeper := sinks.NewRetentionSweeper(dir, ".jsonl", 0, time.Millisecond, func() string { return "" }, "flagged", zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		sweeper.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("disabled sweeper did not return immediately")
	}
	assert.FileExists(t, old)
}

func TestRetentionSweeper_MissingDirectoryIsNonFatal(t *testing.T) {
	t.Parallel()

	sweeper := sinks.NewRetentionSweeper(filepath.Join(t.TempDir(), "absent"), ".jsonl", time.Hour, time.Minute, func() string { return "" }, "normal", zerolog.Nop())

	assert.NotPanics(t, func() { sweeper.Sweep(time.Now()) })
}
