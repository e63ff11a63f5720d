package sinks

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"rpc-sentinel/internal/shared/loggers"
)

//go:generate mockgen -source=retention_sweeper.go -destination=./mocks/retention_sweeper_mock.go -package=mocks

// RetentionSweeper deletes expired bucket files from one managed directory.
// It never touches the file the paired writer currently has open.
type RetentionSweeper interface {
	Run(ctx context.Context)
	Sweep(now time.Time)
}

type retentionSweeper struct {
	dir      string
	ext      string
	ttl      time.Duration
	interval time.Duration
	current  func() string
	stream   string
	logger   loggers.Logger
}

// NewRetentionSweeper creates a sweeper for dir. current reports the paired
// writer's open file and is consulted on every sweep. A ttl of zero or less
// disables the sweeper entirely (keep forever).
func NewRetentionSweeper(dir, ext string, ttl, interval time.Duration, current func() string, stream string, logger loggers.Logger) RetentionSweeper {
	return &retentionSweeper{
		dir:      dir,
		ext:      ext,
		ttl:      ttl,
		interval: interval,
		current:  current,
		stream:   stream,
		logger:   logger,
	}
}

// Run sweeps at a fixed interval until ctx is cancelled.
func (s *retentionSweeper) Run(ctx context.Context) {
	if s.ttl <= 0 {
		s.logger.Info().Str(loggers.FieldStream, s.stream).Msg("retention disabled, keeping all files")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep deletes managed files whose mtime is older than the TTL. Per-file
// failures are logged and skipped; one bad file never aborts the pass.
func (s *retentionSweeper) Sweep(now time.Time) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn().Err(err).Str(loggers.FieldStream, s.stream).Msg("retention scan failed")
		return
	}

	currentPath := s.current()

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != s.ext {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if path == currentPath {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn().Err(err).Str(loggers.FieldPath, path).Msg("retention stat failed")
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}

		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str(loggers.FieldPath, path).Msg("retention delete failed")
			continue
		}
		metricSinkFilesSweptTotal.WithLabelValues(s.stream).Inc()
		s.logger.Info().
			Str(loggers.FieldStream, s.stream).
			Str(loggers.FieldPath, path).
			Msg("expired bucket file deleted")
	}
}
