package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
)

// NamingFunc builds a file name from a bucket start time. The name must be
// deterministic: every writer restart lands in the same file for the same
// bucket, so append-mode reopen continues the stream seamlessly.
type NamingFunc func(bucketStart time.Time) string

// CalendarNaming names files by UTC calendar minute, e.g. "log-20260830-1415.jsonl".
func CalendarNaming(prefix, ext string) NamingFunc {
	return func(bucketStart time.Time) string {
		return fmt.Sprintf("%s-%s%s", prefix, bucketStart.UTC().Format("20060102-1504"), ext)
	}
}

// EpochNaming names files by raw bucket epoch seconds, e.g. "flagged-1767225600.jsonl".
func EpochNaming(prefix, ext string) NamingFunc {
	return func(bucketStart time.Time) string {
		return fmt.Sprintf("%s-%d%s", prefix, bucketStart.Unix(), ext)
	}
}

//go:generate mockgen -source=rotating_writer.go -destination=./mocks/rotating_writer_mock.go -package=mocks

// RotatingWriter appends newline-delimited records into time-bucketed files.
// Write is single-goroutine: exactly one worker owns a writer. CurrentPath is
// the sole coordination point with the retention sweeper and is safe to call
// from any goroutine.
type RotatingWriter interface {
	Write(ctx context.Context, record []byte, ts time.Time) *svcerrors.ServiceError
	CurrentPath() string
	Close() error
}

type rotatingWriter struct {
	dir        string
	periodSecs int64
	naming     NamingFunc
	stream     string
	logger     loggers.Logger

	file        *os.File
	bucketStart int64
	currentPath atomic.Value // string
}

// NewRotatingWriter creates a writer that buckets records into files of the
// given period under dir. stream labels metrics and log lines.
func NewRotatingWriter(dir string, period time.Duration, naming NamingFunc, stream string, logger loggers.Logger) RotatingWriter {
	w := &rotatingWriter{
		dir:        dir,
		periodSecs: int64(period / time.Second),
		naming:     naming,
		stream:     stream,
		logger:     logger,
	}
	w.currentPath.Store("")
	return w
}

// Write routes the record into the bucket containing ts. A bucket change
// flushes and closes the old handle before the new one opens, so at most one
// file per writer is ever open.
func (w *rotatingWriter) Write(_ context.Context, record []byte, ts time.Time) *svcerrors.ServiceError {
	bucket := ts.Unix() - ts.Unix()%w.periodSecs
	if w.file == nil || bucket != w.bucketStart {
		if svcErr := w.rotate(bucket); svcErr != nil {
			metricSinkRecordsWrittenTotal.WithLabelValues(w.stream, svcErr.Code).Inc()
			return svcErr
		}
	}

	if _, err := w.file.Write(record); err != nil {
		svcErr := errWriteFailed(err)
		metricSinkRecordsWrittenTotal.WithLabelValues(w.stream, svcErr.Code).Inc()
		return svcErr
	}
	if _, err := w.file.Write([]byte{'\n'}); err != nil {
		svcErr := errWriteFailed(err)
		metricSinkRecordsWrittenTotal.WithLabelValues(w.stream, svcErr.Code).Inc()
		return svcErr
	}

	// Unbuffered appends: every record reaches the OS before Write returns.
	// Durability beyond that is out of scope.
	metricSinkRecordsWrittenTotal.WithLabelValues(w.stream, metrics.ValueNoError).Inc()
	return nil
}

// CurrentPath returns the path of the open bucket file, or "" before the
// first write. The retention sweeper must never delete this path.
func (w *rotatingWriter) CurrentPath() string {
	return w.currentPath.Load().(string)
}

func (w *rotatingWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *rotatingWriter) rotate(bucket int64) *svcerrors.ServiceError {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.logger.Warn().Err(err).
				Str(loggers.FieldStream, w.stream).
				Str(loggers.FieldPath, w.CurrentPath()).
				Msg("closing rotated bucket file failed")
		}
		w.file = nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errOpenFailed(err)
	}

	path := filepath.Join(w.dir, w.naming(time.Unix(bucket, 0)))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errOpenFailed(err)
	}

	w.file = file
	w.bucketStart = bucket
	w.currentPath.Store(path)
	metricSinkRotationsTotal.WithLabelValues(w.stream).Inc()
	w.logger.Info().
		Str(loggers.FieldStream, w.stream).
		Str(loggers.FieldPath, path).
		Msg("opened bucket file")
	return nil
}
