package tailers

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"rpc-sentinel/internal/shared/loggers"
)

const (
	// defaultPollInterval is the wait between read attempts when the file
	// has no new data. Polling keeps the tailer portable across
	// filesystems that lack change notification.
	defaultPollInterval = 20 * time.Millisecond
	// defaultReopenInterval is the wait before retrying when the file is
	// absent or an I/O error forced a reopen.
	defaultReopenInterval = 250 * time.Millisecond
)

//go:generate mockgen -source=log_tailer.go -destination=./mocks/log_tailer_mock.go -package=mocks
type LogTailer interface {
	// Follow streams raw lines appended to path. The first open seeks to
	// end-of-file. Reopens after transient I/O errors resume from the
	// last read offset; rotation and truncation restart at end-of-file.
	// Every I/O error is recoverable: the channel closes only when ctx is
	// cancelled.
	Follow(ctx context.Context, path string) <-chan []byte
}

type logTailer struct {
	pollInterval   time.Duration
	reopenInterval time.Duration
	logger         loggers.Logger
}

func NewLogTailer(logger loggers.Logger) LogTailer {
	return &logTailer{
		pollInterval:   defaultPollInterval,
		reopenInterval: defaultReopenInterval,
		logger:         logger,
	}
}

func (t *logTailer) Follow(ctx context.Context, path string) <-chan []byte {
	out := make(chan []byte)
	go t.run(ctx, path, out)
	return out
}

func (t *logTailer) run(ctx context.Context, path string, out chan<- []byte) {
	defer close(out)

	// offset 0 means "no prior read offset recorded".
	var offset int64
	var pending []byte

	for {
		if ctx.Err() != nil {
			return
		}

		file, resumedOffset, err := t.openAndSeek(path, offset)
		if err != nil {
			if !t.sleep(ctx, t.reopenInterval) {
				return
			}
			continue
		}
		offset = resumedOffset

		reader := bufio.NewReader(file)
		offset, pending = t.readLines(ctx, path, file, reader, out, offset, pending)
		_ = file.Close()
		if ctx.Err() != nil {
			return
		}
	}
}

// readLines drains complete lines until cancellation or until the file needs
// reopening. Returns the offset and partial-line buffer to resume with; an
// offset of 0 signals that resume state was invalidated (truncation).
func (t *logTailer) readLines(ctx context.Context, path string, file *os.File, reader *bufio.Reader, out chan<- []byte, offset int64, pending []byte) (int64, []byte) {
	for {
		if ctx.Err() != nil {
			return offset, pending
		}

		chunk, err := reader.ReadBytes('\n')
		if len(chunk) > 0 {
			offset += int64(len(chunk))
			pending = append(pending, chunk...)
		}

		if err == nil {
			line := bytes.TrimRight(pending, "\r\n")
			pending = nil
			select {
			case out <- line:
			case <-ctx.Done():
				return offset, nil
			}
			continue
		}

		if errors.Is(err, io.EOF) {
			info, statErr := file.Stat()
			if statErr != nil || info.Size() < offset {
				// Truncated under us: drop resume state and fall
				// back to end-of-file on reopen.
				t.logger.Warn().Str(loggers.FieldPath, file.Name()).Msg("tailed file shrank, resetting offset")
				return 0, nil
			}
			pathInfo, statErr := os.Stat(path)
			if statErr != nil || !os.SameFile(info, pathInfo) {
				// Deleted or replaced: the recorded offset and any
				// partial line belong to the old file, so drop both
				// and restart at the new file's end.
				t.logger.Warn().Str(loggers.FieldPath, path).Msg("tailed file rotated, reopening")
				return 0, nil
			}
			if !t.sleep(ctx, t.pollInterval) {
				return offset, pending
			}
			continue
		}

		// Any other I/O error: reopen and resume from the same offset.
		t.logger.Warn().Err(err).Str(loggers.FieldPath, file.Name()).Msg("tail read failed, reopening")
		return offset, pending
	}
}

// openAndSeek opens path and positions the read cursor: end-of-file when no
// offset is recorded or the offset is past the current size, the recorded
// offset otherwise.
func (t *logTailer) openAndSeek(path string, offset int64) (*os.File, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, offset, err
	}

	size := info.Size()
	if offset == 0 || offset > size {
		if _, err := file.Seek(0, io.SeekEnd); err != nil {
			_ = file.Close()
			return nil, offset, err
		}
		return file, size, nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, offset, err
	}
	return file, offset, nil
}

func (t *logTailer) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
