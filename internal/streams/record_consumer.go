package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
	"rpc-sentinel/internal/shared/ulid"
)

// RecordSink persists one routed record. Implementations are called from a
// single partition worker per stream and may keep per-stream state without
// locking.
type RecordSink interface {
	HandleRecord(ctx context.Context, stream string, record *models.BusRecord) *svcerrors.ServiceError
}

//go:generate mockgen -source=record_consumer.go -destination=./mocks/record_consumer_mock.go -package=mocks
type RecordConsumer interface {
	Start(ctx context.Context)
	Stop()
}

type recordConsumer struct {
	queue *PartitionedQueue[RecordEnvelope]
	sink  RecordSink

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

func NewRecordConsumer(queue *PartitionedQueue[RecordEnvelope], sink RecordSink, logger loggers.Logger) RecordConsumer {
	return &recordConsumer{
		queue:  queue,
		sink:   sink,
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

// Start spawns one worker goroutine per partition.
func (consumer *recordConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func(partitionIndex int, ch <-chan RecordEnvelope) {
			defer consumer.wg.Done()

			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}(partitionIndex, ch)
	}
}

// Stop waits for workers to stop (best called during app shutdown).
func (consumer *recordConsumer) Stop() {
	consumer.stopOnce.Do(func() { close(consumer.stopCh) })
	consumer.wg.Wait()
}

func (consumer *recordConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan RecordEnvelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-consumer.stopCh:
			return
		case envelope, ok := <-ch:
			if !ok {
				return
			}
			consumer.consumeOne(ctx, partitionIndex, envelope)
		}
	}
}

// consumeOne handles a single envelope with panic recovery so a poisoned
// record never takes down its partition worker.
func (consumer *recordConsumer) consumeOne(ctx context.Context, partitionIndex int, envelope RecordEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("record consumer panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}

			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricBusRecordConsumedTotal.WithLabelValues(streamBusRecord, svcErr.Code).Inc()
		}
	}()

	ctx = consumer.logger.With().
		Str(loggers.FieldPartitionId, fmt.Sprintf("%d", partitionIndex)).
		Str(loggers.FieldStream, envelope.Stream).
		Str(loggers.FieldRequestID, ulid.NewULID()).
		Logger().WithContext(ctx)

	if svcErr := consumer.sink.HandleRecord(ctx, envelope.Stream, envelope.Record); svcErr != nil {
		loggers.Ctx(ctx).Warn().Err(svcErr).Msg("record persist failed")
		metricBusRecordConsumedTotal.WithLabelValues(streamBusRecord, svcErr.Code).Inc()
		return
	}
	metricBusRecordConsumedTotal.WithLabelValues(streamBusRecord, metrics.ValueNoError).Inc()
}
