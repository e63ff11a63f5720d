package streams

import (
	"context"

	"rpc-sentinel/internal/models"
)

// RecordEnvelope pairs a routed bus record with the stream it belongs to.
type RecordEnvelope struct {
	Stream string
	Record *models.BusRecord
}

// NewRecordQueue creates the queue decoupling bus receipt from disk writes.
func NewRecordQueue() *PartitionedQueue[RecordEnvelope] {
	return NewPartitionedQueue[RecordEnvelope]()
}

// RecordProducer hands routed records to the partitioned queue.
//
// The partition key is the stream name, so every record of one stream is
// consumed by the same worker goroutine. That worker is the sole owner of
// the stream's rotating writer; no write is ever concurrent with another
// write to the same file.
//
//go:generate mockgen -source=record_producer.go -destination=./mocks/record_producer_mock.go -package=mocks
type RecordProducer interface {
	Produce(ctx context.Context, stream string, record *models.BusRecord) error
}

type recordProducer struct {
	queue *PartitionedQueue[RecordEnvelope]
}

func NewRecordProducer(queue *PartitionedQueue[RecordEnvelope]) RecordProducer {
	return &recordProducer{queue: queue}
}

func (producer *recordProducer) Produce(ctx context.Context, stream string, record *models.BusRecord) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	producer.queue.Publish(stream, RecordEnvelope{Stream: stream, Record: record})
	metricBusRecordProducedTotal.WithLabelValues(streamBusRecord).Inc()
	return nil
}
