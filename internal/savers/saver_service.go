package savers

import (
	"context"
	"time"

	"rpc-sentinel/internal/buses"
	"rpc-sentinel/internal/models"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/svcerrors"
	"rpc-sentinel/internal/sinks"
	"rpc-sentinel/internal/streams"
)

//go:generate mockgen -source=saver_service.go -destination=./mocks/saver_service_mock.go -package=mocks

// SaverService is the bridge between the bus and the rotating writers. The
// bus side decodes, routes, and enqueues; the stream side (one partition
// worker per stream) owns the writers and appends.
type SaverService interface {
	streams.RecordSink
	OnBusMessage(ctx context.Context, msg *buses.Message)
	Close()
}

type saverService struct {
	router   RecordRouter
	producer streams.RecordProducer
	writers  map[string]sinks.RotatingWriter
	logger   loggers.Logger
}

func NewSaverService(router RecordRouter, producer streams.RecordProducer, writers map[string]sinks.RotatingWriter, logger loggers.Logger) SaverService {
	return &saverService{
		router:   router,
		producer: producer,
		writers:  writers,
		logger:   logger,
	}
}

// OnBusMessage runs on the transport delivery goroutine; it hands off to the
// partitioned queue and returns without blocking on disk.
func (s *saverService) OnBusMessage(ctx context.Context, msg *buses.Message) {
	record := DecodeRecord(msg.Topic, msg.Payload, time.Now())
	stream := s.router.Route(record)
	metricSaverRecordsRoutedTotal.WithLabelValues(stream).Inc()

	if err := s.producer.Produce(ctx, stream, record); err != nil {
		s.logger.Warn().Err(err).
			Str(loggers.FieldTopic, msg.Topic).
			Str(loggers.FieldStream, stream).
			Msg("record enqueue failed")
	}
}

// HandleRecord appends one routed record through the stream's writer. Called
// from a single partition worker per stream.
func (s *saverService) HandleRecord(ctx context.Context, stream string, record *models.BusRecord) *svcerrors.ServiceError {
	writer, ok := s.writers[stream]
	if !ok {
		return errUnknownStream(stream)
	}
	return writer.Write(ctx, record.Payload, time.Unix(record.TS, 0))
}

// Close flushes and closes every stream writer.
func (s *saverService) Close() {
	for stream, writer := range s.writers {
		if err := writer.Close(); err != nil {
			s.logger.Warn().Err(err).Str(loggers.FieldStream, stream).Msg("writer close failed")
		}
	}
}
