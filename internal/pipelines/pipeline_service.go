package pipelines

import (
	"context"
	"time"

	"rpc-sentinel/internal/aggregators"
	"rpc-sentinel/internal/parsers"
	"rpc-sentinel/internal/shared/loggers"
	"rpc-sentinel/internal/shared/metrics"
	"rpc-sentinel/internal/shared/svcerrors"
	"rpc-sentinel/internal/tailers"
)

//go:generate mockgen -source=pipeline_service.go -destination=./mocks/pipeline_service_mock.go -package=mocks

// PipelineService drives the agent's hot path: follow the call log, parse
// each line, feed the window aggregator. Flushing happens synchronously
// inside Add, so the whole pipeline stays single-goroutine and the window
// map never needs a lock.
type PipelineService interface {
	Run(ctx context.Context)
}

type pipelineService struct {
	tailer     tailers.LogTailer
	parser     parsers.EventParser
	aggregator aggregators.WindowAggregator
	logPath    string
	logger     loggers.Logger
}

func NewPipelineService(tailer tailers.LogTailer, parser parsers.EventParser, aggregator aggregators.WindowAggregator, logPath string, logger loggers.Logger) PipelineService {
	return &pipelineService{
		tailer:     tailer,
		parser:     parser,
		aggregator: aggregator,
		logPath:    logPath,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled. Malformed lines are dropped and
// counted; they never stop the stream.
func (s *pipelineService) Run(ctx context.Context) {
	ctx = s.logger.WithContext(ctx)
	lines := s.tailer.Follow(ctx, s.logPath)

	for line := range lines {
		event, err := s.parser.Parse(line)
		if err != nil {
			if svcErr, ok := svcerrors.AsServiceError(err); ok {
				metricPipelineEventsTotal.WithLabelValues(svcErr.Code).Inc()
			} else {
				metricPipelineEventsTotal.WithLabelValues(svcerrors.NewInternalErrorUndefined(err).Code).Inc()
			}
			s.logger.Debug().Err(err).Msg("malformed line dropped")
			continue
		}

		s.aggregator.Add(ctx, event, time.Now())
		metricPipelineEventsTotal.WithLabelValues(metrics.ValueNoError).Inc()
	}
}
